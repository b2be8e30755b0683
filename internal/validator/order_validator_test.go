package validator_test

import (
	"net/http"
	"testing"

	"app/internal/cart"
	"app/internal/config"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func validRequest() usecase.OrderRequest {
	return usecase.OrderRequest{
		CustomerName:  "María López",
		CustomerPhone: "987 654 321",
		DeclaredTotal: price("45.50"),
		Items: []cart.Line{
			{Name: "Ceviche", UnitPrice: price("25.50"), Quantity: 1},
			{Name: "Chicha Morada", UnitPrice: price("10.00"), Quantity: 2},
		},
		Receipt: usecase.Receipt{
			Data:     []byte("fake-jpeg-bytes"),
			MimeType: "image/jpeg",
			Size:     15,
		},
	}
}

func newValidator() usecase.OrderValidator {
	return validator.NewOrderValidator(config.DefaultMaxReceiptSize, "image/")
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, status, he.Status)
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, newValidator().Validate(validRequest()))
}

func TestValidate_BlankName(t *testing.T) {
	in := validRequest()
	in.CustomerName = "   "
	assertStatus(t, newValidator().Validate(in), http.StatusBadRequest)
}

func TestValidate_Phone(t *testing.T) {
	v := newValidator()

	//区切り文字は落として9桁ならOK
	in := validRequest()
	in.CustomerPhone = "(987) 654-321"
	assert.NoError(t, v.Validate(in))

	in.CustomerPhone = "12345"
	assertStatus(t, v.Validate(in), http.StatusBadRequest)

	in.CustomerPhone = "9876543210"
	assertStatus(t, v.Validate(in), http.StatusBadRequest)
}

func TestValidate_NoItems(t *testing.T) {
	in := validRequest()
	in.Items = nil
	assertStatus(t, newValidator().Validate(in), http.StatusBadRequest)
}

func TestValidate_NonPositiveQuantity(t *testing.T) {
	in := validRequest()
	in.Items[0].Quantity = 0
	assertStatus(t, newValidator().Validate(in), http.StatusBadRequest)
}

// 0円の品も負の品も弾く（正の価格のみ）
func TestValidate_NonPositivePrice(t *testing.T) {
	v := newValidator()

	in := validRequest()
	in.Items = []cart.Line{{Name: "Gratis", UnitPrice: decimal.Zero, Quantity: 1}}
	in.DeclaredTotal = decimal.Zero
	assertStatus(t, v.Validate(in), http.StatusBadRequest)

	in = validRequest()
	in.Items[0].UnitPrice = price("-1.00")
	assertStatus(t, v.Validate(in), http.StatusBadRequest)
}

func TestValidate_ReceiptTooLarge(t *testing.T) {
	in := validRequest()
	in.Receipt.Size = config.DefaultMaxReceiptSize + 1
	assertStatus(t, newValidator().Validate(in), http.StatusRequestEntityTooLarge)
}

func TestValidate_ReceiptNotImage(t *testing.T) {
	in := validRequest()
	in.Receipt.MimeType = "application/pdf"
	assertStatus(t, newValidator().Validate(in), http.StatusUnsupportedMediaType)
}

func TestValidate_TotalMismatch(t *testing.T) {
	in := validRequest()
	in.DeclaredTotal = price("45.52")
	assertStatus(t, newValidator().Validate(in), http.StatusBadRequest)
}

// 0.01までの誤差は許容する
func TestValidate_TotalWithinEpsilon(t *testing.T) {
	in := validRequest()
	in.DeclaredTotal = price("45.51")
	assert.NoError(t, newValidator().Validate(in))
}

func TestNormalizePhone(t *testing.T) {
	v := newValidator()

	got, ok := v.NormalizePhone("987-654-321")
	assert.True(t, ok)
	assert.Equal(t, "987654321", got)

	//国番号付きは桁が合わないので弾く
	_, ok = v.NormalizePhone("+51 987 654 321")
	assert.False(t, ok)

	_, ok = v.NormalizePhone("abcdefghi")
	assert.False(t, ok)
}

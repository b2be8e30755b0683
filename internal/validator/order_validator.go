package validator

import (
	"net/http"
	"strings"
	"unicode"

	"app/internal/usecase"

	"github.com/shopspring/decimal"
)

// 検証の閾値。
const (
	//電話番号の桁数（数字のみ）
	PhoneDigits = 9

	//合計金額の許容誤差（通貨単位で0.01）
	totalEpsilon = "0.01"
)

type orderValidator struct {
	maxReceiptSize int64
	mimePrefix     string
}

// Usecaseは interface を依存注入
func NewOrderValidator(maxReceiptSize int64, mimePrefix string) usecase.OrderValidator {
	if mimePrefix == "" {
		mimePrefix = "image/"
	}
	return &orderValidator{
		maxReceiptSize: maxReceiptSize,
		mimePrefix:     mimePrefix,
	}
}

// Validate は副作用を起こす前の一括チェック。
// 失敗はすべて4xxのHTTPErrorで返す。
func (v *orderValidator) Validate(in usecase.OrderRequest) error {
	// 名前の必須チェック
	if strings.TrimSpace(in.CustomerName) == "" {
		return usecase.NewHTTPError(http.StatusBadRequest, "customer name is required")
	}

	// 電話番号（数字だけで9桁）
	if _, ok := v.NormalizePhone(in.CustomerPhone); !ok {
		return usecase.NewHTTPError(http.StatusBadRequest, "customer phone must have 9 digits")
	}

	// 明細の必須チェック
	if len(in.Items) == 0 {
		return usecase.NewHTTPError(http.StatusBadRequest, "at least one item is required")
	}
	for _, line := range in.Items {
		if strings.TrimSpace(line.Name) == "" {
			return usecase.NewHTTPError(http.StatusBadRequest, "item name is required")
		}
		if line.Quantity < 1 {
			return usecase.NewHTTPError(http.StatusBadRequest, "item quantity must be positive")
		}
		if !line.UnitPrice.IsPositive() {
			return usecase.NewHTTPError(http.StatusBadRequest, "item price must be positive")
		}
	}

	// レシート画像
	if len(in.Receipt.Data) == 0 {
		return usecase.NewHTTPError(http.StatusBadRequest, "receipt image is required")
	}
	if in.Receipt.Size > v.maxReceiptSize || int64(len(in.Receipt.Data)) > v.maxReceiptSize {
		return usecase.NewHTTPError(http.StatusRequestEntityTooLarge, "receipt image too large")
	}
	if !strings.HasPrefix(in.Receipt.MimeType, v.mimePrefix) {
		return usecase.NewHTTPError(http.StatusUnsupportedMediaType, "receipt must be an image")
	}

	// 申告合計と Σ(単価×数量) の突き合わせ
	sum := decimal.Zero
	for _, line := range in.Items {
		sum = sum.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)))
	}

	epsilon, _ := decimal.NewFromString(totalEpsilon)
	if in.DeclaredTotal.Sub(sum).Abs().GreaterThan(epsilon) {
		return usecase.NewHTTPError(http.StatusBadRequest, "total amount does not match items")
	}

	return nil
}

// NormalizePhone は数字以外を取り除き、ちょうど9桁のときだけ返す。
func (v *orderValidator) NormalizePhone(phone string) (string, bool) {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != PhoneDigits {
		return "", false
	}
	return digits, true
}

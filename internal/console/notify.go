package console

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
)

// WhatsAppの国番号（ペルー）。
const phoneCountryCode = "51"

var ErrNotConfirmed = errors.New("order is not confirmed")

// NotifyMessage は客向けの確認メッセージを組み立てる。
// 明細と合計を載せる。配送保証は無い、ただの下書き。
func NotifyMessage(o usecase.OrderOutput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hola %s, tu pedido fue confirmado:\n", o.CustomerName)
	for _, it := range o.Items {
		lineTotal := it.Price.Mul(decimal.NewFromInt(it.Quantity))
		fmt.Fprintf(&b, "- %dx %s (S/%s)\n", it.Quantity, it.ItemName, lineTotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: S/%s", o.TotalAmount.StringFixed(2))

	return b.String()
}

// NotifyLink は確認済み注文のWhatsAppディープリンクを返す。
// CONFIRMED以外では意味が無いので拒否する。
func NotifyLink(o usecase.OrderOutput) (string, error) {
	if o.Status != string(model.OrderStatusConfirmed) {
		return "", ErrNotConfirmed
	}

	msg := NotifyMessage(o)
	link := fmt.Sprintf(
		"https://wa.me/%s%s?text=%s",
		phoneCountryCode,
		o.CustomerPhone,
		url.QueryEscape(msg),
	)
	return link, nil
}

package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// カートの1行。同名の品は1行にまとめる。
type Line struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int64
}

// 注文前のカート。チェックアウト成功かクリアで破棄する。
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add は行を追加する。同名の行があれば数量を加算する。
func (c *Cart) Add(line Line) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	for i := range c.lines {
		if c.lines[i].Name == line.Name {
			c.lines[i].Quantity += line.Quantity
			return
		}
	}
	c.lines = append(c.lines, line)
}

// UpdateQuantity は数量を更新する。1未満は1に切り上げる。
func (c *Cart) UpdateQuantity(name string, quantity int64) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.lines {
		if c.lines[i].Name == name {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Remove は同名の行を取り除く。
func (c *Cart) Remove(name string) {
	out := c.lines[:0]
	for _, l := range c.lines {
		if l.Name != name {
			out = append(out, l)
		}
	}
	c.lines = out
}

// Clear は全行を破棄する。
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines は行のコピーを返す。
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Subtotal は Σ(単価×数量) を返す。
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return total
}

// TotalQuantity は数量の合計を返す。
func (c *Cart) TotalQuantity() int64 {
	var n int64
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// ParsePrice は "S/29.00" のような通貨記号付き文字列も受け付ける。
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "S/")
	return decimal.NewFromString(strings.TrimSpace(s))
}

// Package pricing turns a cart into money figures. It is pure: no I/O,
// no clock, no database - the settlement service feeds it snapshotted
// prices and persists whatever it returns.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// TaxRatePercent is the flat sales tax applied to every cart.
const TaxRatePercent = 5

var taxRate = decimal.NewFromInt(TaxRatePercent).Div(decimal.NewFromInt(100))

var (
	ErrEmptyCart           = errors.New("cart must contain at least one item")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrNegativePrice       = errors.New("unit price must not be negative")
	ErrUnknownDiscountType = errors.New("discount type must be 'fixed' or 'percent'")
)

// DiscountType selects how Discount.Value is interpreted.
type DiscountType string

const (
	DiscountFixed   DiscountType = "fixed"
	DiscountPercent DiscountType = "percent"
)

// Discount is the cashier-entered discount for the whole cart.
type Discount struct {
	Type  DiscountType
	Value decimal.Decimal
}

// NoDiscount is the zero discount.
func NoDiscount() Discount {
	return Discount{Type: DiscountFixed, Value: decimal.Zero}
}

// Line is one cart row with its price snapshot.
type Line struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Quote is the priced cart. Total is never negative.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Price computes subtotal, tax, discount amount and total for a cart.
// Negative discount values are clamped to zero; a discount larger than
// subtotal+tax clamps the total at zero instead of going negative.
func Price(lines []Line, d Discount) (Quote, error) {
	if len(lines) == 0 {
		return Quote{}, ErrEmptyCart
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity < 1 {
			return Quote{}, ErrInvalidQuantity
		}
		if l.UnitPrice.IsNegative() {
			return Quote{}, ErrNegativePrice
		}
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	tax := subtotal.Mul(taxRate).Round(2)

	value := d.Value
	if value.IsNegative() {
		value = decimal.Zero
	}
	var discount decimal.Decimal
	switch d.Type {
	case DiscountFixed, "":
		discount = value.Round(2)
	case DiscountPercent:
		discount = subtotal.Mul(value).Div(decimal.NewFromInt(100)).Round(2)
	default:
		return Quote{}, ErrUnknownDiscountType
	}

	total := subtotal.Add(tax).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Quote{Subtotal: subtotal, Tax: tax, Discount: discount, Total: total}, nil
}

package rebalance

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is a display type for dollar amounts. The engine works in
// float64 dollars; Money only exists so reports format consistently.
type Money float64

// String renders the amount as USD, e.g. "$1,234.56".
func (m Money) String() string {
	cents := decimal.NewFromFloat(float64(m)).Shift(2).Round(0)
	return money.New(cents.IntPart(), money.USD).Display()
}

// SignedString renders with an explicit sign, and "-" for zero amounts.
func (m Money) SignedString() string {
	if m == 0 {
		return "-"
	}
	if m < 0 {
		return "-" + Money(-m).String()
	}
	return "+" + m.String()
}

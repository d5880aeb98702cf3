package payments

import "github.com/shopspring/decimal"

// TotalDue returns due * (1 - discount/100) * (1 + tax/100) rounded half away
// from zero to 2 places. Callers pass decimal.Zero for a missing percentage.
func TotalDue(due, discount, tax decimal.Decimal) decimal.Decimal {
	afterDiscount := due.Mul(hundred.Sub(discount)).Div(hundred)
	return afterDiscount.Mul(hundred.Add(tax)).Div(hundred).Round(2)
}

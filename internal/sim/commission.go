package sim

import "github.com/shopspring/decimal"

// fixedRateCommission scales trade sums by a percentage fee. A zero
// rate leaves both sides untouched, which is the default.
type fixedRateCommission struct {
	buyFactor  decimal.Decimal
	sellFactor decimal.Decimal
}

func newFixedRateCommission(pct float64) *fixedRateCommission {
	rate := decimal.NewFromFloat(pct).Div(decimal.NewFromInt(100))
	one := decimal.NewFromInt(1)

	return &fixedRateCommission{
		buyFactor:  one.Add(rate),
		sellFactor: one.Sub(rate),
	}
}

// BuyPrice returns the effective per share cost including the fee.
func (c *fixedRateCommission) BuyPrice(price decimal.Decimal) decimal.Decimal {
	return price.Mul(c.buyFactor)
}

// ApplyOnSell returns the proceeds of sum after the fee.
func (c *fixedRateCommission) ApplyOnSell(sum decimal.Decimal) decimal.Decimal {
	return sum.Mul(c.sellFactor)
}

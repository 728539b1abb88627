package domain

import "github.com/shopspring/decimal"

// FormatMoney renders an amount with exactly two decimal places, a '.'
// separator and no digit grouping, independent of the process locale.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Limits are the process-wide withdrawal caps handed to the rule engine.
type Limits struct {
	PerTransaction  decimal.Decimal
	WithdrawalCount int
}

func DefaultLimits() Limits {
	return Limits{
		PerTransaction:  decimal.NewFromInt(500),
		WithdrawalCount: 3,
	}
}

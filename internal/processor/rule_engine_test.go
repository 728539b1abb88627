package processor

import (
	"testing"

	"ledger/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEvaluateDeposit(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		balance     string
		wantAccept  bool
		wantBalance string
	}{
		{"positive", "100", "0", true, "100"},
		{"adds to balance", "0.01", "70", true, "70.01"},
		{"zero", "0", "10", false, "0"},
		{"negative", "-5", "10", false, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := EvaluateDeposit(d(tt.amount), d(tt.balance), 0)

			assert.Equal(t, tt.wantAccept, v.Accepted)
			if tt.wantAccept {
				assert.True(t, v.Balance.Equal(d(tt.wantBalance)), "balance %s", v.Balance)
			} else {
				assert.Equal(t, domain.ReasonInvalidAmount, v.Reason)
			}
		})
	}
}

func TestEvaluateDeposit_KeepsWithdrawalCount(t *testing.T) {
	v := EvaluateDeposit(d("10"), d("5"), 2)

	assert.True(t, v.Accepted)
	assert.Equal(t, 2, v.WithdrawalCount)
	assert.True(t, v.Balance.Equal(d("15")))
}

func TestEvaluateWithdrawal_Precedence(t *testing.T) {
	limits := domain.DefaultLimits()

	tests := []struct {
		name    string
		amount  string
		balance string
		count   int
		want    domain.Reason
	}{
		{"insufficient funds wins over limit", "600", "100", 0, domain.ReasonInsufficientFunds},
		{"insufficient funds wins over count", "200", "100", 3, domain.ReasonInsufficientFunds},
		{"limit exceeded", "501", "1000", 0, domain.ReasonLimitExceeded},
		{"limit wins over count", "501", "1000", 3, domain.ReasonLimitExceeded},
		{"count exceeded", "10", "1000", 3, domain.ReasonWithdrawalCountExceeded},
		{"non-positive after count cap reports count", "-1", "1000", 3, domain.ReasonWithdrawalCountExceeded},
		{"zero amount", "0", "1000", 0, domain.ReasonInvalidAmount},
		{"negative amount", "-10", "1000", 0, domain.ReasonInvalidAmount},
		{"negative amount on empty account", "-10", "0", 0, domain.ReasonInvalidAmount},
		{"zero on empty account", "0", "0", 0, domain.ReasonInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := EvaluateWithdrawal(d(tt.amount), d(tt.balance), tt.count, limits)

			assert.False(t, v.Accepted)
			assert.Equal(t, tt.want, v.Reason)
		})
	}
}

func TestEvaluateWithdrawal_Boundaries(t *testing.T) {
	limits := domain.DefaultLimits()

	v := EvaluateWithdrawal(d("500"), d("500"), 0, limits)
	assert.True(t, v.Accepted, "amount equal to limit and balance is accepted")
	assert.True(t, v.Balance.IsZero())
	assert.Equal(t, 1, v.WithdrawalCount)

	v = EvaluateWithdrawal(d("1"), d("10"), 2, limits)
	assert.True(t, v.Accepted, "third withdrawal is accepted")
	assert.Equal(t, 3, v.WithdrawalCount)
	assert.True(t, v.Balance.Equal(d("9")))
}

func TestRuleEngine_CustomLimits(t *testing.T) {
	engine := NewRuleEngine(domain.Limits{PerTransaction: d("50"), WithdrawalCount: 1})

	assert.Equal(t, domain.ReasonLimitExceeded, engine.EvaluateWithdrawal(d("51"), d("100"), 0).Reason)
	assert.True(t, engine.EvaluateWithdrawal(d("50"), d("100"), 0).Accepted)
	assert.Equal(t, domain.ReasonWithdrawalCountExceeded, engine.EvaluateWithdrawal(d("5"), d("100"), 1).Reason)
	assert.True(t, engine.EvaluateDeposit(d("5"), d("0"), 0).Accepted)
	assert.Equal(t, 1, engine.Limits().WithdrawalCount)
}

func TestRuleEngine_ZeroCountLimitRejectsEveryWithdrawal(t *testing.T) {
	engine := NewRuleEngine(domain.Limits{PerTransaction: d("500"), WithdrawalCount: 0})

	assert.Equal(t, domain.ReasonWithdrawalCountExceeded, engine.EvaluateWithdrawal(d("1"), d("10"), 0).Reason)
}

package processor

import (
	"ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// RuleEngine applies the deposit and withdrawal rules with a fixed set of
// limits. It holds no account state and has no side effects.
type RuleEngine struct {
	limits domain.Limits
}

var _ domain.Rules = (*RuleEngine)(nil)

func NewRuleEngine(limits domain.Limits) *RuleEngine {
	return &RuleEngine{limits: limits}
}

func (e *RuleEngine) Limits() domain.Limits {
	return e.limits
}

func (e *RuleEngine) EvaluateDeposit(amount, balance decimal.Decimal, withdrawalCount int) domain.Verdict {
	return EvaluateDeposit(amount, balance, withdrawalCount)
}

func (e *RuleEngine) EvaluateWithdrawal(amount, balance decimal.Decimal, withdrawalCount int) domain.Verdict {
	return EvaluateWithdrawal(amount, balance, withdrawalCount, e.limits)
}

// EvaluateDeposit accepts any positive amount. Deposits do not count
// against the withdrawal cap, so withdrawalCount is carried through unchanged.
func EvaluateDeposit(amount, balance decimal.Decimal, withdrawalCount int) domain.Verdict {
	if !amount.IsPositive() {
		return domain.Reject(domain.ReasonInvalidAmount)
	}
	return domain.Accept(balance.Add(amount), withdrawalCount)
}

// EvaluateWithdrawal checks, in order: balance, per-transaction limit,
// withdrawal count, then positivity. The first failing check decides the
// reason, so a non-positive amount can surface as one of the earlier
// reasons (e.g. a negative amount once the count cap is reached).
func EvaluateWithdrawal(amount, balance decimal.Decimal, withdrawalCount int, limits domain.Limits) domain.Verdict {
	switch {
	case amount.GreaterThan(balance):
		return domain.Reject(domain.ReasonInsufficientFunds)
	case amount.GreaterThan(limits.PerTransaction):
		return domain.Reject(domain.ReasonLimitExceeded)
	case withdrawalCount >= limits.WithdrawalCount:
		return domain.Reject(domain.ReasonWithdrawalCountExceeded)
	case amount.IsPositive():
		return domain.Accept(balance.Sub(amount), withdrawalCount+1)
	default:
		return domain.Reject(domain.ReasonInvalidAmount)
	}
}

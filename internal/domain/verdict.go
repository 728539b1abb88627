package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// OutcomeAccepted labels an accepted operation wherever outcomes are
// reported by name; rejections use Reason.String.
const OutcomeAccepted = "accepted"

// Reason identifies why an operation was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonInvalidAmount
	ReasonInsufficientFunds
	ReasonLimitExceeded
	ReasonWithdrawalCountExceeded
	ReasonUnknownOperation
)

var (
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrLimitExceeded           = errors.New("withdrawal limit exceeded")
	ErrWithdrawalCountExceeded = errors.New("withdrawal count exceeded")
	ErrUnknownOperation        = errors.New("unknown operation")
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonInvalidAmount:
		return "invalid_amount"
	case ReasonInsufficientFunds:
		return "insufficient_funds"
	case ReasonLimitExceeded:
		return "limit_exceeded"
	case ReasonWithdrawalCountExceeded:
		return "withdrawal_count_exceeded"
	case ReasonUnknownOperation:
		return "unknown_operation"
	default:
		return "unknown"
	}
}

// Err maps a rejection reason to its sentinel error. ReasonNone maps to nil.
func (r Reason) Err() error {
	switch r {
	case ReasonNone:
		return nil
	case ReasonInvalidAmount:
		return ErrInvalidAmount
	case ReasonInsufficientFunds:
		return ErrInsufficientFunds
	case ReasonLimitExceeded:
		return ErrLimitExceeded
	case ReasonWithdrawalCountExceeded:
		return ErrWithdrawalCountExceeded
	default:
		return ErrUnknownOperation
	}
}

// Verdict is the outcome of evaluating an operation against account state.
// On acceptance Balance and WithdrawalCount hold the post-operation values.
type Verdict struct {
	Accepted        bool
	Reason          Reason
	Balance         decimal.Decimal
	WithdrawalCount int
}

func Accept(balance decimal.Decimal, withdrawalCount int) Verdict {
	return Verdict{
		Accepted:        true,
		Reason:          ReasonNone,
		Balance:         balance,
		WithdrawalCount: withdrawalCount,
	}
}

func Reject(reason Reason) Verdict {
	return Verdict{Reason: reason}
}

func (v Verdict) Err() error {
	if v.Accepted {
		return nil
	}
	return v.Reason.Err()
}

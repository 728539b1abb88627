package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
)

// Label is the capitalised name used in statement lines.
func (t TransactionType) Label() string {
	switch t {
	case TypeDeposit:
		return "Deposit"
	case TypeWithdrawal:
		return "Withdrawal"
	default:
		return string(t)
	}
}

// Operation is a requested deposit or withdrawal of Amount.
type Operation struct {
	Type   TransactionType
	Amount decimal.Decimal
}

func Deposit(amount decimal.Decimal) Operation {
	return Operation{Type: TypeDeposit, Amount: amount}
}

func Withdrawal(amount decimal.Decimal) Operation {
	return Operation{Type: TypeWithdrawal, Amount: amount}
}

// Transaction is the journal record of an accepted operation.
type Transaction struct {
	ID            string          `json:"id"`
	AccountNumber int             `json:"account_number"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}

func NewTransaction(accountNumber int, op Operation, balanceAfter decimal.Decimal) *Transaction {
	return &Transaction{
		ID:            uuid.NewString(),
		AccountNumber: accountNumber,
		Type:          op.Type,
		Amount:        op.Amount,
		BalanceAfter:  balanceAfter,
		CreatedAt:     time.Now(),
	}
}

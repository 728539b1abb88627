package domain

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Rules decides whether an operation is accepted given the current state.
// Implementations must be pure.
type Rules interface {
	EvaluateDeposit(amount, balance decimal.Decimal, withdrawalCount int) Verdict
	EvaluateWithdrawal(amount, balance decimal.Decimal, withdrawalCount int) Verdict
}

// Account holds the mutable ledger state of one account. Balance,
// withdrawal count and statement log change only through Apply, under mu,
// and only when the rules accept the operation.
type Account struct {
	Agency    string
	Number    int
	User      *User
	CreatedAt time.Time

	mu              sync.Mutex
	balance         decimal.Decimal
	withdrawalCount int
	entries         []string
}

func NewAccount(agency string, number int, user *User) *Account {
	return &Account{
		Agency:    agency,
		Number:    number,
		User:      user,
		CreatedAt: time.Now(),
		balance:   decimal.Zero,
	}
}

func (a *Account) Holder() string {
	if a.User == nil {
		return ""
	}
	return a.User.Name
}

func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

func (a *Account) WithdrawalCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.withdrawalCount
}

func (a *Account) Deposit(amount decimal.Decimal, rules Rules) Verdict {
	return a.Apply(Deposit(amount), rules)
}

func (a *Account) Withdraw(amount decimal.Decimal, rules Rules) Verdict {
	return a.Apply(Withdrawal(amount), rules)
}

// Apply evaluates op against the current state and, if accepted, commits
// the new balance, counter and log line together.
func (a *Account) Apply(op Operation, rules Rules) Verdict {
	verdict, _ := a.ApplyAndRecord(op, rules, nil)
	return verdict
}

// ApplyAndRecord is Apply with a record hook that runs under the account
// lock after an operation is accepted and before the state changes. Records
// are therefore made in the same order as the state changes. If record fails
// the state is left untouched and the error is returned.
func (a *Account) ApplyAndRecord(op Operation, rules Rules, record func(Verdict) error) (Verdict, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var verdict Verdict
	switch op.Type {
	case TypeDeposit:
		verdict = rules.EvaluateDeposit(op.Amount, a.balance, a.withdrawalCount)
	case TypeWithdrawal:
		verdict = rules.EvaluateWithdrawal(op.Amount, a.balance, a.withdrawalCount)
	default:
		return Reject(ReasonUnknownOperation), nil
	}

	if !verdict.Accepted {
		return verdict, nil
	}

	if record != nil {
		if err := record(verdict); err != nil {
			return Verdict{}, err
		}
	}

	a.balance = verdict.Balance
	a.withdrawalCount = verdict.WithdrawalCount
	a.entries = append(a.entries, FormatEntry(op.Type, op.Amount))
	return verdict, nil
}

func (a *Account) Statement() Statement {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries := make([]string, len(a.entries))
	copy(entries, a.entries)
	return Statement{Entries: entries, Balance: a.balance}
}

// AccountSummary is a read-only view used for listings and API responses.
type AccountSummary struct {
	Agency          string `json:"agency"`
	Number          int    `json:"account_number"`
	Holder          string `json:"holder"`
	HolderSSN       string `json:"holder_ssn"`
	Balance         string `json:"balance"`
	WithdrawalCount int    `json:"withdrawal_count"`
}

func (a *Account) Summary() AccountSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	summary := AccountSummary{
		Agency:          a.Agency,
		Number:          a.Number,
		Holder:          a.Holder(),
		Balance:         FormatMoney(a.balance),
		WithdrawalCount: a.withdrawalCount,
	}
	if a.User != nil {
		summary.HolderSSN = a.User.SSN
	}
	return summary
}

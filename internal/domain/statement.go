package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NoTransactions is shown in place of an empty statement log.
const NoTransactions = "No transactions have been made."

// FormatEntry renders one accepted operation as a newline-terminated
// statement line, e.g. "Deposit: $ 100.00\n".
func FormatEntry(t TransactionType, amount decimal.Decimal) string {
	return fmt.Sprintf("%s: $ %s\n", t.Label(), FormatMoney(amount))
}

// Statement is a point-in-time copy of an account's log and balance.
type Statement struct {
	Entries []string
	Balance decimal.Decimal
}

func (s Statement) Empty() bool {
	return len(s.Entries) == 0
}

// Lines returns the log lines without their trailing newlines.
func (s Statement) Lines() []string {
	lines := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		lines = append(lines, strings.TrimSuffix(e, "\n"))
	}
	return lines
}

// Text is the concatenated log, or NoTransactions when nothing was accepted yet.
func (s Statement) Text() string {
	if s.Empty() {
		return NoTransactions
	}
	return strings.Join(s.Entries, "")
}

func (s Statement) FormattedBalance() string {
	return FormatMoney(s.Balance)
}

package validator

import (
	"errors"
	"fmt"
	"ledger/internal/domain"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidAccountNumber = errors.New("invalid account number")
	ErrMissingField         = errors.New("missing required field")
)

// InputValidator turns raw text typed by an operator or sent by a client
// into the typed values the ledger core accepts.
type InputValidator struct{}

func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ParseAmount accepts plain decimal text such as "100", "40.5" or "-3".
// Whether the value is acceptable for an operation is left to the rules.
func (v *InputValidator) ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return amount, nil
}

func (v *InputValidator) ParseAccountNumber(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	number, err := strconv.Atoi(raw)
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAccountNumber, raw)
	}
	return number, nil
}

// NormalizeUser trims every field and reports each one left empty.
func (v *InputValidator) NormalizeUser(user domain.User) (domain.User, error) {
	user.SSN = strings.TrimSpace(user.SSN)
	user.Name = strings.TrimSpace(user.Name)
	user.BirthDate = strings.TrimSpace(user.BirthDate)
	user.Address = strings.TrimSpace(user.Address)

	var errs []error
	for _, f := range []struct{ name, value string }{
		{"ssn", user.SSN},
		{"name", user.Name},
		{"birth_date", user.BirthDate},
		{"address", user.Address},
	} {
		if f.value == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingField, f.name))
		}
	}

	return user, errors.Join(errs...)
}

func (v *InputValidator) ValidateSSN(ssn string) (string, error) {
	ssn = strings.TrimSpace(ssn)
	if ssn == "" {
		return "", fmt.Errorf("%w: ssn", ErrMissingField)
	}
	return ssn, nil
}

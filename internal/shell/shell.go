package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"ledger/internal/domain"
	"ledger/internal/processor"
	"ledger/internal/repository"
	"ledger/internal/service"
	"ledger/pkg/validator"
)

// maxLineLength bounds a single line of input; longer lines are discarded.
const maxLineLength = 64 * 1024

var errLineTooLong = errors.New("input line too long")

// Shell is the interactive menu. It turns typed text into calls on the
// registry and the transaction processor and turns their results into
// messages; it holds no ledger state of its own.
type Shell struct {
	reader    *bufio.Reader
	out       io.Writer
	registry  *service.Registry
	processor *processor.TransactionProcessor
	validator *validator.InputValidator
	logger    *slog.Logger
}

func New(
	in io.Reader,
	out io.Writer,
	registry *service.Registry,
	processor *processor.TransactionProcessor,
	logger *slog.Logger,
) *Shell {
	if logger == nil {
		logger = slog.Default()
	}

	return &Shell{
		reader:    bufio.NewReaderSize(in, maxLineLength),
		out:       out,
		registry:  registry,
		processor: processor,
		validator: validator.NewInputValidator(),
		logger:    logger,
	}
}

// Run serves menu options until the operator quits, input ends or ctx is
// cancelled. End of input is treated like quitting.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		option, err := s.prompt(menuText)
		if errors.Is(err, errLineTooLong) {
			s.notice(msgInputTooLong)
			continue
		}
		if err != nil {
			return s.finish(err)
		}

		switch strings.TrimSpace(option) {
		case "d":
			err = s.transact(ctx, domain.TypeDeposit, promptDeposit)
		case "w":
			err = s.transact(ctx, domain.TypeWithdrawal, promptWithdrawal)
		case "s":
			err = s.statement(ctx)
		case "na":
			err = s.newAccount(ctx)
		case "la":
			err = s.listAccounts(ctx)
		case "nu":
			err = s.newUser(ctx)
		case "q":
			fmt.Fprintln(s.out, msgFarewell)
			return nil
		default:
			fmt.Fprintln(s.out, msgInvalidOption)
		}

		if errors.Is(err, errLineTooLong) {
			s.notice(msgInputTooLong)
			continue
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

func (s *Shell) finish(err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, msgFarewell)
		return nil
	}
	return err
}

func (s *Shell) transact(ctx context.Context, t domain.TransactionType, amountPrompt string) error {
	account, err := s.selectAccount(ctx)
	if err != nil || account == nil {
		return err
	}

	raw, err := s.prompt(amountPrompt)
	if err != nil {
		return err
	}
	amount, err := s.validator.ParseAmount(raw)
	if err != nil {
		s.notice(msgInvalidAmount)
		return nil
	}

	verdict, err := s.processor.Process(ctx, account.Number, domain.Operation{Type: t, Amount: amount})
	if err != nil {
		s.logger.ErrorContext(ctx, "Operation failed",
			slog.Int("account_number", account.Number),
			slog.String("error", err.Error()))
		s.notice(msgUnexpected)
		return nil
	}

	if verdict.Accepted {
		s.notice(successMessage(t))
	} else {
		s.notice(rejectionMessage(verdict.Reason))
	}
	return nil
}

func (s *Shell) statement(ctx context.Context) error {
	account, err := s.selectAccount(ctx)
	if err != nil || account == nil {
		return err
	}

	st, err := s.processor.Statement(ctx, account.Number)
	if err != nil {
		s.notice(msgAccountNotFound)
		return nil
	}

	fmt.Fprintln(s.out, statementHeader)
	if st.Empty() {
		fmt.Fprintln(s.out, domain.NoTransactions)
	} else {
		fmt.Fprint(s.out, st.Text())
	}
	fmt.Fprintf(s.out, "\nBalance: $ %s\n", st.FormattedBalance())
	fmt.Fprintln(s.out, statementFooter)
	return nil
}

func (s *Shell) newUser(ctx context.Context) error {
	raw, err := s.prompt(promptSSN)
	if err != nil {
		return err
	}
	ssn, err := s.validator.ValidateSSN(raw)
	if err != nil {
		s.notice(msgUserFieldsNeeded)
		return nil
	}

	exists, err := s.registry.UserExists(ctx, ssn)
	if err != nil {
		return err
	}
	if exists {
		s.notice(msgUserExists)
		return nil
	}

	user := domain.User{SSN: ssn}
	for _, field := range []struct {
		prompt string
		dst    *string
	}{
		{promptName, &user.Name},
		{promptBirthDate, &user.BirthDate},
		{promptAddress, &user.Address},
	} {
		if *field.dst, err = s.prompt(field.prompt); err != nil {
			return err
		}
	}

	user, err = s.validator.NormalizeUser(user)
	if err != nil {
		s.notice(msgUserFieldsNeeded)
		return nil
	}

	if _, err := s.registry.RegisterUser(ctx, user); err != nil {
		if errors.Is(err, service.ErrUserExists) {
			s.notice(msgUserExists)
			return nil
		}
		return err
	}

	s.notice(msgUserCreated)
	return nil
}

func (s *Shell) newAccount(ctx context.Context) error {
	raw, err := s.prompt(promptUserSSN)
	if err != nil {
		return err
	}

	if _, err := s.registry.OpenAccount(ctx, strings.TrimSpace(raw)); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			s.notice(msgUserNotFound)
			return nil
		}
		return err
	}

	s.notice(msgAccountCreated)
	return nil
}

func (s *Shell) listAccounts(ctx context.Context) error {
	accounts, err := s.registry.ListAccounts(ctx)
	if err != nil {
		return err
	}

	for _, account := range accounts {
		fmt.Fprintln(s.out, accountRule)
		fmt.Fprintf(s.out, "Agency:\t%s\nA/C:\t\t%d\nHolder:\t%s\n\n", account.Agency, account.Number, account.Holder())
	}
	return nil
}

// selectAccount resolves the account an operation targets. A nil account
// with a nil error means the operator was already told why.
func (s *Shell) selectAccount(ctx context.Context) (*domain.Account, error) {
	latest, err := s.registry.LatestAccount(ctx)
	if errors.Is(err, service.ErrNoAccounts) {
		s.notice(msgNoAccounts)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	raw, err := s.prompt(promptAccountNumber)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return latest, nil
	}

	number, err := s.validator.ParseAccountNumber(raw)
	if err != nil {
		s.notice(msgAccountNotFound)
		return nil, nil
	}

	account, err := s.registry.Account(ctx, number)
	if errors.Is(err, repository.ErrNotFound) {
		s.notice(msgAccountNotFound)
		return nil, nil
	}
	return account, err
}

func (s *Shell) prompt(text string) (string, error) {
	fmt.Fprint(s.out, text)
	return s.readLine()
}

// readLine returns the next line without its terminator. A line longer
// than maxLineLength is consumed in full and reported as errLineTooLong.
func (s *Shell) readLine() (string, error) {
	line, isPrefix, err := s.reader.ReadLine()
	if err != nil {
		return "", err
	}
	if !isPrefix {
		return string(line), nil
	}

	for isPrefix {
		if _, isPrefix, err = s.reader.ReadLine(); err != nil {
			return "", err
		}
	}
	return "", errLineTooLong
}

func (s *Shell) notice(msg string) {
	fmt.Fprintf(s.out, "\n=== %s ===\n", msg)
}

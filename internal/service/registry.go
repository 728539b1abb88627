package service

import (
	"context"
	"errors"
	"fmt"
	"ledger/internal/domain"
	"ledger/internal/repository"
	"log/slog"
)

var (
	ErrUserExists   = errors.New("a user with this SSN already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrNoAccounts   = errors.New("no accounts available")
)

// Registry keeps track of registered users and the accounts opened for them.
type Registry struct {
	users    repository.UserRepository
	accounts repository.AccountRepository
	agency   string
	logger   *slog.Logger
}

func NewRegistry(
	users repository.UserRepository,
	accounts repository.AccountRepository,
	agency string,
	logger *slog.Logger,
) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		users:    users,
		accounts: accounts,
		agency:   agency,
		logger:   logger,
	}
}

func (r *Registry) Agency() string {
	return r.agency
}

func (r *Registry) UserExists(ctx context.Context, ssn string) (bool, error) {
	_, err := r.users.GetBySSN(ctx, ssn)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (r *Registry) RegisterUser(ctx context.Context, user domain.User) (*domain.User, error) {
	u := user
	if err := r.users.Save(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, user.SSN)
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	r.logger.InfoContext(ctx, "User registered", slog.String("ssn", u.SSN))
	return &u, nil
}

func (r *Registry) OpenAccount(ctx context.Context, ssn string) (*domain.Account, error) {
	user, err := r.users.GetBySSN(ctx, ssn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, ssn)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	account, err := r.accounts.Create(ctx, r.agency, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	r.logger.InfoContext(ctx, "Account opened",
		slog.String("agency", account.Agency),
		slog.Int("account_number", account.Number),
		slog.String("ssn", ssn))
	return account, nil
}

func (r *Registry) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return r.users.GetAll(ctx)
}

// UserAccounts returns the accounts held by ssn, oldest first.
func (r *Registry) UserAccounts(ctx context.Context, ssn string) ([]*domain.Account, error) {
	exists, err := r.UserExists(ctx, ssn)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, ssn)
	}

	accounts, err := r.accounts.GetByUserSSN(ctx, ssn)
	if errors.Is(err, repository.ErrNotFound) {
		return []*domain.Account{}, nil
	}
	return accounts, err
}

func (r *Registry) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return r.accounts.GetAll(ctx)
}

func (r *Registry) Account(ctx context.Context, number int) (*domain.Account, error) {
	return r.accounts.GetByNumber(ctx, number)
}

// LatestAccount returns the most recently opened account.
func (r *Registry) LatestAccount(ctx context.Context) (*domain.Account, error) {
	account, err := r.accounts.Latest(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoAccounts
	}
	return account, err
}

package repository

import (
	"context"
	"errors"
	"ledger/internal/domain"
)

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetBySSN(ctx context.Context, ssn string) (*domain.User, error)
	GetAll(ctx context.Context) ([]*domain.User, error)
}

type AccountRepository interface {
	// Create opens a new account for user under agency. Numbers are assigned
	// sequentially from 1 and never reused.
	Create(ctx context.Context, agency string, user *domain.User) (*domain.Account, error)
	GetByNumber(ctx context.Context, number int) (*domain.Account, error)
	GetByUserSSN(ctx context.Context, ssn string) ([]*domain.Account, error)
	GetAll(ctx context.Context) ([]*domain.Account, error)
	Latest(ctx context.Context) (*domain.Account, error)
}

type TransactionRepository interface {
	Save(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByAccount(ctx context.Context, accountNumber int) ([]*domain.Transaction, error)
}

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate entry")
)

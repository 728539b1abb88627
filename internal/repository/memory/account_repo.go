package memory

import (
	"context"
	"fmt"
	"ledger/internal/domain"
	"ledger/internal/repository"
	"sync"
)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[int]*domain.Account
	order    []int
	ssnIndex map[string][]int
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[int]*domain.Account),
		ssnIndex: make(map[string][]int),
	}
}

func (r *AccountRepository) Create(ctx context.Context, agency string, user *domain.User) (*domain.Account, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: account holder", repository.ErrNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	number := len(r.order) + 1
	if _, exists := r.accounts[number]; exists {
		return nil, fmt.Errorf("%w: account %d", repository.ErrDuplicate, number)
	}

	account := domain.NewAccount(agency, number, user)
	r.accounts[number] = account
	r.order = append(r.order, number)
	r.ssnIndex[user.SSN] = append(r.ssnIndex[user.SSN], number)

	return account, nil
}

func (r *AccountRepository) GetByNumber(ctx context.Context, number int) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[number]
	if !exists {
		return nil, fmt.Errorf("%w: account %d", repository.ErrNotFound, number)
	}
	return account, nil
}

func (r *AccountRepository) GetByUserSSN(ctx context.Context, ssn string) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	numbers, exists := r.ssnIndex[ssn]
	if !exists {
		return nil, fmt.Errorf("%w: accounts for user %s", repository.ErrNotFound, ssn)
	}

	result := make([]*domain.Account, 0, len(numbers))
	for _, n := range numbers {
		result = append(result, r.accounts[n])
	}

	return result, nil
}

func (r *AccountRepository) GetAll(ctx context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Account, 0, len(r.order))
	for _, n := range r.order {
		result = append(result, r.accounts[n])
	}

	return result, nil
}

func (r *AccountRepository) Latest(ctx context.Context) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil, fmt.Errorf("%w: no accounts opened", repository.ErrNotFound)
	}
	return r.accounts[r.order[len(r.order)-1]], nil
}

package memory

import (
	"context"
	"fmt"
	"ledger/internal/domain"
	"ledger/internal/repository"
	"sync"
)

// TransactionRepository is an append-only journal of accepted transactions.
type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction
	index        map[int][]string
}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[string]*domain.Transaction),
		index:        make(map[int][]string),
	}
}

func (r *TransactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transactions[tx.ID]; exists {
		return fmt.Errorf("%w: transaction %s", repository.ErrDuplicate, tx.ID)
	}

	r.transactions[tx.ID] = tx
	r.index[tx.AccountNumber] = append(r.index[tx.AccountNumber], tx.ID)

	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, exists := r.transactions[id]
	if !exists {
		return nil, fmt.Errorf("%w: transaction %s", repository.ErrNotFound, id)
	}
	return tx, nil
}

// GetByAccount returns the account's transactions in the order they were saved.
// An account with no accepted transactions yields an empty slice.
func (r *TransactionRepository) GetByAccount(ctx context.Context, accountNumber int) ([]*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.index[accountNumber]
	result := make([]*domain.Transaction, 0, len(ids))
	for _, id := range ids {
		result = append(result, r.transactions[id])
	}

	return result, nil
}

package memory

import (
	"context"
	"fmt"
	"ledger/internal/domain"
	"ledger/internal/repository"
	"sync"
	"time"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
	order []string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]*domain.User),
	}
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.SSN]; exists {
		return fmt.Errorf("%w: user %s", repository.ErrDuplicate, user.SSN)
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.SSN] = user
	r.order = append(r.order, user.SSN)

	return nil
}

func (r *UserRepository) GetBySSN(ctx context.Context, ssn string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[ssn]
	if !exists {
		return nil, fmt.Errorf("%w: user %s", repository.ErrNotFound, ssn)
	}
	return user, nil
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.User, 0, len(r.order))
	for _, ssn := range r.order {
		result = append(result, r.users[ssn])
	}

	return result, nil
}

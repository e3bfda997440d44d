package users

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo, used when neither D1
// credentials nor a DATABASE_URL are configured.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]User
	idByEml map[string]string
	now     func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]User),
		idByEml: make(map[string]string),
		now:     time.Now,
	}
}

// GetByEmail returns the user with the given email.
func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByEml[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.byID[id], nil
}

// Upsert inserts or resets the plan row for the user's email.
func (r *MemoryRepo) Upsert(ctx context.Context, user User) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	user.DateCreated = r.now().UTC()
	if existingID, ok := r.idByEml[user.Email]; ok {
		user.ID = existingID
	}
	r.byID[user.ID] = user
	r.idByEml[user.Email] = user.ID
	return user, nil
}

// DecrementCards decrements cards_remaining if it is still positive.
func (r *MemoryRepo) DecrementCards(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	if user.CardsRemaining <= 0 {
		return User{}, ErrNoCredits
	}
	user.CardsRemaining--
	r.byID[userID] = user
	return user, nil
}

var _ Repo = (*MemoryRepo)(nil)

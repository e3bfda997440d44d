package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrNoCredits is returned by DecrementCards when the balance is
	// already zero; the balance never goes negative.
	ErrNoCredits = errors.New("no credits remaining")
)

// Repo defines persistence operations for user plan records.
type Repo interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	// Upsert inserts the user or, on an email conflict, resets the plan
	// fields. It returns the stored row.
	Upsert(ctx context.Context, user User) (User, error)
	// DecrementCards conditionally decrements cards_remaining by one for
	// the given user id.
	DecrementCards(ctx context.Context, userID string) (User, error)
}

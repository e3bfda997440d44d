package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Service contains business logic for user plan records.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// GetByEmail returns the user record for the given email.
func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	if strings.TrimSpace(email) == "" {
		return User{}, errors.New("email is required")
	}
	return s.Repo.GetByEmail(ctx, email)
}

// Upsert stores the user's plan row, assigning a fresh id on first insert.
func (s *Service) Upsert(ctx context.Context, user User) (User, error) {
	if strings.TrimSpace(user.Email) == "" || strings.TrimSpace(user.Name) == "" || strings.TrimSpace(user.PlanName) == "" {
		return User{}, errors.New("email, name and planName are required")
	}
	if user.CardsRemaining < 0 {
		return User{}, errors.New("cardsRemaining must not be negative")
	}
	if strings.TrimSpace(user.ID) == "" {
		user.ID = uuid.NewString()
	}
	return s.Repo.Upsert(ctx, user)
}

// DecrementOne charges one card credit against the user's balance. It
// satisfies the card pipeline's ledger contract.
func (s *Service) DecrementOne(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	_, err := s.Repo.DecrementCards(ctx, userID)
	return err
}

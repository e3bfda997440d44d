package users

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo against Postgres for self-hosted deployments.
type PGRepo struct {
	DB *sql.DB
}

const userColumns = "id, email, name, plan_name, cards_remaining, date_created"

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) Upsert(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, email, name, plan_name, cards_remaining, date_created)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (email) DO UPDATE SET
  name = EXCLUDED.name,
  plan_name = EXCLUDED.plan_name,
  cards_remaining = EXCLUDED.cards_remaining,
  date_created = now()
RETURNING ` + userColumns
	return scanUser(r.DB.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PlanName,
		user.CardsRemaining,
	))
}

// DecrementCards is conditional on a positive balance, so concurrent
// requests settle at zero rather than going negative.
func (r *PGRepo) DecrementCards(ctx context.Context, userID string) (User, error) {
	const query = `
UPDATE users
SET cards_remaining = cards_remaining - 1
WHERE id = $1 AND cards_remaining > 0
RETURNING ` + userColumns
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNoCredits
		}
		return User{}, err
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PlanName,
		&user.CardsRemaining,
		&user.DateCreated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

var _ Repo = (*PGRepo)(nil)

package users

import (
	"context"
	"fmt"
	"time"

	"cardify-backend/internal/shared/storage/d1"
)

// D1Repo implements Repo over the Cloudflare D1 query RPC. This is the
// production path; concurrency control for the decrement is delegated to
// the database.
type D1Repo struct {
	Client *d1.Client
}

func (r *D1Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	rows, err := r.Client.Query(ctx, `SELECT * FROM users WHERE email = ?`, email)
	if err != nil {
		return User{}, err
	}
	if len(rows) == 0 {
		return User{}, ErrNotFound
	}
	return rowToUser(rows[0])
}

func (r *D1Repo) Upsert(ctx context.Context, user User) (User, error) {
	const query = `INSERT INTO users (id, email, name, plan_name, cards_remaining, date_created)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(email) DO UPDATE SET
name = ?, plan_name = ?, cards_remaining = ?, date_created = ?
RETURNING *`
	now := time.Now().UTC().Format(time.RFC3339)
	rows, err := r.Client.Query(ctx, query,
		user.ID, user.Email, user.Name, user.PlanName, user.CardsRemaining, now,
		user.Name, user.PlanName, user.CardsRemaining, now,
	)
	if err != nil {
		return User{}, err
	}
	if len(rows) == 0 {
		return User{}, fmt.Errorf("d1 upsert returned no row")
	}
	return rowToUser(rows[0])
}

func (r *D1Repo) DecrementCards(ctx context.Context, userID string) (User, error) {
	const query = `UPDATE users
SET cards_remaining = cards_remaining - 1
WHERE id = ? AND cards_remaining > 0
RETURNING *`
	rows, err := r.Client.Query(ctx, query, userID)
	if err != nil {
		return User{}, err
	}
	if len(rows) == 0 {
		return User{}, ErrNoCredits
	}
	return rowToUser(rows[0])
}

// rowToUser maps a generic D1 result row onto User. D1 returns JSON values,
// so numbers arrive as float64 and timestamps as RFC 3339 strings.
func rowToUser(row map[string]any) (User, error) {
	user := User{
		ID:       stringField(row, "id"),
		Email:    stringField(row, "email"),
		Name:     stringField(row, "name"),
		PlanName: stringField(row, "plan_name"),
	}
	if user.Email == "" {
		return User{}, fmt.Errorf("d1 row missing email: %v", row)
	}
	switch v := row["cards_remaining"].(type) {
	case float64:
		user.CardsRemaining = int(v)
	case int:
		user.CardsRemaining = v
	}
	if raw := stringField(row, "date_created"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			user.DateCreated = ts
		}
	}
	return user, nil
}

func stringField(row map[string]any, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

var _ Repo = (*D1Repo)(nil)

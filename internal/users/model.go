package users

import "time"

// User mirrors one row of the remote users table: plan and remaining
// generation credits keyed by a unique email.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	PlanName       string    `json:"plan_name"`
	CardsRemaining int       `json:"cards_remaining"`
	DateCreated    time.Time `json:"date_created"`
}

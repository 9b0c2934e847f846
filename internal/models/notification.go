package models

import "time"

// Notification is an in-app message delivered to a user as a best-effort
// post-commit side effect. Delivery failures never affect committed state.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserCode  string    `db:"user_code" json:"user_code"`
	Subject   string    `db:"subject" json:"subject"`
	Body      string    `db:"body" json:"body"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

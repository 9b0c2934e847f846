package models

import "time"

// Activity is the milestone definition attached to a course section. Project
// creation requires an activity for the idea's affiliation; its scope type is
// copied onto the new project.
type Activity struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	GroupAffiliation
	ScopeType string     `db:"scope_type" json:"scope_type"`
	StartsAt  *time.Time `db:"starts_at" json:"starts_at,omitempty"`
	EndsAt    *time.Time `db:"ends_at" json:"ends_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

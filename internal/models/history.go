package models

import "time"

// IdeaHistory is the append-only audit trail for idea review decisions taken
// before a project exists.
type IdeaHistory struct {
	ID          string    `db:"id" json:"id"`
	IdeaID      string    `db:"idea_id" json:"idea_id"`
	StatusID    string    `db:"status_id" json:"-"`
	StatusName  string    `db:"status_name" json:"status"`
	UserCode    string    `db:"user_code" json:"user_code"`
	Observation string    `db:"observation" json:"observation"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ProjectHistory is the append-only audit trail for project transitions. The
// team reference is optional: rejection branches destroy the team first, so
// their records carry none.
type ProjectHistory struct {
	ID          string    `db:"id" json:"id"`
	ProjectID   string    `db:"project_id" json:"project_id"`
	TeamID      *string   `db:"team_id" json:"team_id,omitempty"`
	StatusID    string    `db:"status_id" json:"-"`
	StatusName  string    `db:"status_name" json:"status"`
	UserCode    string    `db:"user_code" json:"user_code"`
	Observation string    `db:"observation" json:"observation"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

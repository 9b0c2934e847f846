package models

import "time"

// Project is the gradable unit of work created once an idea is approved.
// The idea reference is 1:1 and immutable after creation; the row itself is
// never deleted, only its status evolves.
type Project struct {
	ID           string    `db:"id" json:"id"`
	IdeaID       string    `db:"idea_id" json:"idea_id"`
	ResearchLine string    `db:"research_line" json:"research_line"`
	Technologies *string   `db:"technologies" json:"technologies,omitempty"`
	Keywords     *string   `db:"keywords" json:"keywords,omitempty"`
	ScopeType    string    `db:"scope_type" json:"scope_type"`
	StatusID     string    `db:"status_id" json:"-"`
	StatusName   string    `db:"status_name" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ProjectDetail is a project with its idea and, when one is active, the
// executing team.
type ProjectDetail struct {
	Project
	Idea Idea  `json:"idea"`
	Team *Team `json:"team,omitempty"`
}

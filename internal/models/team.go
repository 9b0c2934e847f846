package models

import "time"

// Team is the set of students executing one project attempt within one
// course section. A release cycle deactivates the team keeping memberships
// for history joins; a rejection removes team and memberships outright.
type Team struct {
	ID    string `db:"id" json:"id"`
	Label string `db:"label" json:"label"`
	GroupAffiliation
	Active    bool         `db:"active" json:"active"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	Members   []TeamMember `json:"members,omitempty"`
}

// TeamMember links a user to a team. Exactly one member per team carries the
// leader flag; it is set at creation and never reassigned.
type TeamMember struct {
	ID       string `db:"id" json:"id"`
	TeamID   string `db:"team_id" json:"team_id"`
	UserCode string `db:"user_code" json:"user_code"`
	IsLeader bool   `db:"is_leader" json:"is_leader"`
}

package models

import "fmt"

// GroupAffiliation is the composite natural key identifying a course section:
// subject code, group letter, academic period and year. It replaced the old
// surrogate group id, so ideas, teams and activities all join on these four
// fields together, never partially.
type GroupAffiliation struct {
	SubjectCode string `db:"subject_code" json:"subject_code" validate:"required"`
	GroupLetter string `db:"group_letter" json:"group_letter" validate:"required"`
	Period      string `db:"period" json:"period" validate:"required"`
	Year        int    `db:"year" json:"year" validate:"required"`
}

// String renders the affiliation for logs and history observations.
func (g GroupAffiliation) String() string {
	return fmt.Sprintf("%s-%s %s/%d", g.SubjectCode, g.GroupLetter, g.Period, g.Year)
}

// Complete reports whether all four key fields are present.
func (g GroupAffiliation) Complete() bool {
	return g.SubjectCode != "" && g.GroupLetter != "" && g.Period != "" && g.Year != 0
}

// Group is the course section container referenced by ideas and teams.
type Group struct {
	GroupAffiliation
	Name      string `db:"name" json:"name"`
	Professor string `db:"professor_code" json:"professor_code"`
	Active    bool   `db:"active" json:"active"`
}

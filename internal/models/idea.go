package models

import "time"

// Idea is a proposed project topic. Affiliation and owner are nullable: an
// idea whose status is LIBRE sits in the proposal bank and must have both
// cleared.
type Idea struct {
	ID                 string    `db:"id" json:"id"`
	Title              string    `db:"title" json:"title"`
	ProblemStatement   string    `db:"problem_statement" json:"problem_statement"`
	Justification      string    `db:"justification" json:"justification"`
	GeneralObjective   string    `db:"general_objective" json:"general_objective"`
	SpecificObjectives string    `db:"specific_objectives" json:"specific_objectives"`
	SubjectCode        *string   `db:"subject_code" json:"subject_code,omitempty"`
	GroupLetter        *string   `db:"group_letter" json:"group_letter,omitempty"`
	Period             *string   `db:"period" json:"period,omitempty"`
	Year               *int      `db:"year" json:"year,omitempty"`
	UserCode           *string   `db:"user_code" json:"user_code,omitempty"`
	StatusID           string    `db:"status_id" json:"-"`
	StatusName         string    `db:"status_name" json:"status"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// Affiliation returns the composite group key, or nil when the idea is
// unassigned (in the bank).
func (i *Idea) Affiliation() *GroupAffiliation {
	if i.SubjectCode == nil || i.GroupLetter == nil || i.Period == nil || i.Year == nil {
		return nil
	}
	return &GroupAffiliation{
		SubjectCode: *i.SubjectCode,
		GroupLetter: *i.GroupLetter,
		Period:      *i.Period,
		Year:        *i.Year,
	}
}

// SetAffiliation assigns the composite group key; nil clears all four fields.
func (i *Idea) SetAffiliation(aff *GroupAffiliation) {
	if aff == nil {
		i.SubjectCode, i.GroupLetter, i.Period, i.Year = nil, nil, nil, nil
		return
	}
	subject, letter, period, year := aff.SubjectCode, aff.GroupLetter, aff.Period, aff.Year
	i.SubjectCode, i.GroupLetter, i.Period, i.Year = &subject, &letter, &period, &year
}

// IdeaFilter constrains idea listing queries.
type IdeaFilter struct {
	Affiliation *GroupAffiliation
	Status      string
	UserCode    string
	Limit       int
	Offset      int
}

// FreeProposal is a bank entry: a LIBRE idea together with its graded
// project, eligible for re-adoption by a new team.
type FreeProposal struct {
	Idea          Idea      `json:"idea"`
	ProjectID     string    `json:"project_id"`
	ResearchLine  string    `json:"research_line"`
	Technologies  *string   `json:"technologies,omitempty"`
	Keywords      *string   `json:"keywords,omitempty"`
	ProjectStatus string    `json:"project_status"`
	GradedAt      time.Time `json:"graded_at"`
}

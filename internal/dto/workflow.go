package dto

import "github.com/siga-dev/proyectos-api/internal/models"

// ReviewIdeaRequest carries a reviewer decision over an idea.
type ReviewIdeaRequest struct {
	Action      models.ReviewAction `json:"action" validate:"required"`
	Observation string              `json:"observation" validate:"max=500"`
}

// CreateProjectRequest carries the fields needed to formalize an approved
// idea into a project.
type CreateProjectRequest struct {
	ResearchLine string `json:"research_line" validate:"required,max=150"`
	Technologies string `json:"technologies" validate:"max=150"`
	Keywords     string `json:"keywords" validate:"max=150"`
}

// ReviewProjectRequest carries a reviewer decision over a project.
type ReviewProjectRequest struct {
	Action      models.ReviewAction `json:"action" validate:"required"`
	Observation string              `json:"observation" validate:"max=500"`
}

// RejectCorrectionRequest identifies the idea/project pair whose requested
// corrections the team declines to address.
type RejectCorrectionRequest struct {
	IdeaID string `json:"idea_id" validate:"required"`
}

// AdoptProposalRequest carries the target course section for adopting a free
// proposal or continuing a graded project.
type AdoptProposalRequest struct {
	Group models.GroupAffiliation `json:"group" validate:"required"`
}

// GradeProjectRequest carries the grading observation.
type GradeProjectRequest struct {
	Observation string `json:"observation" validate:"required,max=500"`
}

// CreateIdeaRequest carries a student's new idea submission.
type CreateIdeaRequest struct {
	Title              string                  `json:"title" validate:"required,max=200"`
	ProblemStatement   string                  `json:"problem_statement" validate:"required"`
	Justification      string                  `json:"justification" validate:"required"`
	GeneralObjective   string                  `json:"general_objective" validate:"required"`
	SpecificObjectives string                  `json:"specific_objectives" validate:"required"`
	Group              models.GroupAffiliation `json:"group" validate:"required"`
}

// IdeaReviewResult is the outcome of an idea review.
type IdeaReviewResult struct {
	Message string       `json:"message"`
	Idea    *models.Idea `json:"idea"`
}

// ProjectReviewResult is the outcome of a project review or grading.
type ProjectReviewResult struct {
	Message string          `json:"message"`
	Project *models.Project `json:"project"`
}

// RejectCorrectionResult reports both entities after declining corrections.
type RejectCorrectionResult struct {
	Message string          `json:"message"`
	Project *models.Project `json:"project"`
	Idea    *models.Idea    `json:"idea"`
}

// ReleaseResult identifies the entities returned to the pool.
type ReleaseResult struct {
	Message   string `json:"message"`
	ProjectID string `json:"project_id"`
	IdeaID    string `json:"idea_id"`
}

// AdoptionResult is the outcome of adopting or continuing a proposal.
type AdoptionResult struct {
	Message string          `json:"message"`
	Project *models.Project `json:"project"`
	Team    *models.Team    `json:"team"`
}

// ProjectCreated is the outcome of formalizing an idea into a project.
type ProjectCreated struct {
	Project  *models.Project  `json:"project"`
	Idea     *models.Idea     `json:"idea"`
	Team     *models.Team     `json:"team,omitempty"`
	Activity *models.Activity `json:"activity"`
}

// IdeaDetail bundles an idea with its review trail.
type IdeaDetail struct {
	Idea    *models.Idea         `json:"idea"`
	History []models.IdeaHistory `json:"history"`
}

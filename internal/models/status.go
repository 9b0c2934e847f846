package models

// Status is a named lifecycle state shared by ideas and projects. Rows live
// in the statuses table and are resolved by exact name through the catalog,
// so the vocabulary can grow without a schema change.
type Status struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
}

// Known status names. The workflow engine treats these as a closed set even
// though they are still resolved through the catalog at runtime.
const (
	StatusLibre        = "LIBRE"
	StatusRevision     = "REVISION"
	StatusStandBy      = "STAND_BY"
	StatusAprobado     = "APROBADO"
	StatusRechazado    = "RECHAZADO"
	StatusEnCurso      = "EN_CURSO"
	StatusSeleccionado = "SELECCIONADO"
	StatusCalificado   = "CALIFICADO"
)

// ReviewAction enumerates reviewer decisions for idea and project reviews.
type ReviewAction string

const (
	ActionAprobar               ReviewAction = "Aprobar"
	ActionAprobarConObservacion ReviewAction = "Aprobar_Con_Observacion"
	ActionRechazar              ReviewAction = "Rechazar"
)

// Valid reports whether the action is one of the three reviewer decisions.
func (a ReviewAction) Valid() bool {
	switch a {
	case ActionAprobar, ActionAprobarConObservacion, ActionRechazar:
		return true
	}
	return false
}

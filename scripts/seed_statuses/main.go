// Command seed_statuses inserts the lifecycle status catalog into the
// database. Safe to run repeatedly: existing names are left untouched.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siga-dev/proyectos-api/internal/models"
	"github.com/siga-dev/proyectos-api/pkg/config"
	"github.com/siga-dev/proyectos-api/pkg/database"
)

type seed struct {
	Name        string
	Description string
}

var statuses = []seed{
	{models.StatusLibre, "Propuesta disponible en el banco"},
	{models.StatusRevision, "Idea en revisión por el docente"},
	{models.StatusStandBy, "Aprobada con observaciones pendientes"},
	{models.StatusAprobado, "Idea aprobada"},
	{models.StatusRechazado, "Idea rechazada"},
	{models.StatusEnCurso, "Proyecto en desarrollo"},
	{models.StatusSeleccionado, "Propuesta adoptada, pendiente de revisión"},
	{models.StatusCalificado, "Proyecto calificado"},
}

func main() {
	var timeout time.Duration
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "database operation timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	inserted, err := run(ctx, db)
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	fmt.Printf("status catalog ready, %d inserted\n", inserted)
}

func run(ctx context.Context, db *sqlx.DB) (int, error) {
	const query = `INSERT INTO statuses (id, name, description)
	VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING`
	inserted := 0
	for _, s := range statuses {
		result, err := db.ExecContext(ctx, query, uuid.NewString(), s.Name, s.Description)
		if err != nil {
			return inserted, fmt.Errorf("insert status %s: %w", s.Name, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return inserted, err
		}
		inserted += int(rows)
	}
	return inserted, nil
}

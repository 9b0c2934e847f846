package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siga-dev/proyectos-api/internal/models"
)

func TestInTxCommitsOnSuccess(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	runner := NewTxRunner(db)
	teams := NewTeamRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE teams SET active = FALSE WHERE id").
		WithArgs("team-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := runner.InTx(context.Background(), func(ctx context.Context) error {
		return teams.Deactivate(ctx, "team-1")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	runner := NewTxRunner(db)
	teams := NewTeamRepository(db)

	boom := errors.New("write conflict")
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE teams SET active = FALSE WHERE id").
		WithArgs("team-1").
		WillReturnError(boom)
	mock.ExpectRollback()

	err := runner.InTx(context.Background(), func(ctx context.Context) error {
		return teams.Deactivate(ctx, "team-1")
	})
	require.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxSharesTransactionAcrossRepositories(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	runner := NewTxRunner(db)
	teams := NewTeamRepository(db)
	histories := NewHistoryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE teams SET active = FALSE WHERE id").
		WithArgs("team-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO project_history").
		WithArgs(sqlmock.AnyArg(), "project-1", "team-1", "st-1", "estu-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	teamID := "team-1"
	err := runner.InTx(context.Background(), func(ctx context.Context) error {
		if err := teams.Deactivate(ctx, teamID); err != nil {
			return err
		}
		return histories.AppendProject(ctx, &models.ProjectHistory{
			ProjectID:   "project-1",
			TeamID:      &teamID,
			StatusID:    "st-1",
			UserCode:    "estu-1",
			Observation: "Proyecto liberado",
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxJoinsAmbientTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	runner := NewTxRunner(db)
	teams := NewTeamRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE teams SET active = FALSE WHERE id").
		WithArgs("team-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := runner.InTx(context.Background(), func(ctx context.Context) error {
		// Nested call must reuse the open transaction, not open another.
		return runner.InTx(ctx, func(ctx context.Context) error {
			return teams.Deactivate(ctx, "team-1")
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

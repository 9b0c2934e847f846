package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siga-dev/proyectos-api/internal/models"
	appErrors "github.com/siga-dev/proyectos-api/pkg/errors"
)

type fakeStatusReader struct {
	statuses  []models.Status
	findCalls int
	listCalls int
}

func (f *fakeStatusReader) FindByName(_ context.Context, name string) (*models.Status, error) {
	f.findCalls++
	for _, s := range f.statuses {
		if s.Name == name {
			out := s
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStatusReader) List(_ context.Context) ([]models.Status, error) {
	f.listCalls++
	return f.statuses, nil
}

func TestStatusCatalogRefreshThenResolve(t *testing.T) {
	reader := &fakeStatusReader{statuses: []models.Status{
		{ID: "1", Name: models.StatusLibre},
		{ID: "2", Name: models.StatusRevision},
	}}
	catalog := NewStatusCatalog(reader, nil)

	require.NoError(t, catalog.Refresh(context.Background()))

	status, err := catalog.Resolve(context.Background(), models.StatusLibre)
	require.NoError(t, err)
	assert.Equal(t, "1", status.ID)
	assert.Zero(t, reader.findCalls, "cached statuses never hit the store")
}

func TestStatusCatalogFallsThroughOnMiss(t *testing.T) {
	reader := &fakeStatusReader{statuses: []models.Status{{ID: "3", Name: models.StatusAprobado}}}
	catalog := NewStatusCatalog(reader, nil)

	status, err := catalog.Resolve(context.Background(), models.StatusAprobado)
	require.NoError(t, err)
	assert.Equal(t, "3", status.ID)
	assert.Equal(t, 1, reader.findCalls)

	_, err = catalog.Resolve(context.Background(), models.StatusAprobado)
	require.NoError(t, err)
	assert.Equal(t, 1, reader.findCalls, "second resolve served from cache")
}

func TestStatusCatalogUnknownName(t *testing.T) {
	catalog := NewStatusCatalog(&fakeStatusReader{}, nil)

	_, err := catalog.Resolve(context.Background(), "INEXISTENTE")

	var typed *appErrors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, appErrors.ErrNotFound.Code, typed.Code)
}

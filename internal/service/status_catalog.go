package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/siga-dev/proyectos-api/internal/models"
	appErrors "github.com/siga-dev/proyectos-api/pkg/errors"
)

type statusReader interface {
	FindByName(ctx context.Context, name string) (*models.Status, error)
	List(ctx context.Context) ([]models.Status, error)
}

// StatusCatalog resolves lifecycle statuses by exact name. The catalog is
// reference data that rarely changes, so it is cached in memory and refreshed
// explicitly rather than queried on every reference; an unknown name still
// falls through to the store before failing.
type StatusCatalog struct {
	repo   statusReader
	logger *zap.Logger

	mu     sync.RWMutex
	byName map[string]models.Status
}

// NewStatusCatalog constructs the catalog with an empty cache.
func NewStatusCatalog(repo statusReader, logger *zap.Logger) *StatusCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusCatalog{
		repo:   repo,
		logger: logger,
		byName: make(map[string]models.Status),
	}
}

// Refresh reloads the whole catalog from the store.
func (c *StatusCatalog) Refresh(ctx context.Context) error {
	statuses, err := c.repo.List(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load status catalog")
	}
	next := make(map[string]models.Status, len(statuses))
	for _, s := range statuses {
		next[s.Name] = s
	}
	c.mu.Lock()
	c.byName = next
	c.mu.Unlock()
	c.logger.Debug("status catalog refreshed", zap.Int("count", len(next)))
	return nil
}

// Resolve returns the status with the given exact name. A missing status is
// a NotFound error so the calling operation aborts with no partial effect.
func (c *StatusCatalog) Resolve(ctx context.Context, name string) (*models.Status, error) {
	c.mu.RLock()
	cached, ok := c.byName[name]
	c.mu.RUnlock()
	if ok {
		return &cached, nil
	}

	status, err := c.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("status %q not found", name))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve status")
	}

	c.mu.Lock()
	c.byName[status.Name] = *status
	c.mu.Unlock()
	return status, nil
}

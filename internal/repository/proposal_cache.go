package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/siga-dev/proyectos-api/internal/models"
	appErrors "github.com/siga-dev/proyectos-api/pkg/errors"
)

const proposalCacheKey = "proposals:free"

// ProposalCache keeps the proposal-bank listing in Redis. The bank changes
// only on adopt/release/reject transitions, which invalidate the key.
type ProposalCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewProposalCache constructs the cache. A nil client disables caching.
func NewProposalCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProposalCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProposalCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached bank listing.
func (c *ProposalCache) Get(ctx context.Context) ([]models.FreeProposal, error) {
	if c.client == nil {
		return nil, appErrors.ErrCacheMiss
	}
	raw, err := c.client.Get(ctx, proposalCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", proposalCacheKey, err)
	}
	var proposals []models.FreeProposal
	if err := json.Unmarshal(raw, &proposals); err != nil {
		return nil, fmt.Errorf("unmarshal cached proposals: %w", err)
	}
	return proposals, nil
}

// Set stores the bank listing with the configured TTL.
func (c *ProposalCache) Set(ctx context.Context, proposals []models.FreeProposal) error {
	if c.client == nil {
		return nil
	}
	payload, err := json.Marshal(proposals)
	if err != nil {
		return fmt.Errorf("marshal proposals: %w", err)
	}
	if err := c.client.Set(ctx, proposalCacheKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", proposalCacheKey, err)
	}
	return nil
}

// Invalidate drops the cached listing. Failures are logged only: a stale
// entry expires on its own TTL.
func (c *ProposalCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, proposalCacheKey).Err(); err != nil {
		c.logger.Warn("failed to invalidate proposal cache", zap.Error(err))
	}
}

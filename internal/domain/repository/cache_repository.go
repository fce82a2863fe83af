package repository

import (
	"context"
	"time"

	"github.com/landuse-microservice/internal/domain"
)

// CacheRepository defines the Redis-backed cache operations.
type CacheRepository interface {
	// Get returns the raw value for key, or nil on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL (0 = no expiry).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// GetEnrichment returns a cached enrichment response, or nil on a miss.
	GetEnrichment(ctx context.Context, key string) (*domain.EnrichmentResponse, error)

	// SetEnrichment caches an enrichment response with TTL.
	SetEnrichment(ctx context.Context, key string, resp *domain.EnrichmentResponse, ttl time.Duration) error
}

package repository

import (
	"context"

	"github.com/landuse-microservice/internal/domain"
)

// EnrichmentRepository persists fused enrichment responses.
type EnrichmentRepository interface {
	// Upsert merges the response into durable storage keyed by its
	// rounded coordinate. Last write wins.
	Upsert(ctx context.Context, resp *domain.EnrichmentResponse) error
}

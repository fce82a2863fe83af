package repository

import (
	"context"

	"github.com/landuse-microservice/internal/domain"
)

// ZoningRulesRepository stores the permanent derived-artifact cache rows.
type ZoningRulesRepository interface {
	// GetByMunicipality returns the cached rules row, or nil when absent.
	GetByMunicipality(ctx context.Context, municipalityID string) (*domain.ZoningRules, error)

	// Upsert writes the row, replacing any previous artifact.
	Upsert(ctx context.Context, rules *domain.ZoningRules) error

	// Delete removes the row. Used by explicit invalidation.
	Delete(ctx context.Context, municipalityID string) error
}

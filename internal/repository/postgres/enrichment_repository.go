package postgres

import (
	"context"
	"encoding/json"
	"math"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/domain/repository"
	"github.com/landuse-microservice/internal/pkg/errors"
)

// coordPrecision rounds coordinates to ~1m so nearby requests share a
// persisted row.
const coordPrecision = 1e5

type enrichmentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewEnrichmentRepository creates the plot-enrichment store.
func NewEnrichmentRepository(db *DB) repository.EnrichmentRepository {
	return &enrichmentRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// Upsert stores the fused response keyed by its rounded coordinate.
// Last write wins.
func (r *enrichmentRepository) Upsert(ctx context.Context, resp *domain.EnrichmentResponse) error {
	query := `
		INSERT INTO plot_enrichments (id, lat, lng, country, response, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (lat, lng) DO UPDATE SET
			country = EXCLUDED.country,
			response = EXCLUDED.response,
			updated_at = NOW()
	`

	payload, err := json.Marshal(resp)
	if err != nil {
		r.logger.Error("Failed to marshal enrichment response", zap.Error(err))
		return errors.ErrInternalServer
	}

	lat := roundCoord(resp.Coordinate.Lat)
	lng := roundCoord(resp.Coordinate.Lng)

	if _, err := r.db.ExecContext(ctx, query, uuid.New(), lat, lng, resp.Country, payload); err != nil {
		r.logger.Error("Failed to upsert enrichment",
			zap.Float64("lat", lat),
			zap.Float64("lng", lng),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

func roundCoord(v float64) float64 {
	return math.Round(v*coordPrecision) / coordPrecision
}

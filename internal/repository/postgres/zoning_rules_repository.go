package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/domain/repository"
	"github.com/landuse-microservice/internal/pkg/errors"
)

type zoningRulesRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewZoningRulesRepository creates the permanent derived-artifact store.
func NewZoningRulesRepository(db *DB) repository.ZoningRulesRepository {
	return &zoningRulesRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// GetByMunicipality returns the cached rules row, or nil when absent.
// Rows have no TTL; absence is the only miss condition.
func (r *zoningRulesRepository) GetByMunicipality(ctx context.Context, municipalityID string) (*domain.ZoningRules, error) {
	query := `
		SELECT municipality_id, rules, document_hash, cached_at
		FROM zoning_rules
		WHERE municipality_id = $1
	`

	var rules domain.ZoningRules
	err := r.db.GetContext(ctx, &rules, query, municipalityID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get zoning rules",
			zap.String("municipality_id", municipalityID),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &rules, nil
}

// Upsert writes the row, replacing any previous artifact.
func (r *zoningRulesRepository) Upsert(ctx context.Context, rules *domain.ZoningRules) error {
	query := `
		INSERT INTO zoning_rules (municipality_id, rules, document_hash, cached_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (municipality_id) DO UPDATE SET
			rules = EXCLUDED.rules,
			document_hash = EXCLUDED.document_hash,
			cached_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, rules.MunicipalityID, rules.Rules, rules.DocumentHash); err != nil {
		r.logger.Error("Failed to upsert zoning rules",
			zap.String("municipality_id", rules.MunicipalityID),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

// Delete removes the row. Used by explicit invalidation.
func (r *zoningRulesRepository) Delete(ctx context.Context, municipalityID string) error {
	query := `DELETE FROM zoning_rules WHERE municipality_id = $1`

	if _, err := r.db.ExecContext(ctx, query, municipalityID); err != nil {
		r.logger.Error("Failed to delete zoning rules",
			zap.String("municipality_id", municipalityID),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/domain/repository"
	"github.com/landuse-microservice/internal/pkg/errors"
)

type municipalityRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewMunicipalityRepository creates the municipality store backing the
// batch sweep.
func NewMunicipalityRepository(db *DB) repository.MunicipalityRepository {
	return &municipalityRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// ListWithoutWebsite returns up to limit municipalities still lacking a
// resolved official website, restricted to supported countries.
func (r *municipalityRepository) ListWithoutWebsite(ctx context.Context, limit int) ([]*domain.Municipality, error) {
	query := `
		SELECT id, name, country, COALESCE(website, '') AS website,
		       COALESCE(pdm_document_url, '') AS pdm_document_url, updated_at
		FROM municipalities
		WHERE (website IS NULL OR website = '')
		  AND country = ANY($1)
		ORDER BY name
		LIMIT $2
	`

	municipalities := make([]*domain.Municipality, 0, limit)
	err := r.db.SelectContext(ctx, &municipalities, query, pq.Array(domain.SupportedCountries), limit)
	if err != nil {
		r.logger.Error("Failed to list municipalities without website", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return municipalities, nil
}

// GetByID returns one municipality, or nil when absent.
func (r *municipalityRepository) GetByID(ctx context.Context, id string) (*domain.Municipality, error) {
	query := `
		SELECT id, name, country, COALESCE(website, '') AS website,
		       COALESCE(pdm_document_url, '') AS pdm_document_url, updated_at
		FROM municipalities
		WHERE id = $1
	`

	var m domain.Municipality
	err := r.db.GetContext(ctx, &m, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get municipality", zap.String("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &m, nil
}

// UpdateWebsite stores the resolved website, and the country when the
// sweep resolved it alongside.
func (r *municipalityRepository) UpdateWebsite(ctx context.Context, id, website, country string) error {
	query := `
		UPDATE municipalities
		SET website = $2,
		    country = COALESCE(NULLIF($3, ''), country),
		    updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, website, country)
	if err != nil {
		r.logger.Error("Failed to update municipality website",
			zap.String("id", id),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.ErrMunicipalityNotFound
	}

	return nil
}

package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain/repository"
	"github.com/landuse-microservice/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewEnrichmentRepositoryForTest creates an enrichment repository with test database and logger
func NewEnrichmentRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.EnrichmentRepository {
	pgDB := NewDBForTest(db, logger)
	return postgres.NewEnrichmentRepository(pgDB)
}

// NewZoningRulesRepositoryForTest creates a zoning rules repository with test database and logger
func NewZoningRulesRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ZoningRulesRepository {
	pgDB := NewDBForTest(db, logger)
	return postgres.NewZoningRulesRepository(pgDB)
}

// NewMunicipalityRepositoryForTest creates a municipality repository with test database and logger
func NewMunicipalityRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.MunicipalityRepository {
	pgDB := NewDBForTest(db, logger)
	return postgres.NewMunicipalityRepository(pgDB)
}

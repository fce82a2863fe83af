package repository

import (
	"context"

	"github.com/landuse-microservice/internal/domain"
)

// MunicipalityRepository provides the batch sweep's work items.
type MunicipalityRepository interface {
	// ListWithoutWebsite returns up to limit municipalities whose official
	// website is still unresolved.
	ListWithoutWebsite(ctx context.Context, limit int) ([]*domain.Municipality, error)

	// GetByID returns one municipality, or nil when absent.
	GetByID(ctx context.Context, id string) (*domain.Municipality, error)

	// UpdateWebsite stores the resolved website (and country, when it was
	// resolved alongside) for one municipality.
	UpdateWebsite(ctx context.Context, id, website, country string) error
}

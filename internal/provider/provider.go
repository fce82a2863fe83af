package provider

import (
	"context"
	"time"

	"github.com/landuse-microservice/internal/domain"
)

// Layer identifiers exposed in enrichment responses.
const (
	LayerAdmin      = "admin"
	LayerCadastrePT = "cadastre_pt"
	LayerCadastreES = "cadastre_es"
	LayerZoning     = "crus_zoning"
	LayerElevation  = "elevation"
	LayerLandCover  = "landcover"
	LayerAmenities  = "amenities"
)

// QueryInput carries the resolved geometry a provider works from. BBox
// is nil for point-only requests.
type QueryInput struct {
	Point domain.Coordinate
	BBox  *domain.BoundingBox
}

// LayerProvider answers a single thematic layer for a location. Query
// never returns an error: upstream failures and timeouts are absorbed
// into the result so one slow layer cannot sink the whole enrichment.
type LayerProvider interface {
	ID() string
	Name() string
	Query(ctx context.Context, in QueryInput) domain.LayerResult
}

func notFound(id, name string) domain.LayerResult {
	return domain.LayerResult{LayerID: id, LayerName: name, Found: false}
}

func found(id, name string, data map[string]any) domain.LayerResult {
	return domain.LayerResult{LayerID: id, LayerName: name, Found: true, Data: data}
}

func failed(id, name string, err error) domain.LayerResult {
	return domain.LayerResult{LayerID: id, LayerName: name, Found: false, Error: err.Error()}
}

// queryContext bounds a single provider query so a stuck upstream is
// reported as a failed layer instead of stalling the fan-out.
func queryContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// extractLabel walks keys in order and returns the first non-empty
// string property together with the key that supplied it.
func extractLabel(props map[string]any, keys []string) (value, pickedField string) {
	for _, k := range keys {
		if raw, ok := props[k]; ok {
			if s, ok := raw.(string); ok && s != "" {
				return s, k
			}
		}
	}
	return "", ""
}

package provider

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/geo"
	"github.com/landuse-microservice/internal/infrastructure/overpass"
)

// amenityCategories are the OSM amenity values reported on every
// enrichment, nearest instance of each.
var amenityCategories = []string{
	"school", "hospital", "pharmacy", "supermarket", "restaurant", "fuel",
}

const amenitySearchRadiusM = 2000

// amenitiesProvider reports the nearest instance of each amenity
// category around a point, via Overpass.
type amenitiesProvider struct {
	overpass *overpass.Client
	timeout  time.Duration
	logger   *zap.Logger
}

// NewAmenities creates the nearby-amenities provider.
func NewAmenities(client *overpass.Client, timeout time.Duration, logger *zap.Logger) LayerProvider {
	return &amenitiesProvider{overpass: client, timeout: timeout, logger: logger}
}

func (p *amenitiesProvider) ID() string   { return LayerAmenities }
func (p *amenitiesProvider) Name() string { return "Nearby Amenities" }

func (p *amenitiesProvider) Query(ctx context.Context, in QueryInput) domain.LayerResult {
	ctx, cancel := queryContext(ctx, p.timeout)
	defer cancel()

	elements, err := p.overpass.AmenitiesAround(ctx, in.Point.Lat, in.Point.Lng, amenitySearchRadiusM, amenityCategories)
	if err != nil {
		p.logger.Warn("amenities query failed", zap.Error(err))
		return failed(p.ID(), p.Name(), err)
	}
	if len(elements) == 0 {
		return notFound(p.ID(), p.Name())
	}

	nearest := nearestByCategory(elements, in.Point)
	if len(nearest) == 0 {
		return notFound(p.ID(), p.Name())
	}

	return found(p.ID(), p.Name(), map[string]any{
		"search_radius_m": amenitySearchRadiusM,
		"nearest":         nearest,
	})
}

// nearestByCategory keeps, per amenity value, the element closest to
// the point.
func nearestByCategory(elements []overpass.Element, point domain.Coordinate) map[string]any {
	type candidate struct {
		name     string
		distance float64
	}
	best := make(map[string]candidate)

	for i := range elements {
		e := &elements[i]
		category := e.Tags["amenity"]
		if category == "" {
			continue
		}
		lat, lon := e.Coordinate()
		if lat == 0 && lon == 0 {
			continue
		}
		d := geo.Haversine(point.Lat, point.Lng, lat, lon)
		if cur, ok := best[category]; !ok || d < cur.distance {
			best[category] = candidate{name: e.Tags["name"], distance: d}
		}
	}

	out := make(map[string]any, len(best))
	for category, c := range best {
		out[category] = map[string]any{
			"name":       c.name,
			"distance_m": math.Round(c.distance),
		}
	}
	return out
}

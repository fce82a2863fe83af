package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/geo"
	"github.com/landuse-microservice/internal/infrastructure/ogc"
)

// zoningLabelKeys are tried in order when reading the land-use class
// out of a zoning feature. CRUS layers per municipality do not share a
// property schema.
var zoningLabelKeys = []string{
	"uso_solo", "USO_SOLO", "classe", "CLASSE",
	"designacao", "DESIGNACAO", "legenda", "LEGENDA", "label",
}

// zoningLookupRadiusM is the bbox half-width for zoning item queries.
const zoningLookupRadiusM = 100

// zoningProvider reads the municipal land-use classification (CRUS)
// covering a point. The covering collection is found through the
// resolver, so the first query for a municipality pays the catalog and
// boundary lookups and later queries hit the memo.
type zoningProvider struct {
	ogc      *ogc.Client
	resolver *CollectionResolver
	timeout  time.Duration
	logger   *zap.Logger
}

// NewZoning creates the CRUS zoning provider.
func NewZoning(client *ogc.Client, resolver *CollectionResolver, timeout time.Duration, logger *zap.Logger) LayerProvider {
	return &zoningProvider{ogc: client, resolver: resolver, timeout: timeout, logger: logger}
}

func (p *zoningProvider) ID() string   { return LayerZoning }
func (p *zoningProvider) Name() string { return "Land Use Classification (CRUS)" }

func (p *zoningProvider) Query(ctx context.Context, in QueryInput) domain.LayerResult {
	ctx, cancel := queryContext(ctx, p.timeout)
	defer cancel()

	collection, municipality, err := p.resolver.CollectionFor(ctx, in.Point)
	if err != nil {
		p.logger.Warn("zoning collection resolution failed", zap.Error(err))
		return failed(p.ID(), p.Name(), err)
	}
	if collection == "" {
		return notFound(p.ID(), p.Name())
	}

	bbox := geo.BBoxAroundPoint(in.Point.Lng, in.Point.Lat, zoningLookupRadiusM)
	features, err := p.ogc.Items(ctx, collection, bbox, 20)
	if err != nil {
		return failed(p.ID(), p.Name(), err)
	}
	if len(features) == 0 {
		return notFound(p.ID(), p.Name())
	}

	picked := pickFeature(features, in.Point)
	label, field := extractLabel(picked.Properties, zoningLabelKeys)
	if label == "" {
		return notFound(p.ID(), p.Name())
	}

	return found(p.ID(), p.Name(), map[string]any{
		"classification": label,
		"picked_field":   field,
		"collection":     collection,
		"municipality":   municipality,
	})
}

// pickFeature chooses the feature to classify from: a polygon that
// contains the point beats the first polygon, which beats the first
// feature of any geometry.
func pickFeature(features []ogc.Feature, point domain.Coordinate) ogc.Feature {
	var firstPolygon *ogc.Feature
	for i := range features {
		f := &features[i]
		if !f.IsPolygon() {
			continue
		}
		if firstPolygon == nil {
			firstPolygon = f
		}
		if ring := f.OuterRing(); len(ring) >= 3 && geo.RingContains(ring, point.Lng, point.Lat) {
			return *f
		}
	}
	if firstPolygon != nil {
		return *firstPolygon
	}
	return features[0]
}

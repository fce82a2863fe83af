package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/geo"
	"github.com/landuse-microservice/internal/infrastructure/ogc"
)

var landCoverLabelKeys = []string{
	"COS18n4_L", "COS2018_Leg", "classe", "CLASSE", "legenda", "label",
}

const landCoverLookupRadiusM = 50

// landCoverProvider reads the observed land cover (COS) at a point from
// the national catalog.
type landCoverProvider struct {
	ogc        *ogc.Client
	collection string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewLandCover creates the COS land-cover provider.
func NewLandCover(client *ogc.Client, collection string, timeout time.Duration, logger *zap.Logger) LayerProvider {
	if collection == "" {
		collection = "cos2018"
	}
	return &landCoverProvider{ogc: client, collection: collection, timeout: timeout, logger: logger}
}

func (p *landCoverProvider) ID() string   { return LayerLandCover }
func (p *landCoverProvider) Name() string { return "Land Cover (COS)" }

func (p *landCoverProvider) Query(ctx context.Context, in QueryInput) domain.LayerResult {
	ctx, cancel := queryContext(ctx, p.timeout)
	defer cancel()

	bbox := geo.BBoxAroundPoint(in.Point.Lng, in.Point.Lat, landCoverLookupRadiusM)
	features, err := p.ogc.Items(ctx, p.collection, bbox, 10)
	if err != nil {
		p.logger.Warn("land cover query failed", zap.Error(err))
		return failed(p.ID(), p.Name(), err)
	}
	if len(features) == 0 {
		return notFound(p.ID(), p.Name())
	}

	picked := pickFeature(features, in.Point)
	label, field := extractLabel(picked.Properties, landCoverLabelKeys)
	if label == "" {
		return notFound(p.ID(), p.Name())
	}

	return found(p.ID(), p.Name(), map[string]any{
		"class":        label,
		"picked_field": field,
		"collection":   p.collection,
	})
}

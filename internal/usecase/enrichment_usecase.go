package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/domain/repository"
	"github.com/landuse-microservice/internal/geo"
	"github.com/landuse-microservice/internal/pkg/errors"
	"github.com/landuse-microservice/internal/provider"
	"github.com/landuse-microservice/internal/usecase/dto"
)

// EnrichmentUseCase fuses all applicable layer providers into one
// dossier for a point or plot.
type EnrichmentUseCase struct {
	router         *provider.Router
	geocoder       repository.GeocoderRepository
	cacheRepo      repository.CacheRepository
	enrichmentRepo repository.EnrichmentRepository
	logger         *zap.Logger
	cacheTTL       time.Duration
}

func NewEnrichmentUseCase(
	router *provider.Router,
	geocoder repository.GeocoderRepository,
	cacheRepo repository.CacheRepository,
	enrichmentRepo repository.EnrichmentRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *EnrichmentUseCase {
	return &EnrichmentUseCase{
		router:         router,
		geocoder:       geocoder,
		cacheRepo:      cacheRepo,
		enrichmentRepo: enrichmentRepo,
		logger:         logger,
		cacheTTL:       cacheTTL,
	}
}

// ResolveQuery turns GET query parameters into an enrichment request.
func (uc *EnrichmentUseCase) ResolveQuery(q dto.LayerInfoQuery) (*domain.EnrichmentRequest, error) {
	if q.Lat < -90 || q.Lat > 90 || q.Lng < -180 || q.Lng > 180 {
		return nil, errors.ErrInvalidCoordinates
	}
	if q.AreaM2 < 0 {
		return nil, errors.ErrInvalidArea
	}
	country := strings.ToUpper(q.Country)
	if country != "" && !isSupportedCountry(country) {
		return nil, errors.ErrInvalidCountry
	}

	return &domain.EnrichmentRequest{
		Coordinate: domain.Coordinate{Lat: q.Lat, Lng: q.Lng},
		Country:    country,
		AreaM2:     q.AreaM2,
	}, nil
}

// ResolveBody turns a POST body into an enrichment request. A polygon
// takes precedence over a bare point: the coordinate becomes the ring
// centroid and missing area is computed from the ring.
func (uc *EnrichmentUseCase) ResolveBody(req dto.LayerInfoRequest) (*domain.EnrichmentRequest, error) {
	if req.AreaM2 < 0 {
		return nil, errors.ErrInvalidArea
	}
	country := strings.ToUpper(req.Country)
	if country != "" && !isSupportedCountry(country) {
		return nil, errors.ErrInvalidCountry
	}

	if req.Polygon != nil {
		ring := req.Polygon.OuterRing()
		if req.Polygon.Type != "Polygon" || geo.DistinctVertices(ring) < 3 {
			return nil, errors.ErrInvalidPolygon
		}

		centroid := geo.Centroid(ring)
		area := req.AreaM2
		if area == 0 {
			area = geo.AreaM2(ring, centroid.Lat)
		}

		return &domain.EnrichmentRequest{
			Coordinate: centroid,
			Ring:       ring,
			Polygon:    req.Polygon,
			Country:    country,
			AreaM2:     area,
			Persist:    req.Persist,
		}, nil
	}

	if req.Lat == nil || req.Lng == nil {
		return nil, errors.ErrInvalidRequest
	}
	lat, lng := *req.Lat, *req.Lng
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, errors.ErrInvalidCoordinates
	}

	return &domain.EnrichmentRequest{
		Coordinate: domain.Coordinate{Lat: lat, Lng: lng},
		Country:    country,
		AreaM2:     req.AreaM2,
		Persist:    req.Persist,
	}, nil
}

// Enrich runs the fan-out: resolve country, pick providers, query them
// all in parallel and fuse the results. Provider failures degrade to
// per-layer errors, never to a failed response.
func (uc *EnrichmentUseCase) Enrich(ctx context.Context, req *domain.EnrichmentRequest) (*domain.EnrichmentResponse, error) {
	cacheKey := uc.cacheKey(req)
	if cached, err := uc.cacheRepo.GetEnrichment(ctx, cacheKey); err == nil && cached != nil {
		uc.logger.Debug("Enrichment cache hit", zap.String("key", cacheKey))
		return cached, nil
	}

	country := uc.resolveCountry(ctx, req)
	bbox := queryBBox(req)

	providers := uc.router.For(country)
	results := uc.queryAll(ctx, providers, req, bbox)

	resp := &domain.EnrichmentResponse{
		Coordinate:  req.Coordinate,
		Country:     country,
		Timestamp:   time.Now().UTC(),
		Layers:      results,
		Summary:     uc.summarize(results, country),
		BoundingBox: bbox,
	}

	if len(req.Ring) > 0 {
		resp.Polygon = req.Polygon
	}
	if req.AreaM2 > 0 {
		area := req.AreaM2
		resp.AreaM2 = &area
	}

	if err := uc.cacheRepo.SetEnrichment(ctx, cacheKey, resp, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache enrichment", zap.Error(err))
	}

	if req.Persist && uc.enrichmentRepo != nil {
		if err := uc.enrichmentRepo.Upsert(ctx, resp); err != nil {
			uc.logger.Error("Failed to persist enrichment", zap.Error(err))
		}
	}

	return resp, nil
}

// resolveCountry uses the caller's country when given; otherwise it
// reverse geocodes the point. Geocoding failure degrades the request to
// the global provider set instead of failing it.
func (uc *EnrichmentUseCase) resolveCountry(ctx context.Context, req *domain.EnrichmentRequest) string {
	if req.Country != "" {
		return req.Country
	}

	country, err := uc.geocoder.CountryAt(ctx, req.Coordinate.Lat, req.Coordinate.Lng)
	if err != nil {
		uc.logger.Warn("Reverse geocoding failed, degrading to global providers",
			zap.Float64("lat", req.Coordinate.Lat),
			zap.Float64("lng", req.Coordinate.Lng),
			zap.Error(err))
		return ""
	}
	return country
}

// queryAll fans out to every provider in parallel and collects results
// in provider order.
func (uc *EnrichmentUseCase) queryAll(ctx context.Context, providers []provider.LayerProvider, req *domain.EnrichmentRequest, bbox *domain.BoundingBox) []domain.LayerResult {
	in := provider.QueryInput{Point: req.Coordinate, BBox: bbox}

	results := make([]domain.LayerResult, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p provider.LayerProvider) {
			defer wg.Done()
			results[i] = p.Query(ctx, in)
		}(i, p)
	}
	wg.Wait()

	return results
}

func (uc *EnrichmentUseCase) summarize(results []domain.LayerResult, country string) domain.EnrichmentSummary {
	summary := domain.EnrichmentSummary{
		Run:     make([]string, 0, len(results)),
		Skipped: uc.router.SkippedFor(country),
		Failed:  make([]string, 0),
	}
	for _, r := range results {
		summary.Run = append(summary.Run, r.LayerID)
		if r.Error != "" {
			summary.Failed = append(summary.Failed, r.LayerID)
		}
	}
	return summary
}

// queryBBox derives the area of interest: a polygon uses its vertex
// extrema, a bare point with an explicit area gets a square of that
// area centered on the point. A plain point has no box.
func queryBBox(req *domain.EnrichmentRequest) *domain.BoundingBox {
	if len(req.Ring) > 0 {
		bbox := geo.BBoxOfRing(req.Ring)
		return &bbox
	}
	if req.AreaM2 > 0 {
		bbox := geo.BBoxAroundPoint(req.Coordinate.Lng, req.Coordinate.Lat, math.Sqrt(req.AreaM2)/2)
		return &bbox
	}
	return nil
}

func (uc *EnrichmentUseCase) cacheKey(req *domain.EnrichmentRequest) string {
	key := fmt.Sprintf("enrich:%.5f:%.5f:%s:%.0f",
		req.Coordinate.Lat, req.Coordinate.Lng, req.Country, req.AreaM2)
	if len(req.Ring) == 0 {
		return key
	}

	// Distinct rings sharing a centroid must not share a cache entry.
	h := sha256.New()
	for _, v := range req.Ring {
		fmt.Fprintf(h, "%.6f,%.6f;", v.Lng, v.Lat)
	}
	return key + ":" + hex.EncodeToString(h.Sum(nil))[:12]
}

func isSupportedCountry(country string) bool {
	for _, c := range domain.SupportedCountries {
		if c == country {
			return true
		}
	}
	return false
}

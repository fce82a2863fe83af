package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/domain/repository"
	"github.com/landuse-microservice/internal/geo"
	"github.com/landuse-microservice/internal/infrastructure/ogc"
)

const (
	catalogCacheKey = "ogc:collections"
	catalogCacheTTL = 24 * time.Hour

	// adminLookupRadiusM is the half-width of the bbox used to find the
	// administrative unit containing a point.
	adminLookupRadiusM = 200
)

// municipalityNameKeys are tried in order when pulling the municipality
// name out of an administrative-boundary feature. Upstream datasets are
// not consistent about property naming.
var municipalityNameKeys = []string{
	"Concelho", "concelho", "Municipio", "municipio",
	"NOME", "nome", "Designacao", "designacao", "name",
}

// nationalFallbackCollections are tried when no per-municipality zoning
// collection matches.
var nationalFallbackCollections = []string{"crus_continente", "crus_nacional"}

// CollectionResolver maps a point to the per-municipality zoning
// collection that covers it. Results, including negative ones, are
// memoized for the process lifetime: municipality boundaries and the
// collection catalog do not change mid-run.
type CollectionResolver struct {
	ogc             *ogc.Client
	cache           repository.CacheRepository
	logger          *zap.Logger
	adminCollection string

	group   singleflight.Group
	mu      sync.RWMutex
	byName  map[string]string
	catalog []ogc.Collection
}

// NewCollectionResolver builds a resolver over the OGC catalog. cache
// may be nil; it only mirrors the catalog to survive restarts.
func NewCollectionResolver(client *ogc.Client, cache repository.CacheRepository, adminCollection string, logger *zap.Logger) *CollectionResolver {
	if adminCollection == "" {
		adminCollection = "concelhos"
	}
	return &CollectionResolver{
		ogc:             client,
		cache:           cache,
		logger:          logger,
		adminCollection: adminCollection,
		byName:          make(map[string]string),
	}
}

// CollectionFor resolves the zoning collection covering point. The
// returned municipality is the raw upstream name. An empty collection
// with nil error means no zoning data exists for that municipality.
func (r *CollectionResolver) CollectionFor(ctx context.Context, point domain.Coordinate) (collection, municipality string, err error) {
	municipality, err = r.MunicipalityAt(ctx, point)
	if err != nil {
		return "", "", err
	}
	collection, err = r.Resolve(ctx, municipality)
	return collection, municipality, err
}

// MunicipalityAt finds the administrative unit containing point by
// querying the boundary collection with a small bbox. When several
// features come back, the one whose polygon actually contains the
// point wins; otherwise the first feature is used.
func (r *CollectionResolver) MunicipalityAt(ctx context.Context, point domain.Coordinate) (string, error) {
	bbox := geo.BBoxAroundPoint(point.Lng, point.Lat, adminLookupRadiusM)
	features, err := r.ogc.Items(ctx, r.adminCollection, bbox, 10)
	if err != nil {
		return "", fmt.Errorf("admin unit lookup: %w", err)
	}
	if len(features) == 0 {
		return "", fmt.Errorf("no administrative unit at %.5f,%.5f", point.Lat, point.Lng)
	}

	picked := features[0]
	for _, f := range features {
		ring := f.OuterRing()
		if len(ring) >= 3 && geo.RingContains(ring, point.Lng, point.Lat) {
			picked = f
			break
		}
	}

	name, _ := extractLabel(picked.Properties, municipalityNameKeys)
	if name == "" {
		return "", fmt.Errorf("administrative feature has no recognizable name property")
	}
	return name, nil
}

// Resolve maps a municipality name onto its zoning collection id. An
// empty id with nil error is a memoized negative: the municipality has
// no dedicated collection and no fallback applied.
func (r *CollectionResolver) Resolve(ctx context.Context, municipality string) (string, error) {
	key := NormalizeName(municipality)
	if key == "" {
		return "", fmt.Errorf("empty municipality name")
	}

	r.mu.RLock()
	id, hit := r.byName[key]
	r.mu.RUnlock()
	if hit {
		return id, nil
	}

	catalog, err := r.loadCatalog(ctx)
	if err != nil {
		return "", err
	}

	id = matchCollection(catalog, key)
	r.mu.Lock()
	r.byName[key] = id
	r.mu.Unlock()

	if id == "" {
		r.logger.Warn("no zoning collection for municipality", zap.String("municipality", municipality))
	}
	return id, nil
}

// Invalidate drops the memoized mapping and catalog so the next lookup
// refetches. Exposed for the cache invalidation endpoint.
func (r *CollectionResolver) Invalidate(ctx context.Context) {
	r.mu.Lock()
	r.byName = make(map[string]string)
	r.catalog = nil
	r.mu.Unlock()
	if r.cache != nil {
		if err := r.cache.Delete(ctx, catalogCacheKey); err != nil {
			r.logger.Warn("failed to drop catalog mirror", zap.Error(err))
		}
	}
}

// loadCatalog returns the collection catalog, fetching it at most once
// per process. Concurrent first lookups are coalesced.
func (r *CollectionResolver) loadCatalog(ctx context.Context) ([]ogc.Collection, error) {
	r.mu.RLock()
	catalog := r.catalog
	r.mu.RUnlock()
	if catalog != nil {
		return catalog, nil
	}

	v, err, _ := r.group.Do("catalog", func() (any, error) {
		if cached := r.mirroredCatalog(ctx); cached != nil {
			return cached, nil
		}
		fetched, err := r.ogc.Collections(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch collection catalog: %w", err)
		}
		r.mirrorCatalog(ctx, fetched)
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}

	catalog = v.([]ogc.Collection)
	r.mu.Lock()
	r.catalog = catalog
	r.mu.Unlock()
	return catalog, nil
}

func (r *CollectionResolver) mirroredCatalog(ctx context.Context) []ogc.Collection {
	if r.cache == nil {
		return nil
	}
	raw, err := r.cache.Get(ctx, catalogCacheKey)
	if err != nil || raw == nil {
		return nil
	}
	var catalog []ogc.Collection
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil
	}
	return catalog
}

func (r *CollectionResolver) mirrorCatalog(ctx context.Context, catalog []ogc.Collection) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(catalog)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, catalogCacheKey, raw, catalogCacheTTL); err != nil {
		r.logger.Warn("failed to mirror catalog", zap.Error(err))
	}
}

// matchCollection searches the catalog for the zoning collection of a
// normalized municipality key: exact crus_<name> first, then substring
// among crus_ entries, then the national fallbacks, then any crus_
// entry at all.
func matchCollection(catalog []ogc.Collection, key string) string {
	exact := "crus_" + key
	for _, c := range catalog {
		if c.ID == exact {
			return c.ID
		}
	}

	var anyCRUS string
	for _, c := range catalog {
		if !strings.HasPrefix(c.ID, "crus_") {
			continue
		}
		if anyCRUS == "" {
			anyCRUS = c.ID
		}
		suffix := strings.TrimPrefix(c.ID, "crus_")
		if strings.Contains(suffix, key) || strings.Contains(key, suffix) {
			return c.ID
		}
	}

	for _, fallback := range nationalFallbackCollections {
		for _, c := range catalog {
			if c.ID == fallback {
				return c.ID
			}
		}
	}
	return anyCRUS
}

// NormalizeName reduces a municipality name to a catalog lookup key:
// diacritics stripped, lowercased, runs of non-alphanumerics collapsed
// to single underscores.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

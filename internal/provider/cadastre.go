package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/geo"
	"github.com/landuse-microservice/internal/infrastructure/ogc"
)

// cadastreLookupRadiusM is the bbox half-width for parcel queries. A
// parcel is small; a tight box avoids pulling neighbours.
const cadastreLookupRadiusM = 30

// cadastreProvider queries an INSPIRE cadastral-parcel WFS endpoint for
// the parcel containing a point. The PT and ES registries share the
// INSPIRE schema but differ in endpoint, type name and property naming,
// so both layers are instances of this provider.
type cadastreProvider struct {
	httpClient *http.Client
	baseURL    string
	typeName   string
	id         string
	name       string
	refKeys    []string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewCadastrePT creates the Portuguese cadastral-parcel provider.
func NewCadastrePT(baseURL string, timeout time.Duration, logger *zap.Logger) LayerProvider {
	return &cadastreProvider{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		typeName:   "cp:CadastralParcel",
		id:         LayerCadastrePT,
		name:       "Cadastral Parcel (PT)",
		refKeys:    []string{"nationalCadastralReference", "cadastralReference", "NIP", "label"},
		timeout:    timeout,
		logger:     logger,
	}
}

// NewCadastreES creates the Spanish cadastral-parcel provider.
func NewCadastreES(baseURL string, timeout time.Duration, logger *zap.Logger) LayerProvider {
	return &cadastreProvider{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		typeName:   "CP:CadastralParcel",
		id:         LayerCadastreES,
		name:       "Cadastral Parcel (ES)",
		refKeys:    []string{"nationalCadastralReference", "localId", "reference", "label"},
		timeout:    timeout,
		logger:     logger,
	}
}

func (p *cadastreProvider) ID() string   { return p.id }
func (p *cadastreProvider) Name() string { return p.name }

func (p *cadastreProvider) Query(ctx context.Context, in QueryInput) domain.LayerResult {
	ctx, cancel := queryContext(ctx, p.timeout)
	defer cancel()

	bbox := geo.BBoxAroundPoint(in.Point.Lng, in.Point.Lat, cadastreLookupRadiusM)
	features, err := p.getFeatures(ctx, bbox)
	if err != nil {
		p.logger.Warn("cadastre query failed", zap.String("layer", p.id), zap.Error(err))
		return failed(p.ID(), p.Name(), err)
	}
	if len(features) == 0 {
		return notFound(p.ID(), p.Name())
	}

	picked := pickFeature(features, in.Point)
	ref, field := extractLabel(picked.Properties, p.refKeys)
	if ref == "" {
		return notFound(p.ID(), p.Name())
	}

	data := map[string]any{
		"parcel_reference": ref,
		"picked_field":     field,
	}
	if area, ok := picked.Properties["areaValue"].(float64); ok {
		data["area_m2"] = area
	}
	return found(p.ID(), p.Name(), data)
}

func (p *cadastreProvider) getFeatures(ctx context.Context, bbox domain.BoundingBox) ([]ogc.Feature, error) {
	q := url.Values{
		"service":      {"WFS"},
		"version":      {"2.0.0"},
		"request":      {"GetFeature"},
		"typeNames":    {p.typeName},
		"outputFormat": {"application/json"},
		"count":        {"10"},
		"srsName":      {"EPSG:4326"},
		"bbox": {fmt.Sprintf("%f,%f,%f,%f,EPSG:4326",
			bbox.MinLng, bbox.MinLat, bbox.MaxLng, bbox.MaxLat)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cadastre WFS error: status %d", resp.StatusCode)
	}

	var fc ogc.FeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return fc.Features, nil
}

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain"
)

// elevationProvider reads terrain elevation at a point from an
// Open-Meteo compatible endpoint.
type elevationProvider struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewElevation creates the elevation provider.
func NewElevation(baseURL string, timeout time.Duration, logger *zap.Logger) LayerProvider {
	return &elevationProvider{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		timeout:    timeout,
		logger:     logger,
	}
}

func (p *elevationProvider) ID() string   { return LayerElevation }
func (p *elevationProvider) Name() string { return "Elevation" }

type elevationResponse struct {
	Elevation []float64 `json:"elevation"`
}

func (p *elevationProvider) Query(ctx context.Context, in QueryInput) domain.LayerResult {
	ctx, cancel := queryContext(ctx, p.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/v1/elevation?latitude=%f&longitude=%f", p.baseURL, in.Point.Lat, in.Point.Lng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return failed(p.ID(), p.Name(), err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Warn("elevation query failed", zap.Error(err))
		return failed(p.ID(), p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failed(p.ID(), p.Name(), fmt.Errorf("elevation API error: status %d", resp.StatusCode))
	}

	var elev elevationResponse
	if err := json.NewDecoder(resp.Body).Decode(&elev); err != nil {
		return failed(p.ID(), p.Name(), fmt.Errorf("failed to decode response: %w", err))
	}
	if len(elev.Elevation) == 0 {
		return notFound(p.ID(), p.Name())
	}

	return found(p.ID(), p.Name(), map[string]any{
		"elevation_m": elev.Elevation[0],
	})
}

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

// adminUnitProvider resolves the administrative hierarchy (parish,
// municipality, district) at a point.
type adminUnitProvider struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewAdminUnit creates the administrative-boundaries provider.
func NewAdminUnit(baseURL string, timeout time.Duration, logger *zap.Logger) LayerProvider {
	return &adminUnitProvider{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		timeout:    timeout,
		logger:     logger,
	}
}

func (p *adminUnitProvider) ID() string   { return LayerAdmin }
func (p *adminUnitProvider) Name() string { return "Administrative Boundaries" }

type adminResponse struct {
	Freguesia string `json:"freguesia"`
	Concelho  string `json:"concelho"`
	Distrito  string `json:"distrito"`
}

func (p *adminUnitProvider) Query(ctx context.Context, in QueryInput) domain.LayerResult {
	ctx, cancel := queryContext(ctx, p.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/gps/%f,%f?json=1", p.baseURL, in.Point.Lat, in.Point.Lng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return failed(p.ID(), p.Name(), err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Warn("admin unit query failed", zap.Error(err))
		return failed(p.ID(), p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return notFound(p.ID(), p.Name())
	}
	if resp.StatusCode != http.StatusOK {
		return failed(p.ID(), p.Name(), fmt.Errorf("admin API error: status %d", resp.StatusCode))
	}

	var admin adminResponse
	if err := json.NewDecoder(resp.Body).Decode(&admin); err != nil {
		return failed(p.ID(), p.Name(), fmt.Errorf("failed to decode response: %w", err))
	}
	if admin.Concelho == "" && admin.Freguesia == "" {
		return notFound(p.ID(), p.Name())
	}

	return found(p.ID(), p.Name(), map[string]any{
		"parish":       admin.Freguesia,
		"municipality": admin.Concelho,
		"district":     admin.Distrito,
	})
}

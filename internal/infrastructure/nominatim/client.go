package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain/repository"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates a Nominatim reverse-geocoding client used to resolve
// the country of a point when the caller did not supply one.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) repository.GeocoderRepository {
	return &client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

type reverseResponse struct {
	Address struct {
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

// CountryAt returns the upper-cased ISO country code at the point.
func (c *client) CountryAt(ctx context.Context, lat, lng float64) (string, error) {
	url := fmt.Sprintf("%s/reverse?lat=%f&lon=%f&format=jsonv2&zoom=3", c.baseURL, lat, lng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "landuse-microservice")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Nominatim returned error", zap.Int("status_code", resp.StatusCode))
		return "", fmt.Errorf("nominatim error: status %d", resp.StatusCode)
	}

	var rev reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&rev); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if rev.Address.CountryCode == "" {
		return "", fmt.Errorf("no country at %f,%f", lat, lng)
	}

	return strings.ToUpper(rev.Address.CountryCode), nil
}

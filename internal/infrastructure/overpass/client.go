package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client queries the Overpass API for OSM elements around a point.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates an Overpass client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Element is one OSM node/way returned by Overpass. Ways carry their
// center coordinate instead of Lat/Lon.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center,omitempty"`
	Tags map[string]string `json:"tags"`
}

// Coordinate returns the element's point, preferring the way center.
func (e *Element) Coordinate() (lat, lon float64) {
	if e.Center != nil {
		return e.Center.Lat, e.Center.Lon
	}
	return e.Lat, e.Lon
}

type overpassResponse struct {
	Elements []Element `json:"elements"`
}

// AmenitiesAround returns elements with any of the given amenity values
// within radius meters of the point.
func (c *Client) AmenitiesAround(ctx context.Context, lat, lon, radiusM float64, amenities []string) ([]Element, error) {
	query := fmt.Sprintf(
		"[out:json][timeout:15];(nwr[amenity~\"^(%s)$\"](around:%.0f,%f,%f););out center 100;",
		strings.Join(amenities, "|"), radiusM, lat, lon,
	)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/interpreter", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Overpass returned error", zap.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("overpass error: status %d", resp.StatusCode)
	}

	var out overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("Overpass query done",
		zap.Int("elements", len(out.Elements)),
		zap.Float64("radius_m", radiusM))
	return out.Elements, nil
}

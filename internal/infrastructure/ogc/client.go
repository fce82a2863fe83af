package ogc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain"
)

// Client talks to an OGC API Features catalog (collection listing plus
// bbox-scoped item queries). It is shared by every provider that reads
// from the national geodata catalog.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewClient creates an OGC API Features client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Collection is one entry of the dataset catalog.
type Collection struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Geometry is a GeoJSON geometry with coordinates kept raw until the
// type is known. Unknown types degrade to an empty ring, never an error.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Feature is one GeoJSON feature with schema-free properties.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// IsPolygon reports whether the feature carries polygonal geometry.
func (f *Feature) IsPolygon() bool {
	return f.Geometry.Type == "Polygon" || f.Geometry.Type == "MultiPolygon"
}

// OuterRing extracts the feature's outer ring. MultiPolygons yield the
// first polygon's outer ring; non-polygon or malformed geometry yields nil.
func (f *Feature) OuterRing() []domain.Coordinate {
	switch f.Geometry.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil || len(rings) == 0 {
			return nil
		}
		return toRing(rings[0])
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &polys); err != nil || len(polys) == 0 || len(polys[0]) == 0 {
			return nil
		}
		return toRing(polys[0][0])
	default:
		return nil
	}
}

// toRing keeps lng/lat and ignores any trailing ordinates, so upstreams
// emitting 3D positions still yield a usable ring.
func toRing(positions [][]float64) []domain.Coordinate {
	ring := make([]domain.Coordinate, 0, len(positions))
	for _, pos := range positions {
		if len(pos) < 2 {
			continue
		}
		ring = append(ring, domain.Coordinate{Lng: pos[0], Lat: pos[1]})
	}
	return ring
}

type collectionsResponse struct {
	Collections []Collection `json:"collections"`
}

// FeatureCollection is a GeoJSON feature collection. Exported because
// WFS-style upstreams answer with the same shape.
type FeatureCollection struct {
	Features []Feature `json:"features"`
}

// Collections fetches the full dataset catalog.
func (c *Client) Collections(ctx context.Context) ([]Collection, error) {
	u := fmt.Sprintf("%s/collections?f=json", c.baseURL)

	var resp collectionsResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("OGC catalog fetched", zap.Int("collections", len(resp.Collections)))
	return resp.Collections, nil
}

// Items queries one collection for features intersecting bbox.
func (c *Client) Items(ctx context.Context, collection string, bbox domain.BoundingBox, limit int) ([]Feature, error) {
	u := fmt.Sprintf("%s/collections/%s/items?f=json&limit=%d&bbox=%s",
		c.baseURL,
		url.PathEscape(collection),
		limit,
		url.QueryEscape(fmt.Sprintf("%f,%f,%f,%f", bbox.MinLng, bbox.MinLat, bbox.MaxLng, bbox.MaxLat)),
	)

	var resp FeatureCollection
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("OGC items fetched",
		zap.String("collection", collection),
		zap.Int("features", len(resp.Features)))
	return resp.Features, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.Warn("OGC API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("url", url),
			zap.String("body", string(body)))
		return fmt.Errorf("ogc API error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

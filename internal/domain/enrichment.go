package domain

import "time"

// Supported country codes. Providers not registered for the request's
// country are pruned from the response entirely.
const (
	CountryPT = "PT"
	CountryES = "ES"
)

// SupportedCountries lists the country codes the router knows about.
var SupportedCountries = []string{CountryPT, CountryES}

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat" db:"lat"`
	Lng float64 `json:"lng" db:"lng"`
}

// BoundingBox is an axis-aligned rectangle in lng/lat degrees.
// Min <= Max holds on each axis.
type BoundingBox struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// GeoJSONPolygon is the wire form of a polygon. Only the outer ring
// (Coordinates[0]) is consumed; it is echoed back verbatim for rendering.
type GeoJSONPolygon struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// OuterRing converts the polygon's outer ring to coordinates.
func (p *GeoJSONPolygon) OuterRing() []Coordinate {
	if p == nil || len(p.Coordinates) == 0 {
		return nil
	}
	ring := make([]Coordinate, 0, len(p.Coordinates[0]))
	for _, pos := range p.Coordinates[0] {
		ring = append(ring, Coordinate{Lat: pos[1], Lng: pos[0]})
	}
	return ring
}

// LayerResult is the outcome of one provider for one request.
// Exactly one of (Found=true, Data set) or Found=false holds; Error is
// only meaningful alongside Found=false.
type LayerResult struct {
	LayerID   string         `json:"layer_id"`
	LayerName string         `json:"layer_name"`
	Found     bool           `json:"found"`
	Data      map[string]any `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// EnrichmentRequest is the resolved input to the orchestrator.
// If Ring is present, Coordinate and AreaM2 are derived from it.
type EnrichmentRequest struct {
	Coordinate Coordinate
	Ring       []Coordinate
	Polygon    *GeoJSONPolygon
	Country    string
	AreaM2     float64
	Persist    bool
}

// EnrichmentSummary classifies provider ids by outcome.
type EnrichmentSummary struct {
	Run     []string `json:"enrichments_run"`
	Skipped []string `json:"enrichments_skipped"`
	Failed  []string `json:"enrichments_failed"`
}

// EnrichmentResponse is the fused dossier for one point or polygon.
// Layers holds one entry per provider that was attempted for the
// resolved country; pruned providers never appear.
type EnrichmentResponse struct {
	Coordinate  Coordinate        `json:"coordinate"`
	Country     string            `json:"country"`
	Timestamp   time.Time         `json:"timestamp"`
	Layers      []LayerResult     `json:"layers"`
	BoundingBox *BoundingBox      `json:"bounding_box,omitempty"`
	AreaM2      *float64          `json:"area_m2,omitempty"`
	Polygon     *GeoJSONPolygon   `json:"polygon,omitempty"`
	Summary     EnrichmentSummary `json:"summary"`
}

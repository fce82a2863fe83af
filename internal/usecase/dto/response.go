package dto

import "time"

// ZoningRulesResponse is the GET /zoning-rules payload. Source reports
// whether the artifact came from the permanent cache or was derived on
// this request.
type ZoningRulesResponse struct {
	MunicipalityID string    `json:"municipality_id"`
	Municipality   string    `json:"municipality"`
	Rules          string    `json:"rules"`
	DocumentHash   string    `json:"document_hash"`
	CachedAt       time.Time `json:"cached_at"`
	Source         string    `json:"source"`
}

// InvalidateResponse confirms an explicit cache invalidation.
type InvalidateResponse struct {
	MunicipalityID string `json:"municipality_id"`
	Invalidated    bool   `json:"invalidated"`
}

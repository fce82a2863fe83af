package domain

import "time"

// ZoningRules is a permanently cached derived artifact: the general
// zoning rules extracted from a municipality's planning document.
// Rows never expire; they are replaced only when the source document
// changes or the caller invalidates explicitly.
type ZoningRules struct {
	MunicipalityID string    `json:"municipality_id" db:"municipality_id"`
	Rules          string    `json:"rules" db:"rules"`
	DocumentHash   string    `json:"document_hash" db:"document_hash"`
	CachedAt       time.Time `json:"cached_at" db:"cached_at"`
}

package domain

import "time"

// Municipality is a row of the offline enrichment sweep: municipalities
// whose official website (and sometimes country) still has to be resolved.
type Municipality struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Country        string    `json:"country" db:"country"`
	Website        string    `json:"website" db:"website"`
	PDMDocumentURL string    `json:"pdm_document_url" db:"pdm_document_url"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// SearchResult is one hit from the web-search collaborator.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

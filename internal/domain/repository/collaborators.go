package repository

import (
	"context"

	"github.com/landuse-microservice/internal/domain"
)

// GeocoderRepository resolves the country for a point. Its failure is
// never fatal to an enrichment: the orchestrator degrades to global
// providers only.
type GeocoderRepository interface {
	CountryAt(ctx context.Context, lat, lng float64) (string, error)
}

// RulesExtractor is the LLM collaborator that turns a municipal planning
// document into general zoning rules text.
type RulesExtractor interface {
	ExtractRules(ctx context.Context, documentText string) (string, error)
}

// SearchRepository is the web-search collaborator used by the batch sweep.
type SearchRepository interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// DocumentFetcher retrieves the text of a municipal planning document.
type DocumentFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

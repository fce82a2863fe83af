package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/config"
	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/domain/repository"
	"github.com/landuse-microservice/internal/pkg/resilience"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewClient creates the web-search collaborator used by the municipality
// sweep. It wraps a JSON search API; 429 and 5xx responses surface as
// transient errors so the worker pool can retry them.
func NewClient(cfg *config.SearchConfig, timeout time.Duration, logger *zap.Logger) repository.SearchRepository {
	return &client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	} `json:"results"`
}

// Search runs one query and returns the ranked hits.
func (c *client) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	u := fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("search API error: status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, domain.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Snippet,
		})
	}

	c.logger.Debug("Search query done",
		zap.String("query", query),
		zap.Int("results", len(results)))
	return results, nil
}

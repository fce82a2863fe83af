package document

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/landuse-microservice/internal/domain/repository"
)

// maxDocumentBytes caps how much of a planning document is read.
// Municipal PDM texts past this point add nothing to rule extraction.
const maxDocumentBytes = 512 * 1024

type fetcher struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFetcher creates a planning-document fetcher.
func NewFetcher(timeout time.Duration, logger *zap.Logger) repository.DocumentFetcher {
	return &fetcher{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchText downloads the document and returns its body as text,
// truncated to a sane size.
func (f *fetcher) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "landuse-microservice")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Warn("Document fetch returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("url", url))
		return "", fmt.Errorf("document fetch error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", fmt.Errorf("document at %s is empty", url)
	}
	return text, nil
}

package municipality

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/landuse-microservice/internal/config"
	"github.com/landuse-microservice/internal/domain"
	"github.com/landuse-microservice/internal/domain/repository"
	"github.com/landuse-microservice/internal/pkg/resilience"
	"github.com/landuse-microservice/internal/worker"
)

// SweepWorker periodically resolves official websites for municipalities
// that still lack one: list up to Limit items, split them into contiguous
// slices across Concurrency goroutines, and resolve each item through
// web search with retries. A shared rate limiter spaces out upstream
// requests across all goroutines.
type SweepWorker struct {
	*worker.BaseWorker
	municipalityRepo repository.MunicipalityRepository
	searchRepo       repository.SearchRepository
	cfg              config.WorkerConfig
	limiter          *rate.Limiter
	retryCfg         resilience.RetryConfig
}

// NewSweepWorker creates the municipality sweep worker.
func NewSweepWorker(
	municipalityRepo repository.MunicipalityRepository,
	searchRepo repository.SearchRepository,
	cfg config.WorkerConfig,
	logger *zap.Logger,
) *SweepWorker {
	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.MaxRetries = cfg.MaxRetries

	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}

	return &SweepWorker{
		BaseWorker:       worker.NewBaseWorker("municipality-sweep", logger),
		municipalityRepo: municipalityRepo,
		searchRepo:       searchRepo,
		cfg:              cfg,
		limiter:          rate.NewLimiter(limit, 1),
		retryCfg:         retryCfg,
	}
}

// Start runs sweeps until stopped. The first sweep runs immediately.
func (w *SweepWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting municipality sweep worker",
		zap.Int("limit", w.cfg.Limit),
		zap.Int("concurrency", w.cfg.Concurrency),
		zap.Duration("request_delay", w.cfg.RequestDelay),
		zap.Duration("sweep_interval", w.cfg.SweepInterval))

	ticker := time.NewTicker(w.cfg.SweepInterval)
	defer ticker.Stop()

	w.runSweep(ctx)

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case <-ticker.C:
			w.runSweep(ctx)
		}
	}
}

// runSweep executes one batch. Item failures are recorded and never
// halt the sweep.
func (w *SweepWorker) runSweep(ctx context.Context) {
	logger := w.Logger()
	jobID := uuid.New().String()

	municipalities, err := w.municipalityRepo.ListWithoutWebsite(ctx, w.cfg.Limit)
	if err != nil {
		logger.Error("Failed to list sweep items", zap.String("job_id", jobID), zap.Error(err))
		return
	}
	if len(municipalities) == 0 {
		logger.Debug("Nothing to sweep", zap.String("job_id", jobID))
		return
	}

	logger.Info("Sweep started",
		zap.String("job_id", jobID),
		zap.Int("items", len(municipalities)))

	var resolved, failed int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, slice := range splitSlices(municipalities, w.cfg.Concurrency) {
		wg.Add(1)
		go func(items []*domain.Municipality) {
			defer wg.Done()
			for _, m := range items {
				select {
				case <-w.StopChan():
					return
				case <-ctx.Done():
					return
				default:
				}

				err := w.resolveItem(ctx, m)
				mu.Lock()
				if err != nil {
					failed++
					logger.Warn("Sweep item failed",
						zap.String("job_id", jobID),
						zap.String("municipality_id", m.ID),
						zap.Error(err))
				} else {
					resolved++
				}
				mu.Unlock()
			}
		}(slice)
	}
	wg.Wait()

	logger.Info("Sweep finished",
		zap.String("job_id", jobID),
		zap.Int64("resolved", resolved),
		zap.Int64("failed", failed))
}

// resolveItem finds the official website of one municipality through
// web search, with transient-error retries.
func (w *SweepWorker) resolveItem(ctx context.Context, m *domain.Municipality) error {
	var website string

	err := resilience.Do(ctx, w.retryCfg, func(ctx context.Context) error {
		if err := w.limiter.Wait(ctx); err != nil {
			return err
		}

		results, err := w.searchRepo.Search(ctx, websiteQuery(m))
		if err != nil {
			return err
		}

		website = pickOfficialSite(results)
		if website == "" {
			return fmt.Errorf("no plausible official site for %q", m.Name)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return w.municipalityRepo.UpdateWebsite(ctx, m.ID, website, m.Country)
}

func websiteQuery(m *domain.Municipality) string {
	if m.Country == domain.CountryES {
		return fmt.Sprintf("ayuntamiento de %s sitio web oficial", m.Name)
	}
	return fmt.Sprintf("câmara municipal de %s site oficial", m.Name)
}

// pickOfficialSite prefers municipal government domains over generic
// hits. The heuristics cover the common PT (cm-*.pt) and ES
// (aytos/ayuntamiento) naming conventions.
func pickOfficialSite(results []domain.SearchResult) string {
	for _, r := range results {
		url := strings.ToLower(r.URL)
		if strings.Contains(url, "cm-") ||
			strings.Contains(url, "municipio") ||
			strings.Contains(url, "ayuntamiento") ||
			strings.HasSuffix(trimPath(url), ".pt") ||
			strings.HasSuffix(trimPath(url), ".es") {
			return r.URL
		}
	}
	if len(results) > 0 {
		return results[0].URL
	}
	return ""
}

// trimPath reduces a URL to its host part.
func trimPath(url string) string {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	if i := strings.IndexByte(url, '/'); i >= 0 {
		url = url[:i]
	}
	return url
}

// splitSlices partitions items into at most n contiguous slices of
// near-equal length.
func splitSlices(items []*domain.Municipality, n int) [][]*domain.Municipality {
	if len(items) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	if n > len(items) {
		n = len(items)
	}

	slices := make([][]*domain.Municipality, 0, n)
	size := (len(items) + n - 1) / n
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		slices = append(slices, items[start:end])
	}
	return slices
}

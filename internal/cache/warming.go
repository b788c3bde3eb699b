package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/allankassio/ipma-weather-proxy-api/internal/models"
	"github.com/allankassio/ipma-weather-proxy-api/internal/observability"
)

// ReferenceFetcher is implemented by the IPMA client. Used by Warmer to
// prefetch the reference tables without a dependency on the client package.
type ReferenceFetcher interface {
	Localities(ctx context.Context) ([]models.Locality, error)
	WeatherTypes(ctx context.Context) (map[int]models.WeatherTypeLabel, error)
}

// Warmer prefetches the slow-changing reference resources (localities and
// weather-type labels) so the first user request is served from cache.
type Warmer struct {
	fetcher ReferenceFetcher
	logger  *zap.Logger
}

// NewWarmer creates a Warmer that uses the given fetcher and logger.
func NewWarmer(fetcher ReferenceFetcher, logger *zap.Logger) *Warmer {
	return &Warmer{fetcher: fetcher, logger: logger}
}

// Warm fetches both reference resources concurrently, populating their caches
// via the fetcher. Returns an aggregated error if any fetch failed.
func (w *Warmer) Warm(ctx context.Context) error {
	start := time.Now()
	observability.CacheWarmingTotal.Inc()
	if w.logger != nil {
		w.logger.Info("warming reference caches")
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := w.fetcher.Localities(ctx); err != nil {
			errCh <- fmt.Errorf("warm localities: %w", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := w.fetcher.WeatherTypes(ctx); err != nil {
			errCh <- fmt.Errorf("warm weather types: %w", err)
		}
	}()

	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	observability.CacheWarmingDurationSeconds.Observe(time.Since(start).Seconds())

	if len(errs) > 0 {
		if w.logger != nil {
			w.logger.Warn("cache warming incomplete", zap.Int("failed", len(errs)))
		}
		return fmt.Errorf("cache warming: %d of 2 fetches failed: %v", len(errs), errs)
	}
	if w.logger != nil {
		w.logger.Info("reference caches warmed", zap.Duration("duration", time.Since(start)))
	}
	return nil
}

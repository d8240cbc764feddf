package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sortir/internal/domain"
	"sortir/internal/metrics"
)

// SyncService runs crawls under the synchronization lock and records them.
type SyncService struct {
	crawler EventCrawler
	lock    SyncLock
	logger  *slog.Logger
}

func NewSyncService(crawler EventCrawler, lock SyncLock, logger *slog.Logger) *SyncService {
	return &SyncService{
		crawler: crawler,
		lock:    lock,
		logger:  logger.With("component", "sync"),
	}
}

// Sync crawls days calendar days from anchor. It returns domain.ErrSyncRunning
// without crawling when another synchronization holds the lock.
func (s *SyncService) Sync(ctx context.Context, trigger string, anchor time.Time, days int) (*CrawlResult, error) {
	token, acquired, err := s.lock.TryAcquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire sync lock: %w", err)
	}
	if !acquired {
		s.logger.Warn("sync skipped, lock held", "trigger", trigger)
		return nil, domain.ErrSyncRunning
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), token); err != nil {
			s.logger.Error("release sync lock", "error", err)
		}
	}()

	startTime := time.Now()
	s.logger.Info("starting sync", "trigger", trigger, "days", days)

	result, err := s.crawler.FetchAllFrenchEvents(ctx, days, anchor)
	metrics.RecordSync(trigger, err == nil, time.Since(startTime))
	if err != nil {
		return result, fmt.Errorf("crawl: %w", err)
	}

	s.logger.Info("sync completed",
		"trigger", trigger,
		"saved", result.Stats.Saved,
		"updated", result.Stats.Updated,
		"errors", result.Stats.Errors,
		"duration", time.Since(startTime),
	)

	return result, nil
}

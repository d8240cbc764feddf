package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sortir/internal/classification"
	"sortir/internal/domain"
	"sortir/internal/paginator"
	"sortir/internal/source/ticketmaster"
)

type CrawlerConfig struct {
	PageDelay time.Duration
	DayDelay  time.Duration
	MaxPages  int
	Location  *time.Location
}

// CrawlResult holds every raw event fetched by a crawl and the aggregated
// persistence counters.
type CrawlResult struct {
	Events []ticketmaster.Event
	Stats  domain.CrawlStats
}

// Crawler walks segments, then days, then pages, strictly in order.
type Crawler struct {
	source   Source
	ingestor EventIngestor
	pages    *paginator.Paginator[ticketmaster.Event]
	dayDelay time.Duration
	location *time.Location
	sleep    paginator.SleepFunc
	now      func() time.Time
	logger   *slog.Logger
}

func NewCrawler(source Source, ingestor EventIngestor, logger *slog.Logger, cfg CrawlerConfig) *Crawler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Crawler{
		source:   source,
		ingestor: ingestor,
		pages: paginator.New[ticketmaster.Event](paginator.Config{
			Delay:    cfg.PageDelay,
			MaxPages: cfg.MaxPages,
		}),
		dayDelay: cfg.DayDelay,
		location: cfg.Location,
		sleep:    paginator.Sleep,
		now:      time.Now,
		logger:   logger.With("source", source.ID()),
	}
}

// WithSleep replaces the pause used between days and pages.
func (c *Crawler) WithSleep(fn paginator.SleepFunc) *Crawler {
	c.sleep = fn
	c.pages.WithSleep(fn)
	return c
}

// WithClock replaces the time source used when no anchor is given.
func (c *Crawler) WithClock(now func() time.Time) *Crawler {
	c.now = now
	return c
}

// FetchAllFrenchEvents crawls totalDays calendar days starting at anchor, or
// today when anchor is zero. A failing day is counted and skipped; only a
// missing API key or cancellation ends the crawl early.
func (c *Crawler) FetchAllFrenchEvents(ctx context.Context, totalDays int, anchor time.Time) (*CrawlResult, error) {
	if err := c.source.Validate(); err != nil {
		return nil, err
	}
	if totalDays <= 0 {
		return nil, fmt.Errorf("total days must be positive, got %d", totalDays)
	}

	if anchor.IsZero() {
		anchor = c.now()
	}
	anchor = anchor.In(c.location)
	first := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, c.location)

	startTime := time.Now()
	c.logger.Info("starting crawl",
		"source_name", c.source.Name(),
		"first_day", first.Format(time.DateOnly),
		"days", totalDays,
	)

	result := &CrawlResult{}

	for _, segment := range classification.Segments() {
		segStats := domain.SegmentStats{Segment: segment.Name, SegmentID: segment.ID}
		logger := c.logger.With("segment", segment.Name)

		for offset := 0; offset < totalDays; offset++ {
			day := first.AddDate(0, 0, offset)

			events, err := c.crawlDay(ctx, segment, day, &segStats)
			if err != nil {
				if ctx.Err() != nil {
					result.Stats.Segments = append(result.Stats.Segments, segStats)
					return result, ctx.Err()
				}
				segStats.DayErrors++
				segStats.Errors++
				logger.Error("day failed", "day", day.Format(time.DateOnly), "error", err)
			}
			result.Events = append(result.Events, events...)

			if offset < totalDays-1 {
				if err := c.sleep(ctx, c.dayDelay); err != nil {
					result.Stats.Segments = append(result.Stats.Segments, segStats)
					return result, err
				}
			}
		}

		logger.Info("segment crawled",
			"fetched", segStats.Fetched,
			"saved", segStats.Saved,
			"updated", segStats.Updated,
			"errors", segStats.Errors,
		)

		result.Stats.Fetched += segStats.Fetched
		result.Stats.SaveStats.Add(segStats.SaveStats)
		result.Stats.Segments = append(result.Stats.Segments, segStats)
	}

	result.Stats.Duration = time.Since(startTime)

	c.logger.Info("crawl completed",
		"fetched", result.Stats.Fetched,
		"saved", result.Stats.Saved,
		"updated", result.Stats.Updated,
		"errors", result.Stats.Errors,
		"duration", result.Stats.Duration,
	)

	return result, nil
}

// crawlDay fetches every page of one day and hands the events to the ingestor.
// The fetched events are returned even when persisting them fails.
func (c *Crawler) crawlDay(ctx context.Context, segment classification.Segment, day time.Time, stats *domain.SegmentStats) ([]ticketmaster.Event, error) {
	events, err := c.pages.Collect(ctx, func(ctx context.Context, page int) (paginator.Page[ticketmaster.Event], error) {
		resp, err := c.source.FetchDayPage(ctx, segment.ID, day, page)
		if err != nil {
			return paginator.Page[ticketmaster.Event]{}, err
		}
		return paginator.Page[ticketmaster.Event]{
			Items:      resp.Events(),
			TotalPages: resp.Page.TotalPages,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	stats.Fetched += len(events)

	saved, err := c.ingestor.Upsert(ctx, ticketmaster.Enrich(events), segment.Name)
	stats.SaveStats.Add(saved)
	if err != nil {
		return events, fmt.Errorf("persist events: %w", err)
	}

	return events, nil
}

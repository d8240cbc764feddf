package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sortir/internal/domain"
	"sortir/internal/metrics"
	"sortir/internal/source/ticketmaster"
)

// Ingestor normalizes raw events and upserts them by external id.
type Ingestor struct {
	events    EventRepository
	publisher Publisher
	location  *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

func NewIngestor(events EventRepository, publisher Publisher, location *time.Location, logger *slog.Logger) *Ingestor {
	return &Ingestor{
		events:    events,
		publisher: publisher,
		location:  location,
		now:       time.Now,
		logger:    logger.With("component", "ingestor"),
	}
}

// WithClock replaces the time source used for the sync timestamps.
func (i *Ingestor) WithClock(now func() time.Time) *Ingestor {
	i.now = now
	return i
}

// Upsert persists events one at a time. A malformed event or a racing insert
// counts as an error and the loop goes on; any other repository error aborts
// the batch and is returned along with the counts so far.
func (i *Ingestor) Upsert(ctx context.Context, events []ticketmaster.EnrichedEvent, fallbackSegment string) (domain.SaveStats, error) {
	var stats domain.SaveStats

	for idx := range events {
		event, err := ticketmaster.Normalize(events[idx], fallbackSegment, i.location, i.now())
		if err != nil {
			stats.Errors++
			i.logger.Warn("skipping malformed event", "external_id", events[idx].ID, "error", err)
			continue
		}

		isNew, err := i.save(ctx, event)
		if errors.Is(err, domain.ErrDuplicateKey) {
			stats.Errors++
			i.logger.Warn("concurrent insert detected", "external_id", event.ExternalID)
			continue
		}
		if err != nil {
			return stats, err
		}

		if isNew {
			stats.Saved++
			metrics.EventsUpserted.WithLabelValues("created").Inc()
		} else {
			stats.Updated++
			metrics.EventsUpserted.WithLabelValues("updated").Inc()
		}

		if i.publisher != nil {
			if err := i.publisher.Publish(ctx, event, isNew); err != nil {
				i.logger.Warn("publish event change", "external_id", event.ExternalID, "error", err)
			} else {
				stats.Published++
			}
		}
	}

	return stats, nil
}

func (i *Ingestor) save(ctx context.Context, event *domain.Event) (bool, error) {
	existing, err := i.events.FindByExternalID(ctx, event.ExternalID)
	if errors.Is(err, domain.ErrNotFoundRecord) {
		if err := i.events.Insert(ctx, event); err != nil {
			return true, fmt.Errorf("insert event %s: %w", event.ExternalID, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("find event %s: %w", event.ExternalID, err)
	}

	event.CreatedAt = existing.CreatedAt
	if err := i.events.Update(ctx, event); err != nil {
		return false, fmt.Errorf("update event %s: %w", event.ExternalID, err)
	}
	return false, nil
}

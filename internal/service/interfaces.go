package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"sortir/internal/domain"
	"sortir/internal/source/ticketmaster"
)

type Source interface {
	ID() string
	Name() string
	Validate() error
	FetchDayPage(ctx context.Context, segmentID string, day time.Time, page int) (*ticketmaster.APIResponse, error)
}

// EventRepository returns domain.ErrNotFoundRecord from FindByExternalID when
// no document matches and domain.ErrDuplicateKey when an insert races.
type EventRepository interface {
	FindByExternalID(ctx context.Context, externalID string) (*domain.Event, error)
	Insert(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
}

type EventIngestor interface {
	Upsert(ctx context.Context, events []ticketmaster.EnrichedEvent, fallbackSegment string) (domain.SaveStats, error)
}

type EventCrawler interface {
	FetchAllFrenchEvents(ctx context.Context, totalDays int, anchor time.Time) (*CrawlResult, error)
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.Event, isNew bool) error
	Close() error
}

// SyncLock hands out a token per acquisition; Release only frees the lease
// held under that token.
type SyncLock interface {
	TryAcquire(ctx context.Context) (string, bool, error)
	Release(ctx context.Context, token string) error
}

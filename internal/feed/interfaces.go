package feed

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"sortir/internal/domain"
)

type EventReader interface {
	Find(ctx context.Context, q domain.EventQuery) ([]domain.Event, error)
	Count(ctx context.Context, q domain.EventQuery) (int64, error)
}

type PreferenceReader interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Preference, error)
}

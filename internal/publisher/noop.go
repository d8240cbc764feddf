package publisher

import (
	"context"

	"sortir/internal/domain"
)

// Noop discards event changes. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, *domain.Event, bool) error { return nil }

func (Noop) Close() error { return nil }

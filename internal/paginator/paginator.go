// Package paginator walks page-numbered APIs one request at a time with a fixed
// pause between requests and a hard cap on the number of pages.
package paginator

import (
	"context"
	"fmt"
	"time"
)

// Page is one page of results along with the total page count the API reported.
type Page[T any] struct {
	Items      []T
	TotalPages int
}

// FetchFunc fetches the zero-based page number.
type FetchFunc[T any] func(ctx context.Context, page int) (Page[T], error)

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Config struct {
	Delay    time.Duration
	MaxPages int
}

type Paginator[T any] struct {
	delay    time.Duration
	maxPages int
	sleep    SleepFunc
}

func New[T any](cfg Config) *Paginator[T] {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	return &Paginator[T]{
		delay:    cfg.Delay,
		maxPages: cfg.MaxPages,
		sleep:    Sleep,
	}
}

// WithSleep replaces the pause implementation.
func (p *Paginator[T]) WithSleep(fn SleepFunc) *Paginator[T] {
	p.sleep = fn
	return p
}

// Collect requests pages 0, 1, ... while page < TotalPages and page < MaxPages,
// accumulating items. The first error aborts the walk.
func (p *Paginator[T]) Collect(ctx context.Context, fetch FetchFunc[T]) ([]T, error) {
	var all []T

	for page := 0; page < p.maxPages; page++ {
		if page > 0 && p.delay > 0 {
			if err := p.sleep(ctx, p.delay); err != nil {
				return all, err
			}
		}

		res, err := fetch(ctx, page)
		if err != nil {
			return all, fmt.Errorf("fetch page %d: %w", page, err)
		}
		all = append(all, res.Items...)

		if page+1 >= res.TotalPages {
			break
		}
	}

	return all, nil
}

// Sleep is a context-aware time.Sleep.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Package feed assembles the paginated event feeds.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sortir/internal/classification"
	"sortir/internal/domain"
)

const (
	ReasonNoPreferences    = "no_preferences"
	ReasonNoMatchingGenres = "no_matching_genres"
)

// Filter narrows the all-events feed. Single and multi-value fields are merged.
type Filter struct {
	Segment  string
	Genre    string
	Segments []string
	Genres   []string
}

type Result struct {
	Events     []domain.Event
	Pagination Pagination
	Reason     string
}

type Assembler struct {
	events   EventReader
	prefs    PreferenceReader
	location *time.Location
	now      func() time.Time
	intn     IntN
	logger   *slog.Logger
}

func NewAssembler(events EventReader, prefs PreferenceReader, location *time.Location, logger *slog.Logger) *Assembler {
	if location == nil {
		location = time.UTC
	}
	return &Assembler{
		events:   events,
		prefs:    prefs,
		location: location,
		now:      time.Now,
		logger:   logger.With("component", "feed"),
	}
}

func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// WithRandom replaces the source of the public feed shuffle.
func (a *Assembler) WithRandom(intn IntN) *Assembler {
	a.intn = intn
	return a
}

// Personalized lists upcoming events in the user's preferred genres. Without
// preferences it serves the all-events feed tagged ReasonNoPreferences.
func (a *Assembler) Personalized(ctx context.Context, userID string, p Page) (*Result, error) {
	genres, err := a.preferredGenres(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(genres) == 0 {
		res, err := a.All(ctx, Filter{}, p)
		if err != nil {
			return nil, err
		}
		res.Reason = ReasonNoPreferences
		return res, nil
	}

	q := a.upcoming()
	q.Genres = genres

	res, err := a.list(ctx, q, p)
	if err != nil {
		return nil, err
	}
	if res.Pagination.Total == 0 {
		res.Reason = ReasonNoMatchingGenres
	}
	return res, nil
}

// Discovery lists upcoming events outside the user's preferred genres.
func (a *Assembler) Discovery(ctx context.Context, userID string, p Page) (*Result, error) {
	genres, err := a.preferredGenres(ctx, userID)
	if err != nil {
		return nil, err
	}

	q := a.upcoming()
	q.ExcludeGenres = genres
	return a.list(ctx, q, p)
}

// All lists upcoming events, optionally restricted to segments and genres.
func (a *Assembler) All(ctx context.Context, f Filter, p Page) (*Result, error) {
	q := a.upcoming()
	q.Segments = merge(f.Segment, f.Segments)
	q.Genres = merge(f.Genre, f.Genres)
	return a.list(ctx, q, p)
}

// PublicRandom takes a per-segment quota of the most recently synced
// upcoming events for the page, concatenates them in segment order and
// shuffles the result. Each segment is paged by its own quota, so the page
// count is that of the segment needing the most pages; later pages hold only
// the segments that still have events.
func (a *Assembler) PublicRandom(ctx context.Context, p Page) (*Result, error) {
	segments := classification.Segments()
	quotas := Quotas(p.Limit, len(segments))

	var (
		combined   []domain.Event
		total      int64
		totalPages int
	)
	for i, segment := range segments {
		q := a.upcoming()
		q.Segments = []string{segment.Name}

		count, err := a.events.Count(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("count %s events: %w", segment.Name, err)
		}
		total += count

		quota := int64(quotas[i])
		if quota == 0 {
			continue
		}
		totalPages = max(totalPages, pagesFor(count, quota))

		skip := int64(p.Number-1) * quota
		if skip >= count {
			continue
		}

		q.Sort = domain.SortRecentlySynced
		q.Skip = skip
		q.Limit = quota

		events, err := a.events.Find(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("find %s events: %w", segment.Name, err)
		}
		combined = append(combined, events...)
	}

	shuffled := Shuffle(combined, a.intn)
	if len(shuffled) > p.Limit {
		shuffled = shuffled[:p.Limit]
	}

	return &Result{
		Events:     shuffled,
		Pagination: newPagination(p, total, totalPages),
	}, nil
}

func (a *Assembler) list(ctx context.Context, q domain.EventQuery, p Page) (*Result, error) {
	total, err := a.events.Count(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	events := make([]domain.Event, 0)
	if total > p.Skip() {
		q.Skip = p.Skip()
		q.Limit = int64(p.Limit)
		events, err = a.events.Find(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("find events: %w", err)
		}
	}

	return &Result{Events: events, Pagination: NewPagination(p, total)}, nil
}

// upcoming selects events later today or on a later day, in wall-clock time.
func (a *Assembler) upcoming() domain.EventQuery {
	now := a.now().In(a.location)
	return domain.EventQuery{
		Today:    now.Format(time.DateOnly),
		FromTime: now.Format("15:04") + ":00",
		Sort:     domain.SortChronological,
	}
}

func (a *Assembler) preferredGenres(ctx context.Context, userID string) ([]string, error) {
	prefs, err := a.prefs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}

	genres := make([]string, 0, len(prefs))
	for _, p := range prefs {
		genres = append(genres, p.ClassificationName)
	}
	return genres, nil
}

func merge(single string, multi []string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(v string) {
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	add(single)
	for _, v := range multi {
		add(v)
	}
	return out
}

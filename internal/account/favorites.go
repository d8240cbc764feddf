package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sortir/internal/domain"
)

// FavoriteView pairs a favorite with its event. Event is nil once the
// event has left the store.
type FavoriteView struct {
	ExternalID string
	CreatedAt  time.Time
	Event      *domain.Event
}

type FavoriteService struct {
	favorites FavoriteRepository
	events    EventLookup
	logger    *slog.Logger
}

func NewFavoriteService(favorites FavoriteRepository, events EventLookup, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		events:    events,
		logger:    logger.With("component", "favorites"),
	}
}

// Add marks an existing event as favorite. It reports whether the favorite
// is new; adding twice is not an error.
func (s *FavoriteService) Add(ctx context.Context, userID, externalID string) (bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return false, domain.ErrValidation("event id is required")
	}

	if _, err := s.events.FindByExternalID(ctx, externalID); err != nil {
		if errors.Is(err, domain.ErrNotFoundRecord) {
			return false, domain.ErrNotFound("event not found")
		}
		return false, fmt.Errorf("find event: %w", err)
	}

	created, err := s.favorites.Add(ctx, userID, externalID)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}
	return created, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, externalID string) error {
	if err := s.favorites.Remove(ctx, userID, strings.TrimSpace(externalID)); err != nil {
		if errors.Is(err, domain.ErrNotFoundRecord) {
			return domain.ErrNotFound("favorite not found")
		}
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// List returns the user's favorites, newest first, with their events.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]FavoriteView, error) {
	favs, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	views := make([]FavoriteView, 0, len(favs))
	if len(favs) == 0 {
		return views, nil
	}

	ids := make([]string, len(favs))
	for i, f := range favs {
		ids[i] = f.EventExternalID
	}

	events, err := s.events.FindByExternalIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find favorite events: %w", err)
	}
	byID := make(map[string]*domain.Event, len(events))
	for i := range events {
		byID[events[i].ExternalID] = &events[i]
	}

	for _, f := range favs {
		views = append(views, FavoriteView{
			ExternalID: f.EventExternalID,
			CreatedAt:  f.CreatedAt,
			Event:      byID[f.EventExternalID],
		})
	}
	return views, nil
}

package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"sortir/internal/domain"
)

type FavoriteStore struct {
	db *sqlx.DB
}

func NewFavoriteStore(db *sqlx.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// Add is idempotent and reports whether a row was created.
func (s *FavoriteStore) Add(ctx context.Context, userID, externalID string) (bool, error) {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO user_favorites (user_id, event_external_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, event_external_id) DO NOTHING`, userID, externalID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *FavoriteStore) Remove(ctx context.Context, userID, externalID string) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"DELETE FROM user_favorites WHERE user_id = $1 AND event_external_id = $2", userID, externalID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFoundRecord
	}
	return nil
}

func (s *FavoriteStore) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	favs := make([]domain.Favorite, 0)
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &favs, `
		SELECT user_id, event_external_id, created_at
		FROM user_favorites WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return favs, nil
}

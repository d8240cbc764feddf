package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type BlacklistStore struct {
	db *sqlx.DB
}

func NewBlacklistStore(db *sqlx.DB) *BlacklistStore {
	return &BlacklistStore{db: db}
}

func (s *BlacklistStore) Add(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO blacklisted_tokens (token, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token) DO NOTHING`, token, expiresAt)
	return err
}

func (s *BlacklistStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &exists,
		"SELECT EXISTS (SELECT 1 FROM blacklisted_tokens WHERE token = $1)", token)
	return exists, err
}

// PurgeExpired deletes tokens whose natural expiry is before now.
func (s *BlacklistStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"DELETE FROM blacklisted_tokens WHERE expires_at < $1", now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

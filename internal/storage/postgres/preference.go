package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"sortir/internal/domain"
)

type PreferenceStore struct {
	db *sqlx.DB
}

func NewPreferenceStore(db *sqlx.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

func (s *PreferenceStore) ListByUser(ctx context.Context, userID string) ([]domain.Preference, error) {
	prefs := make([]domain.Preference, 0)
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &prefs, `
		SELECT id, user_id, classification_id, classification_name, created_at
		FROM user_preferences WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *PreferenceStore) DeleteByUser(ctx context.Context, userID string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"DELETE FROM user_preferences WHERE user_id = $1", userID)
	return err
}

// InsertBatch inserts prefs and fills their ids and creation times.
func (s *PreferenceStore) InsertBatch(ctx context.Context, prefs []domain.Preference) error {
	query := `
		INSERT INTO user_preferences (user_id, classification_id, classification_name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	exec := GetExecutor(ctx, s.db)
	for i := range prefs {
		p := &prefs[i]
		err := exec.QueryRowxContext(ctx, query, p.UserID, p.ClassificationID, p.ClassificationName).
			Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return translate(err)
		}
	}
	return nil
}

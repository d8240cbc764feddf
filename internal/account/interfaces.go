package account

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"sortir/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type PreferenceRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Preference, error)
	DeleteByUser(ctx context.Context, userID string) error
	InsertBatch(ctx context.Context, prefs []domain.Preference) error
}

type FavoriteRepository interface {
	Add(ctx context.Context, userID, externalID string) (bool, error)
	Remove(ctx context.Context, userID, externalID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
}

type EventLookup interface {
	FindByExternalID(ctx context.Context, externalID string) (*domain.Event, error)
	FindByExternalIDs(ctx context.Context, externalIDs []string) ([]domain.Event, error)
}

type TokenBlacklist interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenSigner interface {
	Sign(userID, role string) (string, time.Time, error)
	Verify(token string) (Claims, error)
}

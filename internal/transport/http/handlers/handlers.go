// Package handlers implements the REST endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"sortir/internal/account"
	"sortir/internal/domain"
	"sortir/internal/feed"
	"sortir/internal/health"
	"sortir/internal/scheduler"
	"sortir/internal/service"
)

type AuthService interface {
	Register(ctx context.Context, in account.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in account.LoginInput) (*account.Session, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

type PreferenceService interface {
	List(ctx context.Context, userID string) ([]domain.Preference, error)
	Replace(ctx context.Context, userID string, in account.PreferencesInput) ([]domain.Preference, error)
}

type FavoriteService interface {
	Add(ctx context.Context, userID, externalID string) (bool, error)
	Remove(ctx context.Context, userID, externalID string) error
	List(ctx context.Context, userID string) ([]account.FavoriteView, error)
}

type FeedService interface {
	Personalized(ctx context.Context, userID string, p feed.Page) (*feed.Result, error)
	Discovery(ctx context.Context, userID string, p feed.Page) (*feed.Result, error)
	All(ctx context.Context, f feed.Filter, p feed.Page) (*feed.Result, error)
	PublicRandom(ctx context.Context, p feed.Page) (*feed.Result, error)
}

type Syncer interface {
	Sync(ctx context.Context, trigger string, anchor time.Time, days int) (*service.CrawlResult, error)
}

type EventStats interface {
	CountAndLastSync(ctx context.Context) (domain.EventStats, error)
}

type Scheduler interface {
	TriggerManual(ctx context.Context) scheduler.ManualResult
	Logs() (string, error)
	Recent(n int) ([]scheduler.Entry, error)
}

type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched
// when allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return domain.ErrValidation("invalid JSON body")
	}
	return nil
}

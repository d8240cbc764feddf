package ticketmaster

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sortir/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestSource(baseURL, apiKey string, attempts int) *Source {
	return New(Config{
		BaseURL:        baseURL,
		APIKey:         apiKey,
		PageSize:       200,
		Timeout:        2 * time.Second,
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}, testLogger())
}

func TestFetchDayPage_BuildsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events.json", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("apikey"))
		assert.Equal(t, "FR", q.Get("countryCode"))
		assert.Equal(t, "fr-FR", q.Get("locale"))
		assert.Equal(t, "2025-08-11T00:00:00Z", q.Get("startDateTime"))
		assert.Equal(t, "2025-08-11T23:59:59Z", q.Get("endDateTime"))
		assert.Equal(t, "KZFzniwnSyZfZ7v7nJ", q.Get("segmentId"))
		assert.Equal(t, "200", q.Get("size"))
		assert.Equal(t, "3", q.Get("page"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_embedded":{"events":[{"id":"e1","name":"Concert"}]},"page":{"size":200,"totalElements":1,"totalPages":4,"number":3}}`))
	}))
	defer srv.Close()

	src := newTestSource(srv.URL, "secret", 1)
	day := time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)

	resp, err := src.FetchDayPage(context.Background(), "KZFzniwnSyZfZ7v7nJ", day, 3)
	require.NoError(t, err)
	require.Len(t, resp.Events(), 1)
	assert.Equal(t, "e1", resp.Events()[0].ID)
	assert.Equal(t, 4, resp.Page.TotalPages)
}

func TestFetchDayPage_MissingEmbedded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":{"totalPages":0}}`))
	}))
	defer srv.Close()

	resp, err := newTestSource(srv.URL, "k", 1).FetchDayPage(context.Background(), "seg", time.Now(), 0)
	require.NoError(t, err)
	assert.Empty(t, resp.Events())
}

func TestFetchDayPage_NonSuccessCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"fault":"Invalid ApiKey"}`))
	}))
	defer srv.Close()

	_, err := newTestSource(srv.URL, "bad", 3).FetchDayPage(context.Background(), "seg", time.Now(), 0)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Contains(t, se.Body, "Invalid ApiKey")
	assert.Contains(t, err.Error(), "401")
}

func TestFetchDayPage_RetriesRateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("slow down"))
			return
		}
		_, _ = w.Write([]byte(`{"_embedded":{"events":[]},"page":{"totalPages":1}}`))
	}))
	defer srv.Close()

	_, err := newTestSource(srv.URL, "k", 3).FetchDayPage(context.Background(), "seg", time.Now(), 0)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchDayPage_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestSource(srv.URL, "k", 3).FetchDayPage(context.Background(), "seg", time.Now(), 0)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("size"))
		if r.URL.Query().Get("apikey") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"page":{"totalPages":1}}`))
	}))
	defer srv.Close()

	assert.NoError(t, newTestSource(srv.URL, "secret", 1).Ping(context.Background()))

	var se *StatusError
	require.ErrorAs(t, newTestSource(srv.URL, "bad", 1).Ping(context.Background()), &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)

	assert.ErrorIs(t, newTestSource(srv.URL, "", 1).Ping(context.Background()), domain.ErrMissingAPIKey)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, newTestSource("http://x", "  ", 1).Validate(), domain.ErrMissingAPIKey)
	assert.NoError(t, newTestSource("http://x", "key", 1).Validate())
}

func TestCalculateBackoff(t *testing.T) {
	src := New(Config{InitialBackoff: time.Second, MaxBackoff: 5 * time.Second}, testLogger())

	assert.Equal(t, time.Second, src.calculateBackoff(1, errors.New("x")))
	assert.Equal(t, 4*time.Second, src.calculateBackoff(3, errors.New("x")))
	assert.Equal(t, 5*time.Second, src.calculateBackoff(6, errors.New("x")))
	assert.Equal(t, 3*time.Second, src.calculateBackoff(1, &StatusError{StatusCode: 429, RetryAfter: 3 * time.Second}))
}

package ticketmaster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"sortir/internal/domain"
	"sortir/internal/metrics"
)

const (
	SourceID   = "ticketmaster"
	SourceName = "Ticketmaster Discovery"

	countryCode = "FR"
	locale      = "fr-FR"
)

// Config holds Ticketmaster source configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	PageSize       int
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	RatePerSecond  float64
}

// Source implements service.Source for the Ticketmaster Discovery API.
type Source struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	pageSize       int
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker[*APIResponse]
	logger         *slog.Logger
}

// StatusError is returned for non-2xx responses and carries the body text.
type StatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ticketmaster api error %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed if repeated.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// New creates a new Ticketmaster source.
func New(cfg Config, logger *slog.Logger) *Source {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 200
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	s := &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		pageSize:       cfg.PageSize,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		limiter:        rate.NewLimiter(limit, 1),
		logger:         logger.With("source", SourceID),
	}
	s.breaker = newBreaker(s.logger)
	return s
}

func newBreaker(logger *slog.Logger) *gobreaker.CircuitBreaker[*APIResponse] {
	const name = "ticketmaster-api"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[*APIResponse](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A rejected request (bad key, bad params) says nothing about availability.
			var se *StatusError
			if errors.As(err, &se) {
				return !se.Retryable()
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// Validate checks the preconditions of a synchronization.
func (s *Source) Validate() error {
	if s.apiKey == "" {
		return domain.ErrMissingAPIKey
	}
	return nil
}

// FetchDayPage fetches one page of French events of a segment starting on day.
func (s *Source) FetchDayPage(ctx context.Context, segmentID string, day time.Time, page int) (*APIResponse, error) {
	reqURL := s.buildURL(segmentID, day, page)

	var resp *APIResponse
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		resp, err = s.execute(ctx, reqURL)
		if err == nil {
			return resp, nil
		}

		if attempt == s.maxAttempts || !retryable(err) {
			break
		}

		backoff := s.calculateBackoff(attempt, err)
		s.logger.Warn("request failed, retrying",
			"segment_id", segmentID,
			"day", day.Format(time.DateOnly),
			"page", page,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if s.maxAttempts > 1 {
		return nil, fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
	}
	return nil, err
}

// Ping requests a single event to check the key and the API's reachability.
// It bypasses the limiter and the circuit breaker.
func (s *Source) Ping(ctx context.Context) error {
	if err := s.Validate(); err != nil {
		return err
	}

	q := url.Values{}
	q.Set("apikey", s.apiKey)
	q.Set("countryCode", countryCode)
	q.Set("size", "1")

	_, err := s.doRequest(ctx, s.baseURL+"/events.json?"+q.Encode())
	return err
}

func (s *Source) buildURL(segmentID string, day time.Time, page int) string {
	date := day.Format(time.DateOnly)

	q := url.Values{}
	q.Set("apikey", s.apiKey)
	q.Set("countryCode", countryCode)
	q.Set("locale", locale)
	q.Set("startDateTime", date+"T00:00:00Z")
	q.Set("endDateTime", date+"T23:59:59Z")
	q.Set("segmentId", segmentID)
	q.Set("size", strconv.Itoa(s.pageSize))
	q.Set("page", strconv.Itoa(page))

	return s.baseURL + "/events.json?" + q.Encode()
}

func (s *Source) execute(ctx context.Context, reqURL string) (*APIResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.breaker.Execute(func() (*APIResponse, error) {
		return s.doRequest(ctx, reqURL)
	})
	switch {
	case err == nil:
		metrics.TicketmasterRequests.WithLabelValues("success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.TicketmasterRequests.WithLabelValues("rejected").Inc()
	default:
		metrics.TicketmasterRequests.WithLabelValues("failure").Inc()
	}
	return resp, err
}

func (s *Source) doRequest(ctx context.Context, reqURL string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Sortir/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &apiResp, nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}

func (s *Source) calculateBackoff(attempt int, err error) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}

	var se *StatusError
	if errors.As(err, &se) && se.RetryAfter > backoff {
		backoff = se.RetryAfter
	}

	if s.maxBackoff > 0 && backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

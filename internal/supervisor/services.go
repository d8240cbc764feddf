package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/thejerf/suture/v4"
)

type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService serves until the context ends, then shuts the server
// down gracefully.
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
}

func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{server: server, shutdownTimeout: shutdownTimeout}
}

func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (h *HTTPServerService) String() string {
	return "http-server"
}

// Runner is a blocking loop that returns when its context ends.
type Runner interface {
	Start(ctx context.Context) error
}

// LoopService adapts a Runner; a loop that returns on its own is restarted.
type LoopService struct {
	name   string
	runner Runner
}

func NewLoopService(name string, runner Runner) *LoopService {
	return &LoopService{name: name, runner: runner}
}

func (s *LoopService) Serve(ctx context.Context) error {
	err := s.runner.Start(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("loop exited")
	}
	return fmt.Errorf("%s: %w", s.name, err)
}

func (s *LoopService) String() string {
	return s.name
}

// Purger deletes rows past their natural expiry.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// PurgeService runs a Purger at a fixed interval. Failed passes are logged
// and retried at the next tick.
type PurgeService struct {
	purger   Purger
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

func NewPurgeService(purger Purger, interval time.Duration, logger *slog.Logger) *PurgeService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &PurgeService{
		purger:   purger,
		interval: interval,
		now:      time.Now,
		logger:   logger.With("component", "token-purge"),
	}
}

func (s *PurgeService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.purge(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.purge(ctx)
		}
	}
}

func (s *PurgeService) purge(ctx context.Context) {
	n, err := s.purger.PurgeExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("purge expired tokens", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("purged expired tokens", "count", n)
	}
}

func (s *PurgeService) String() string {
	return "token-purge"
}

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*LoopService)(nil)
	_ suture.Service = (*PurgeService)(nil)
)

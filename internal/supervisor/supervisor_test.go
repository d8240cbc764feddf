package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeServer struct {
	stop     chan struct{}
	once     sync.Once
	shutdown atomic.Bool
	listen   error
}

func newFakeServer() *fakeServer {
	return &fakeServer{stop: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	if f.listen != nil {
		return f.listen
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(context.Context) error {
	f.shutdown.Store(true)
	f.once.Do(func() { close(f.stop) })
	return nil
}

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	srv := newFakeServer()
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop")
	}
	assert.True(t, srv.shutdown.Load())
}

func TestHTTPServerService_ListenFailure(t *testing.T) {
	srv := newFakeServer()
	srv.listen = errors.New("address already in use")

	err := NewHTTPServerService(srv, time.Second).Serve(context.Background())

	assert.ErrorContains(t, err, "address already in use")
}

type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Start(ctx context.Context) error { return f(ctx) }

func TestLoopService(t *testing.T) {
	svc := NewLoopService("scheduler", runnerFunc(func(context.Context) error {
		return errors.New("boom")
	}))
	assert.ErrorContains(t, svc.Serve(context.Background()), "scheduler: boom")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc = NewLoopService("scheduler", runnerFunc(func(ctx context.Context) error {
		return ctx.Err()
	}))
	assert.ErrorIs(t, svc.Serve(ctx), context.Canceled)
}

type fakePurger struct {
	calls atomic.Int32
	err   error
}

func (f *fakePurger) PurgeExpired(context.Context, time.Time) (int64, error) {
	f.calls.Add(1)
	return 3, f.err
}

func TestPurgeService_RunsImmediatelyAndOnTick(t *testing.T) {
	purger := &fakePurger{}
	svc := NewPurgeService(purger, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	require.Eventually(t, func() bool { return purger.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestPurgeService_SurvivesFailures(t *testing.T) {
	purger := &fakePurger{err: errors.New("db down")}
	svc := NewPurgeService(purger, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, svc.Serve(ctx), context.DeadlineExceeded)
	assert.GreaterOrEqual(t, purger.calls.Load(), int32(2))
}

func TestTree_RunsServicesUntilCancelled(t *testing.T) {
	tree := NewTree("sortir-test", TreeConfig{ShutdownTimeout: time.Second}, testLogger())
	purger := &fakePurger{}
	tree.Add(NewPurgeService(purger, time.Hour, testLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	require.Eventually(t, func() bool { return purger.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-errCh:
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}
}

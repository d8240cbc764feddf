package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sortir/internal/domain"
	"sortir/internal/service"
)

const (
	TriggerDaily  = "daily"
	TriggerManual = "manual"
)

// Syncer defines the interface for sync operations.
type Syncer interface {
	Sync(ctx context.Context, trigger string, anchor time.Time, days int) (*service.CrawlResult, error)
}

type Config struct {
	DailyAt    string
	DaysAhead  int
	WindowDays int
	Location   *time.Location
	RunTimeout time.Duration
}

// ManualResult reports the outcome of a triggered synchronization.
type ManualResult struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	TargetDate string             `json:"targetDate"`
	Stats      *domain.CrawlStats `json:"stats,omitempty"`
}

type Scheduler struct {
	syncer Syncer
	runLog *RunLog
	cfg    Config
	hour   int
	minute int
	now    func() time.Time
	logger *slog.Logger
}

func NewScheduler(syncer Syncer, runLog *RunLog, cfg Config, logger *slog.Logger) (*Scheduler, error) {
	hour, minute, err := ParseDailyAt(cfg.DailyAt)
	if err != nil {
		return nil, err
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 1
	}

	return &Scheduler{
		syncer: syncer,
		runLog: runLog,
		cfg:    cfg,
		hour:   hour,
		minute: minute,
		now:    time.Now,
		logger: logger.With("component", "scheduler"),
	}, nil
}

// WithClock replaces the time source used to compute run and target dates.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Start fires RunDaily at the configured wall-clock time until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "daily_at", s.cfg.DailyAt, "timezone", s.cfg.Location.String())

	for {
		now := s.now()
		next := NextRun(now, s.hour, s.minute, s.cfg.Location)
		s.logger.Info("next synchronization scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-timer.C:
			s.RunDaily(ctx)
		}
	}
}

// RunDaily synchronizes the day DaysAhead days from today. Failures are
// recorded and logged, never returned.
func (s *Scheduler) RunDaily(ctx context.Context) {
	res := s.run(ctx, TriggerDaily)
	if !res.Success {
		s.logger.Error("daily synchronization failed", "target_date", res.TargetDate, "message", res.Message)
	}
}

// TriggerManual runs the daily synchronization on demand.
func (s *Scheduler) TriggerManual(ctx context.Context) ManualResult {
	return s.run(ctx, TriggerManual)
}

func (s *Scheduler) run(ctx context.Context, trigger string) ManualResult {
	target := s.TargetDate()
	targetDate := target.Format(time.DateOnly)

	if s.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RunTimeout)
		defer cancel()
	}

	startTime := time.Now()
	s.runLog.Start(trigger, targetDate)

	result, err := s.syncer.Sync(ctx, trigger, target, s.cfg.WindowDays)
	elapsed := time.Since(startTime)

	if errors.Is(err, domain.ErrSyncRunning) {
		s.runLog.Skipped(trigger, targetDate, domain.ErrSyncRunning.Error())
		return ManualResult{Success: false, Message: domain.ErrSyncRunning.Error(), TargetDate: targetDate}
	}
	if err != nil {
		s.runLog.Failure(trigger, targetDate, elapsed, err)
		return ManualResult{
			Success:    false,
			Message:    fmt.Sprintf("synchronization failed after %s: %v", elapsed.Round(time.Millisecond), err),
			TargetDate: targetDate,
		}
	}

	s.runLog.Success(trigger, targetDate, elapsed, result.Stats)
	return ManualResult{
		Success:    true,
		Message:    fmt.Sprintf("synchronization completed in %s", elapsed.Round(time.Millisecond)),
		TargetDate: targetDate,
		Stats:      &result.Stats,
	}
}

// TargetDate is midnight, DaysAhead days after today in the configured zone.
func (s *Scheduler) TargetDate() time.Time {
	now := s.now().In(s.cfg.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.cfg.Location)
	return today.AddDate(0, 0, s.cfg.DaysAhead)
}

// Logs returns the run log file content.
func (s *Scheduler) Logs() (string, error) {
	return s.runLog.Read()
}

// Recent returns the last n run log entries, oldest first.
func (s *Scheduler) Recent(n int) ([]Entry, error) {
	return s.runLog.Recent(n)
}

// NextRun returns the first hour:minute wall-clock instant in loc strictly after now.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}

// ParseDailyAt parses a "15:04" wall-clock time.
func ParseDailyAt(v string) (int, int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid daily time %q: %w", v, err)
	}
	return t.Hour(), t.Minute(), nil
}

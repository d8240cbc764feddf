package scheduler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sortir/internal/domain"
)

const (
	StatusStart   = "start"
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Entry is one parsed line of the run log.
type Entry struct {
	Time       time.Time `json:"time"`
	Level      string    `json:"level"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	Trigger    string    `json:"trigger"`
	TargetDate string    `json:"targetDate"`
	DurationMS int64     `json:"durationMs,omitempty"`
	Fetched    int       `json:"fetched,omitempty"`
	Saved      int       `json:"saved,omitempty"`
	Updated    int       `json:"updated,omitempty"`
	Errors     int       `json:"errors,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// RunLog is an append-only JSON-lines file of synchronization runs.
type RunLog struct {
	path   string
	file   *os.File
	logger zerolog.Logger
}

func OpenRunLog(path string) (*RunLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}

	return &RunLog{
		path:   path,
		file:   f,
		logger: zerolog.New(f).With().Timestamp().Logger(),
	}, nil
}

func (l *RunLog) Start(trigger, targetDate string) {
	l.write(l.logger.Info(), StatusStart, trigger, targetDate).
		Msg("synchronization started")
}

func (l *RunLog) Success(trigger, targetDate string, elapsed time.Duration, stats domain.CrawlStats) {
	l.write(l.logger.Info(), StatusSuccess, trigger, targetDate).
		Int64("durationMs", elapsed.Milliseconds()).
		Int("fetched", stats.Fetched).
		Int("saved", stats.Saved).
		Int("updated", stats.Updated).
		Int("errors", stats.Errors).
		Msg("synchronization completed")
}

func (l *RunLog) Failure(trigger, targetDate string, elapsed time.Duration, err error) {
	l.write(l.logger.Error(), StatusError, trigger, targetDate).
		Int64("durationMs", elapsed.Milliseconds()).
		Str("error", err.Error()).
		Msg("synchronization failed")
}

func (l *RunLog) Skipped(trigger, targetDate, reason string) {
	l.write(l.logger.Warn(), StatusSkipped, trigger, targetDate).
		Msg(reason)
}

func (l *RunLog) write(e *zerolog.Event, status, trigger, targetDate string) *zerolog.Event {
	return e.Str("status", status).Str("trigger", trigger).Str("targetDate", targetDate)
}

// Read returns the whole file.
func (l *RunLog) Read() (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", fmt.Errorf("read run log: %w", err)
	}
	return string(data), nil
}

// Recent parses the file and returns its last n entries. Malformed lines are skipped.
func (l *RunLog) Recent(n int) ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	return parseEntries(f, n)
}

func parseEntries(r io.Reader, n int) ([]Entry, error) {
	entries := make([]Entry, 0)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan run log: %w", err)
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

func (l *RunLog) Close() error {
	return l.file.Close()
}

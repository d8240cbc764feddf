package handlers

import (
	"context"
	"net/http"
	"time"

	"sortir/internal/domain"
	"sortir/internal/transport/http/dto"
	"sortir/internal/transport/http/response"
)

const (
	TriggerAPI = "api"

	defaultSyncDays = 1
	maxSyncDays     = 365
)

type syncRequest struct {
	Days *int `json:"days"`
}

type EventsHandler struct {
	syncer Syncer
	stats  EventStats
}

func NewEventsHandler(syncer Syncer, stats EventStats) *EventsHandler {
	return &EventsHandler{syncer: syncer, stats: stats}
}

// Sync crawls the requested number of days starting today and answers once
// the crawl is over. Day-level failures still give success with a non-zero
// error count.
func (h *EventsHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := decodeJSON(r, &req, true); err != nil {
		response.Err(w, r, err)
		return
	}

	days := defaultSyncDays
	if req.Days != nil {
		days = *req.Days
	}
	if days < 1 || days > maxSyncDays {
		response.Err(w, r, domain.ErrValidationMeta("invalid days", map[string]string{
			"days": "must be between 1 and 365",
		}))
		return
	}

	// A crawl outlives the server write timeout and the client connection.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})
	ctx := context.WithoutCancel(r.Context())

	result, err := h.syncer.Sync(ctx, TriggerAPI, time.Time{}, days)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	stats := result.Stats
	response.OK(w, http.StatusOK, "synchronization completed", response.Fields{
		"days":       days,
		"fetched":    stats.Fetched,
		"saved":      stats.Saved,
		"updated":    stats.Updated,
		"errors":     stats.Errors,
		"segments":   stats.Segments,
		"durationMs": stats.Duration.Milliseconds(),
	})
}

func (h *EventsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.CountAndLastSync(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	out := dto.NewEventStats(stats)
	response.OK(w, http.StatusOK, "event statistics", response.Fields{
		"total":    out.Total,
		"lastSync": out.LastSync,
	})
}

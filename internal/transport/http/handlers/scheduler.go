package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"sortir/internal/domain"
	"sortir/internal/transport/http/response"
)

const defaultRecentRuns = 20

type SchedulerHandler struct {
	scheduler Scheduler
}

func NewSchedulerHandler(s Scheduler) *SchedulerHandler {
	return &SchedulerHandler{scheduler: s}
}

func (h *SchedulerHandler) TriggerManual(w http.ResponseWriter, r *http.Request) {
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	res := h.scheduler.TriggerManual(context.WithoutCancel(r.Context()))

	fields := response.Fields{"targetDate": res.TargetDate}
	if res.Stats != nil {
		fields["stats"] = res.Stats
	}
	if !res.Success {
		status := http.StatusInternalServerError
		if res.Message == domain.ErrSyncRunning.Error() {
			status = http.StatusConflict
		}
		response.Fail(w, status, res.Message, fields)
		return
	}
	response.OK(w, http.StatusOK, res.Message, fields)
}

// Logs returns the raw run log.
func (h *SchedulerHandler) Logs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.scheduler.Logs()
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "scheduler logs", response.Fields{"logs": logs})
}

// Runs returns the last parsed run log entries.
func (h *SchedulerHandler) Runs(w http.ResponseWriter, r *http.Request) {
	n := defaultRecentRuns
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 500 {
			response.Err(w, r, domain.ErrValidationMeta("invalid limit", map[string]string{
				"limit": "must be an integer between 1 and 500",
			}))
			return
		}
		n = v
	}

	entries, err := h.scheduler.Recent(n)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "scheduler runs", response.Fields{"runs": entries})
}

package handlers

import (
	"net/http"

	"sortir/internal/transport/http/response"
)

type HealthHandler struct {
	checker HealthChecker
}

func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	report := h.checker.Check(r.Context())
	fields := response.Fields{"uptime": report.Uptime, "checks": report.Checks}
	if !report.Healthy {
		response.Fail(w, http.StatusServiceUnavailable, "unhealthy", fields)
		return
	}
	response.OK(w, http.StatusOK, "healthy", fields)
}

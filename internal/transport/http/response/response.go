// Package response writes the JSON envelope shared by every endpoint:
// {"success": bool, "code": <http status>, "message": string, ...fields}.
package response

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"sortir/internal/domain"
)

// Fields are merged into the top level of the envelope.
type Fields map[string]any

func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func envelope(success bool, status int, message string, fields Fields) map[string]any {
	body := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = success
	body["code"] = status
	body["message"] = message
	return body
}

func OK(w http.ResponseWriter, status int, message string, fields Fields) {
	JSON(w, status, envelope(true, status, message, fields))
}

func Fail(w http.ResponseWriter, status int, message string, fields Fields) {
	JSON(w, status, envelope(false, status, message, fields))
}

// Err maps err to a failure envelope. Application errors carry their own
// message and details; anything else is logged and reported as a 500
// without its text.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	var ae *domain.AppError
	switch {
	case errors.As(err, &ae):
		var fields Fields
		if len(ae.Meta) > 0 {
			fields = Fields{"errors": ae.Meta}
		}
		Fail(w, StatusFromCode(ae.Code), ae.Message, fields)
	case errors.Is(err, domain.ErrSyncRunning):
		Fail(w, http.StatusConflict, domain.ErrSyncRunning.Error(), nil)
	case errors.Is(err, domain.ErrNotFoundRecord):
		Fail(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, domain.ErrMissingAPIKey):
		Fail(w, http.StatusServiceUnavailable, domain.ErrMissingAPIKey.Error(), nil)
	default:
		slog.ErrorContext(r.Context(), "unhandled error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
		)
		Fail(w, http.StatusInternalServerError, "internal error", nil)
	}
}

func StatusFromCode(code domain.ErrCode) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

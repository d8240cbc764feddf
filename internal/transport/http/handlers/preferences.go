package handlers

import (
	"net/http"

	"sortir/internal/account"
	"sortir/internal/classification"
	"sortir/internal/transport/http/dto"
	"sortir/internal/transport/http/middleware"
	"sortir/internal/transport/http/response"
)

type PreferencesHandler struct {
	svc PreferenceService
}

func NewPreferencesHandler(svc PreferenceService) *PreferencesHandler {
	return &PreferencesHandler{svc: svc}
}

func (h *PreferencesHandler) List(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.svc.List(r.Context(), middleware.UserID(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "preferences", response.Fields{"preferences": dto.NewPreferences(prefs)})
}

// Replace swaps the caller's preference set for the one in the body.
func (h *PreferencesHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var in account.PreferencesInput
	if err := decodeJSON(r, &in, false); err != nil {
		response.Err(w, r, err)
		return
	}

	prefs, err := h.svc.Replace(r.Context(), middleware.UserID(r), in)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "preferences updated", response.Fields{"preferences": dto.NewPreferences(prefs)})
}

func Classifications(w http.ResponseWriter, r *http.Request) {
	response.OK(w, http.StatusOK, "classifications", response.Fields{
		"segments":        classification.Segments(),
		"classifications": classification.All(),
	})
}

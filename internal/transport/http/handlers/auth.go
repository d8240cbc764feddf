package handlers

import (
	"net/http"

	"sortir/internal/account"
	"sortir/internal/transport/http/dto"
	"sortir/internal/transport/http/middleware"
	"sortir/internal/transport/http/response"
)

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in account.RegisterInput
	if err := decodeJSON(r, &in, false); err != nil {
		response.Err(w, r, err)
		return
	}

	user, err := h.svc.Register(r.Context(), in)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusCreated, "user registered", response.Fields{"user": dto.NewUser(user)})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in account.LoginInput
	if err := decodeJSON(r, &in, false); err != nil {
		response.Err(w, r, err)
		return
	}

	session, err := h.svc.Login(r.Context(), in)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "logged in", response.Fields{
		"token":     session.Token,
		"expiresAt": dto.Timestamp(session.ExpiresAt),
		"user":      dto.NewUser(session.User),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), middleware.Token(r)); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Profile(r.Context(), middleware.UserID(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "profile", response.Fields{"user": dto.NewUser(user)})
}

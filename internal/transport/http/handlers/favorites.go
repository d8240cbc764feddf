package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sortir/internal/transport/http/dto"
	"sortir/internal/transport/http/middleware"
	"sortir/internal/transport/http/response"
)

type FavoritesHandler struct {
	svc FavoriteService
}

func NewFavoritesHandler(svc FavoriteService) *FavoritesHandler {
	return &FavoritesHandler{svc: svc}
}

func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	favs, err := h.svc.List(r.Context(), middleware.UserID(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "favorites", response.Fields{"favorites": dto.NewFavorites(favs)})
}

func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	created, err := h.svc.Add(r.Context(), middleware.UserID(r), chi.URLParam(r, "externalId"))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if created {
		response.OK(w, http.StatusCreated, "favorite added", nil)
		return
	}
	response.OK(w, http.StatusOK, "already in favorites", nil)
}

func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), middleware.UserID(r), chi.URLParam(r, "externalId")); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, http.StatusOK, "favorite removed", nil)
}

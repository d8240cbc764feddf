package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"sortir/internal/feed"
	"sortir/internal/transport/http/dto"
	"sortir/internal/transport/http/middleware"
	"sortir/internal/transport/http/response"
)

type FeedHandler struct {
	svc          FeedService
	defaultLimit int
	maxLimit     int
}

func NewFeedHandler(svc FeedService, defaultLimit, maxLimit int) *FeedHandler {
	return &FeedHandler{svc: svc, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

func (h *FeedHandler) page(r *http.Request) (feed.Page, error) {
	q := r.URL.Query()
	return feed.ParsePage(q.Get("page"), q.Get("limit"), h.defaultLimit, h.maxLimit)
}

func (h *FeedHandler) Personalized(w http.ResponseWriter, r *http.Request) {
	p, err := h.page(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	h.write(w, r, "personalized feed")(h.svc.Personalized(r.Context(), middleware.UserID(r), p))
}

func (h *FeedHandler) Discovery(w http.ResponseWriter, r *http.Request) {
	p, err := h.page(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	h.write(w, r, "discovery feed")(h.svc.Discovery(r.Context(), middleware.UserID(r), p))
}

func (h *FeedHandler) All(w http.ResponseWriter, r *http.Request) {
	p, err := h.page(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	q := r.URL.Query()
	f := feed.Filter{
		Segment:  strings.TrimSpace(q.Get("segment")),
		Genre:    strings.TrimSpace(q.Get("genre")),
		Segments: multi(q, "segments"),
		Genres:   multi(q, "genres"),
	}
	h.write(w, r, "all events")(h.svc.All(r.Context(), f, p))
}

func (h *FeedHandler) Public(w http.ResponseWriter, r *http.Request) {
	p, err := h.page(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	h.write(w, r, "public feed")(h.svc.PublicRandom(r.Context(), p))
}

func (h *FeedHandler) write(w http.ResponseWriter, r *http.Request, message string) func(*feed.Result, error) {
	return func(res *feed.Result, err error) {
		if err != nil {
			response.Err(w, r, err)
			return
		}
		fields := response.Fields{
			"events":     dto.NewEvents(res.Events),
			"pagination": res.Pagination,
		}
		if res.Reason != "" {
			fields["reason"] = res.Reason
		}
		response.OK(w, http.StatusOK, message, fields)
	}
}

// multi collects a list parameter given as key[]=a&key[]=b, key=a&key=b or
// key=a,b.
func multi(q url.Values, key string) []string {
	var out []string
	for _, k := range []string{key + "[]", key} {
		for _, raw := range q[k] {
			for _, v := range strings.Split(raw, ",") {
				if v = strings.TrimSpace(v); v != "" {
					out = append(out, v)
				}
			}
		}
	}
	return out
}

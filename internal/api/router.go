package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /stream inside the auth group.
// fh, if non-nil, mounts the feed upload endpoints.
func NewRouter(h *Handler, fh *FeedHandler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Events CRUD. Static routes before the {id} parameter.
	r.Get("/events", h.ListEvents)
	r.Post("/events", h.CreateEvent)
	r.Get("/events/upcoming", h.Upcoming)
	r.Get("/events/today", h.Today)
	r.Get("/events/search", h.Search)
	r.Get("/events/{id}", h.GetEvent)
	r.Put("/events/{id}", h.UpdateEvent)
	r.Delete("/events/{id}", h.DeleteEvent)

	// Search and availability.
	r.Get("/search", h.Search)
	r.Get("/availability", h.Availability)

	// Calendar view.
	r.Get("/view", h.View)

	// Voice commands.
	r.Post("/voice/interpret", h.Interpret)
	r.Get("/voice/history", h.VoiceHistory)
	r.Get("/voice/analytics", h.VoiceAnalytics)

	// Analytics.
	r.Get("/analytics", h.CalendarAnalytics)

	// Feed management (auth-protected).
	if fh != nil {
		r.Get("/feeds", fh.List)
		r.Post("/feeds", fh.Upload)
		r.Delete("/feeds/{filename}", fh.Delete)
	}

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/stream", sseHandler.ServeHTTP)
	}

	return r
}

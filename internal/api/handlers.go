package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/calview"
	"github.com/starford/dagaz/internal/eventservice"
	"github.com/starford/dagaz/internal/sse"
	"github.com/starford/dagaz/internal/voiceservice"
)

// Handler holds API route handlers.
type Handler struct {
	events *eventservice.Service
	voice  *voiceservice.Service
	broker *sse.Broker

	hours    calview.WorkingHours
	slotStep time.Duration
}

// NewHandler creates a new Handler. broker may be nil when SSE is disabled.
func NewHandler(events *eventservice.Service, voice *voiceservice.Service, broker *sse.Broker, hours calview.WorkingHours, slotStep time.Duration) *Handler {
	return &Handler{events: events, voice: voice, broker: broker, hours: hours, slotStep: slotStep}
}

func (h *Handler) notify(kind, id string) {
	if h.broker != nil {
		h.broker.PublishCalendarEvent(kind, id)
	}
}

// parseTimeParam accepts RFC3339 or bare dates (2006-01-02).
func parseTimeParam(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

// parseEndParam is parseTimeParam with bare dates treated as inclusive:
// "2024-01-12" means the end of that day, not its midnight.
func parseEndParam(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, err
	}
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody("revision mismatch"))
	case errors.Is(err, apperr.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListEvents handles GET /api/events.
//
//	@Summary		List events in a date range
//	@Tags			events
//	@Produce		json
//	@Param			start	query		string	false	"Range start (RFC3339 or YYYY-MM-DD)"
//	@Param			end		query		string	false	"Range end (RFC3339 or YYYY-MM-DD)"
//	@Success		200		{object}	EventListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/events [get]
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Default to the current calendar month.
	now := time.Now()
	rangeStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	rangeEnd := rangeStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	if v := q.Get("start"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid 'start' parameter"))
			return
		}
		rangeStart = t
	}
	if v := q.Get("end"); v != "" {
		t, err := parseEndParam(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid 'end' parameter"))
			return
		}
		rangeEnd = t
	}

	events, err := h.events.List(r.Context(), rangeStart, rangeEnd)
	if err != nil {
		writeServiceError(w, "list events", err)
		return
	}
	writeJSON(w, http.StatusOK, EventListResponse{Events: events, Total: len(events)})
}

// CreateEvent handles POST /api/events.
//
//	@Summary		Create a new event
//	@Tags			events
//	@Accept			json
//	@Produce		json
//	@Param			body	body		EventRequest	true	"Event to create"
//	@Success		201		{object}	models.Event
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/events [post]
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	ev, err := h.events.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, "create event", err)
		return
	}
	h.notify("created", ev.ID)
	writeJSON(w, http.StatusCreated, ev)
}

// GetEvent handles GET /api/events/{id}.
//
//	@Summary		Get a single event by ID
//	@Tags			events
//	@Produce		json
//	@Param			id	path		string	true	"Event ID"
//	@Success		200	{object}	models.Event
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/events/{id} [get]
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ev, err := h.events.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get event", err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// UpdateEvent handles PUT /api/events/{id}.
//
//	@Summary		Update an event with optimistic concurrency
//	@Tags			events
//	@Accept			json
//	@Produce		json
//	@Param			id			path	string			true	"Event ID"
//	@Param			If-Match	header	string			false	"Revision token for optimistic concurrency"
//	@Param			body		body	EventRequest	true	"Updated event"
//	@Success		200			{object}	models.Event
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/events/{id} [put]
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	ifMatch := r.Header.Get("If-Match")
	// Strip surrounding quotes if present (standard ETag format).
	if len(ifMatch) >= 2 && ifMatch[0] == '"' && ifMatch[len(ifMatch)-1] == '"' {
		ifMatch = ifMatch[1 : len(ifMatch)-1]
	}

	ev, err := h.events.Update(r.Context(), id, req, ifMatch)
	if err != nil {
		writeServiceError(w, "update event", err)
		return
	}
	h.notify("updated", ev.ID)
	writeJSON(w, http.StatusOK, ev)
}

// DeleteEvent handles DELETE /api/events/{id}.
//
//	@Summary		Delete an event
//	@Tags			events
//	@Param			id	path	string	true	"Event ID"
//	@Success		204	"Event deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/events/{id} [delete]
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.events.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "delete event", err)
		return
	}
	h.notify("deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across events
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	EventListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.events.Search(r.Context(), q, limit)
	if err != nil {
		writeServiceError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, EventListResponse{Events: events, Total: len(events)})
}

// Upcoming handles GET /api/events/upcoming.
//
//	@Summary		List the next upcoming events
//	@Tags			events
//	@Produce		json
//	@Param			limit	query		int	false	"Max results"
//	@Success		200		{object}	EventListResponse
//	@Security		BearerAuth
//	@Router			/events/upcoming [get]
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 10
	}
	events, err := h.events.Upcoming(r.Context(), limit)
	if err != nil {
		writeServiceError(w, "upcoming events", err)
		return
	}
	writeJSON(w, http.StatusOK, EventListResponse{Events: events, Total: len(events)})
}

// Today handles GET /api/events/today.
//
//	@Summary		List events starting today
//	@Tags			events
//	@Produce		json
//	@Success		200	{object}	EventListResponse
//	@Security		BearerAuth
//	@Router			/events/today [get]
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.Today(r.Context())
	if err != nil {
		writeServiceError(w, "today's events", err)
		return
	}
	writeJSON(w, http.StatusOK, EventListResponse{Events: events, Total: len(events)})
}

// Availability handles GET /api/availability.
//
//	@Summary		Check whether a time slot is free
//	@Tags			events
//	@Produce		json
//	@Param			start	query		string	true	"Slot start (RFC3339)"
//	@Param			end		query		string	true	"Slot end (RFC3339)"
//	@Success		200		{object}	AvailabilityResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/availability [get]
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	slotStart, err := parseTimeParam(q.Get("start"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid 'start' parameter"))
		return
	}
	slotEnd, err := parseTimeParam(q.Get("end"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid 'end' parameter"))
		return
	}

	avail, err := h.events.CheckAvailability(r.Context(), slotStart, slotEnd)
	if err != nil {
		writeServiceError(w, "availability", err)
		return
	}
	writeJSON(w, http.StatusOK, avail)
}

// CalendarAnalytics handles GET /api/analytics.
//
//	@Summary		Calendar activity summary over a trailing window
//	@Tags			analytics
//	@Produce		json
//	@Param			days	query		int	false	"Window in days (default 30)"
//	@Success		200		{object}	eventservice.Analytics
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/analytics [get]
func (h *Handler) CalendarAnalytics(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = 30
	}
	a, err := h.events.Analytics(r.Context(), days)
	if err != nil {
		writeServiceError(w, "calendar analytics", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

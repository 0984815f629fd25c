package api

import (
	"net/http"

	"github.com/starford/dagaz/internal/calview"
	"github.com/starford/dagaz/internal/query"
)

// View handles GET /api/view.
//
//	@Summary		Calendar view payload: ranged events grouped by day with grid geometry
//	@Tags			view
//	@Produce		json
//	@Param			view	query		string	false	"View granularity"	Enums(month, week, day, agenda)
//	@Param			date	query		string	false	"Anchor date (RFC3339 or YYYY-MM-DD); defaults to today"
//	@Success		200		{object}	ViewResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/view [get]
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	view := calview.ViewMonth
	if v := q.Get("view"); v != "" {
		parsed, err := calview.ParseView(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		view = parsed
	}

	m := calview.NewManager(
		calview.WithWorkingHours(h.hours),
		calview.WithSlotStep(h.slotStep),
	)
	m.SetView(view)
	if v := q.Get("date"); v != "" {
		anchor, err := parseTimeParam(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid 'date' parameter"))
			return
		}
		m.GoToDate(anchor)
	}

	dr := m.DateRange()
	// The range end is a midnight; extend it to cover the whole last day.
	events, err := h.events.List(r.Context(), dr.Start, dr.End.AddDate(0, 0, 1))
	if err != nil {
		writeServiceError(w, "view events", err)
		return
	}

	byDay := query.GroupByDay(events)
	days := make([]DayEvents, 0, len(m.Days()))
	for _, d := range m.Days() {
		key := d.Format("2006-01-02")
		positioned := make([]PositionedEvent, 0, len(byDay[key]))
		for _, ev := range byDay[key] {
			positioned = append(positioned, PositionedEvent{
				Event:    ev,
				Position: calview.EventPosition(ev, m.WorkingHours()),
			})
		}
		days = append(days, DayEvents{Date: key, Events: positioned})
	}

	writeJSON(w, http.StatusOK, ViewResponse{
		View:         string(m.View()),
		Range:        dr,
		Days:         days,
		TimeSlots:    m.TimeSlots(),
		WorkingHours: m.WorkingHours(),
	})
}

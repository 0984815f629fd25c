// Package calview holds per-session calendar navigation state and derives
// date ranges, day sequences, and time-grid geometry from it.
package calview

import (
	"fmt"
	"time"
)

// View is the granularity of the calendar display.
type View string

// Supported views. Agenda has no stepping granularity of its own and
// inherits week semantics for range computation.
const (
	ViewMonth  View = "month"
	ViewWeek   View = "week"
	ViewDay    View = "day"
	ViewAgenda View = "agenda"
)

// ParseView validates a view name from an external surface.
func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewMonth, ViewWeek, ViewDay, ViewAgenda:
		return View(s), nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// DateRange is an inclusive day-granularity range, derived from a Manager on
// demand and never stored. Start and End are midnights in the range's
// location.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// WorkingHours bounds the visible time grid, in whole hours of the day.
type WorkingHours struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Manager is the navigation state machine for one calendar session. It is
// not safe for concurrent use; each session owns exactly one Manager and
// serializes its own navigation calls.
type Manager struct {
	view    View
	current time.Time

	hours    WorkingHours
	slotStep time.Duration
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithWorkingHours overrides the default 9-17 working-hours bound.
func WithWorkingHours(h WorkingHours) Option {
	return func(m *Manager) { m.hours = h }
}

// WithSlotStep overrides the default 30-minute time-slot step.
func WithSlotStep(step time.Duration) Option {
	return func(m *Manager) { m.slotStep = step }
}

// WithClock overrides the time source used by GoToToday. Tests use this to
// pin "now".
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager anchored on the current moment in month view.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		view:     ViewMonth,
		hours:    WorkingHours{Start: 9, End: 17},
		slotStep: 30 * time.Minute,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.current = m.now()
	return m
}

// View returns the active view granularity.
func (m *Manager) View() View { return m.view }

// Current returns the anchor date.
func (m *Manager) Current() time.Time { return m.current }

// SetView switches granularity explicitly; the anchor date is unchanged.
func (m *Manager) SetView(v View) { m.view = v }

// GoToNext advances the anchor by one unit of the current view's
// granularity.
func (m *Manager) GoToNext() { m.current = m.step(1) }

// GoToPrevious retreats the anchor by one unit; it is the exact inverse of
// GoToNext.
func (m *Manager) GoToPrevious() { m.current = m.step(-1) }

// GoToToday resets the anchor to the current moment without changing view.
func (m *Manager) GoToToday() { m.current = m.now() }

// GoToDate sets the anchor directly. Any date, past or future, is legal.
func (m *Manager) GoToDate(d time.Time) { m.current = d }

func (m *Manager) step(dir int) time.Time {
	switch m.view {
	case ViewMonth:
		return m.current.AddDate(0, dir, 0)
	case ViewDay:
		return m.current.AddDate(0, 0, dir)
	default: // week and agenda step by week
		return m.current.AddDate(0, 0, 7*dir)
	}
}

// DateRange computes the active inclusive day range for the current view:
// the full calendar month, the ISO week (Monday start), or the single
// anchor day. Agenda uses the week range.
func (m *Manager) DateRange() DateRange {
	day := midnight(m.current)
	switch m.view {
	case ViewMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		last := first.AddDate(0, 1, -1)
		return DateRange{Start: first, End: last}
	case ViewDay:
		return DateRange{Start: day, End: day}
	default:
		monday := day.AddDate(0, 0, -mondayOffset(day))
		return DateRange{Start: monday, End: monday.AddDate(0, 0, 6)}
	}
}

// Days expands the active range into its ordered day sequence. Every
// element lies within the range inclusive; day view yields one element.
func (m *Manager) Days() []time.Time {
	r := m.DateRange()
	var out []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// WorkingHours returns the configured time-grid bound.
func (m *Manager) WorkingHours() WorkingHours { return m.hours }

// TimeSlots generates the grid's slot labels between the working-hours
// bounds at the configured step. Deterministic and independent of the
// anchor date.
func (m *Manager) TimeSlots() []string {
	var out []string
	start := time.Duration(m.hours.Start) * time.Hour
	end := time.Duration(m.hours.End) * time.Hour
	for at := start; at < end; at += m.slotStep {
		h := int(at / time.Hour)
		min := int(at % time.Hour / time.Minute)
		out = append(out, fmt.Sprintf("%02d:%02d", h, min))
	}
	return out
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mondayOffset returns days since the most recent Monday (0 on Monday).
func mondayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

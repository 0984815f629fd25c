// Package query provides pure functions over event collections: filtering,
// sorting, grouping, overlap testing, and duration formatting. Nothing here
// mutates its input; every function returns a derived collection.
package query

import (
	"fmt"
	"sort"
	"time"

	"github.com/starford/dagaz/internal/models"
)

// DayKey is the grouping key format for GroupByDay.
const DayKey = "2006-01-02"

// InRange returns the events intersecting [rangeStart, rangeEnd], inclusive
// on both ends: an event is included iff start <= rangeEnd && end >=
// rangeStart. Boundary-touching events are kept, unlike Overlaps.
func InRange(events []models.Event, rangeStart, rangeEnd time.Time) []models.Event {
	var out []models.Event
	for _, ev := range events {
		if !ev.StartTime.After(rangeEnd) && !ev.EndTime.Before(rangeStart) {
			out = append(out, ev)
		}
	}
	return out
}

// OnDay returns the events whose start time falls on the same calendar day
// as ref. This is day equality of the start only: an event spilling over
// from the previous day is excluded even if it is still running on ref's
// day.
func OnDay(events []models.Event, ref time.Time) []models.Event {
	y, m, d := ref.Date()
	var out []models.Event
	for _, ev := range events {
		ey, em, ed := ev.StartTime.Date()
		if ey == y && em == m && ed == d {
			out = append(out, ev)
		}
	}
	return out
}

// SortByStart returns a copy sorted by start time ascending. The sort is
// stable: events with equal start times retain their input order.
func SortByStart(events []models.Event) []models.Event {
	out := make([]models.Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// GroupByDay partitions events into a map keyed by the yyyy-MM-dd of their
// start time. Every input event appears in exactly one group, and each
// group is sorted by start time.
func GroupByDay(events []models.Event) map[string][]models.Event {
	groups := make(map[string][]models.Event)
	for _, ev := range events {
		key := ev.StartTime.Format(DayKey)
		groups[key] = append(groups[key], ev)
	}
	for key, g := range groups {
		groups[key] = SortByStart(g)
	}
	return groups
}

// Overlaps reports whether two events share any strictly-interior moment:
// a.start < b.end && b.start < a.end. Back-to-back events, where one's end
// equals the other's start, do not overlap. Symmetric in its arguments.
func Overlaps(a, b models.Event) bool {
	return a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime)
}

// Duration returns the event's length in whole minutes.
func Duration(ev models.Event) int {
	return int(ev.EndTime.Sub(ev.StartTime) / time.Minute)
}

// FormatDuration renders a minute count as "Xm" under an hour, "XhYm"
// (minutes omitted when zero) under a day, and "Xd" from a day up.
func FormatDuration(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm", minutes)
	case minutes < 24*60:
		h, m := minutes/60, minutes%60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	default:
		return fmt.Sprintf("%dd", minutes/(24*60))
	}
}

// Upcoming returns up to limit events starting strictly after now, sorted
// ascending. A non-positive limit means no truncation.
func Upcoming(events []models.Event, now time.Time, limit int) []models.Event {
	var future []models.Event
	for _, ev := range events {
		if ev.StartTime.After(now) {
			future = append(future, ev)
		}
	}
	future = SortByStart(future)
	if limit > 0 && len(future) > limit {
		future = future[:limit]
	}
	return future
}

// TodaysEvents returns the events starting on now's calendar day, sorted.
func TodaysEvents(events []models.Event, now time.Time) []models.Event {
	return SortByStart(OnDay(events, now))
}

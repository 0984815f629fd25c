package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/starford/dagaz/internal/checksum"
	"github.com/starford/dagaz/internal/models"
)

// defaultOccurrenceCap bounds expansion of a single recurring event so a
// pathological RRULE cannot flood the store.
const defaultOccurrenceCap = 1000

// Window is the inclusive time range that expansion is bounded to.
type Window struct {
	Start time.Time
	End   time.Time

	// Cap limits occurrences per recurring event; zero means the default.
	Cap int
}

// Expand turns parsed feed events into concrete store events inside the
// window. Recurring events are expanded via their RRULE with EXDATEs
// removed; every occurrence gets a deterministic ID derived from
// (source, UID, instance), so re-importing the same feed is idempotent.
func Expand(events []ParsedEvent, source string, w Window) ([]models.Event, error) {
	if w.End.Before(w.Start) {
		return nil, fmt.Errorf("ics: expand window end before start")
	}
	maxOcc := w.Cap
	if maxOcc <= 0 {
		maxOcc = defaultOccurrenceCap
	}

	var out []models.Event
	for _, ev := range events {
		if ev.RawRRule == "" {
			if ev.Start.After(w.End) || ev.End.Before(w.Start) {
				continue
			}
			out = append(out, makeEvent(ev, source, ev.Start, ev.End))
			continue
		}

		r, err := rrule.StrToRRule(ev.RawRRule)
		if err != nil {
			return nil, fmt.Errorf("ics: parse RRULE for %s: %w", ev.UID, err)
		}
		r.DTStart(ev.Start)

		var set rrule.Set
		set.RRule(r)
		for _, ex := range ev.ExDates {
			set.ExDate(ex.In(ev.Start.Location()))
		}

		starts := set.Between(w.Start.In(ev.Start.Location()), w.End.In(ev.Start.Location()), true)
		if len(starts) > maxOcc {
			starts = starts[:maxOcc]
		}

		dur := ev.End.Sub(ev.Start)
		for _, occStart := range starts {
			occEnd := occStart.Add(dur)
			if ev.AllDay {
				day := time.Date(occStart.Year(), occStart.Month(), occStart.Day(), 0, 0, 0, 0, occStart.Location())
				occStart, occEnd = day, day.Add(24*time.Hour)
			}
			out = append(out, makeEvent(ev, source, occStart, occEnd))
		}
	}
	return out, nil
}

func makeEvent(ev ParsedEvent, source string, start, end time.Time) models.Event {
	instance := start.UTC().Format(time.RFC3339)
	id := checksum.Sum([]byte(source + "|" + ev.UID + "|" + instance))[:16]
	return models.Event{
		ID:          id,
		Title:       ev.Summary,
		Description: ev.Description,
		StartTime:   start,
		EndTime:     end,
		AllDay:      ev.AllDay,
		Location:    ev.Location,
		EventType:   models.TypeMeeting,
		Priority:    models.PriorityMedium,
		Status:      models.StatusConfirmed,
		Source:      source,
		UID:         ev.UID,
		InstanceKey: instance,
		Revision:    id,
		UpdatedAt:   time.Now(),
	}
}

package voiceservice

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/eventservice"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/nlp"
)

// fillerWords are dropped when deriving a search query from a transcript.
// Intent trigger words are included so "cancel my meeting" searches for
// "meeting", not "cancel".
var fillerWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "my": {}, "me": {}, "please": {},
	"to": {}, "for": {}, "on": {}, "at": {}, "in": {}, "of": {}, "with": {},
	"schedule": {}, "book": {}, "plan": {}, "set": {}, "up": {},
	"create": {}, "add": {}, "cancel": {}, "delete": {}, "remove": {},
	"clear": {}, "reschedule": {}, "move": {}, "postpone": {}, "push": {},
	"back": {}, "remind": {}, "reminder": {}, "alert": {}, "notify": {},
	"show": {}, "view": {}, "display": {}, "list": {},
}

// showFromCommand lists the events the command asks about. The spoken date
// picks the day; "week" and "month" phrases widen the range accordingly.
// No date defaults to today.
func (s *Service) showFromCommand(ctx context.Context, interp nlp.Interpretation) ([]models.Event, time.Time, error) {
	now := s.now()
	dateValue := interp.Command.Parameters[string(nlp.EntityDate)]

	day, ok := resolveDate(dateValue, now)
	if !ok {
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}

	end := day.AddDate(0, 0, 1)
	switch {
	case strings.Contains(dateValue, "week"):
		end = day.AddDate(0, 0, 7)
	case strings.Contains(dateValue, "month"):
		end = day.AddDate(0, 1, 0)
	}

	events, err := s.events.List(ctx, day, end)
	if err != nil {
		return nil, time.Time{}, err
	}
	return events, day, nil
}

// cancelFromCommand deletes the first stored event matching the command's
// target phrase.
func (s *Service) cancelFromCommand(ctx context.Context, interp nlp.Interpretation) (models.Event, error) {
	ev, err := s.findTarget(ctx, interp)
	if err != nil {
		return models.Event{}, err
	}
	if err := s.events.Delete(ctx, ev.ID); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// rescheduleFromCommand moves the matched event to the date and/or time
// named in the command, preserving its duration. At least one of date or
// time must have been spoken.
func (s *Service) rescheduleFromCommand(ctx context.Context, interp nlp.Interpretation) (models.Event, error) {
	ev, err := s.findTarget(ctx, interp)
	if err != nil {
		return models.Event{}, err
	}

	params := interp.Command.Parameters
	now := s.now()

	day, dateOK := resolveDate(params[string(nlp.EntityDate)], now)
	hour, minute := ev.StartTime.Hour(), ev.StartTime.Minute()
	clockOK := false
	if v, present := params[string(nlp.EntityTime)]; present {
		if h, m, parsed := resolveClock(v); parsed {
			hour, minute, clockOK = h, m, true
		}
	}
	if !dateOK && !clockOK {
		return models.Event{}, fmt.Errorf("%w: no date or time in command", apperr.ErrInvalidInput)
	}
	if !dateOK {
		day = time.Date(ev.StartTime.Year(), ev.StartTime.Month(), ev.StartTime.Day(),
			0, 0, 0, 0, ev.StartTime.Location())
	}

	start := day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	dur := ev.EndTime.Sub(ev.StartTime)

	in := eventservice.EventInput{
		Title:        ev.Title,
		Description:  ev.Description,
		StartTime:    start,
		EndTime:      start.Add(dur),
		AllDay:       ev.AllDay,
		Location:     ev.Location,
		EventType:    ev.EventType,
		Priority:     ev.Priority,
		VoiceCreated: ev.VoiceCreated,
	}
	return s.events.Update(ctx, ev.ID, in, "")
}

// findTarget resolves the event a cancel/reschedule command refers to:
// the transcript minus entity spans and filler words becomes a search
// query; the earliest-starting hit wins. Whole-phrase search is tried
// first, then individual words, longest first.
func (s *Service) findTarget(ctx context.Context, interp nlp.Interpretation) (models.Event, error) {
	words := targetWords(interp)
	if len(words) == 0 {
		return models.Event{}, fmt.Errorf("%w: no event named in command", apperr.ErrInvalidInput)
	}

	queries := []string{strings.Join(words, " ")}
	if len(words) > 1 {
		sorted := append([]string(nil), words...)
		sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
		queries = append(queries, sorted...)
	}

	for _, q := range queries {
		hits, err := s.events.Search(ctx, q, 5)
		if err != nil {
			return models.Event{}, err
		}
		if len(hits) > 0 {
			return hits[0], nil
		}
	}
	return models.Event{}, fmt.Errorf("%w: no event matches command", apperr.ErrNotFound)
}

// targetWords returns the transcript's content words: entity spans (dates,
// times, durations, people, locations) and filler words are removed.
func targetWords(interp nlp.Interpretation) []string {
	text := []byte(interp.Normalized)
	for _, e := range interp.Entities {
		for i := e.Start; i < e.End && i < len(text); i++ {
			text[i] = ' '
		}
	}

	var words []string
	for _, w := range strings.Fields(string(text)) {
		if _, skip := fillerWords[w]; skip {
			continue
		}
		words = append(words, w)
	}
	return words
}

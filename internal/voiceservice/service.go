// Package voiceservice runs the voice command pipeline: interpretation,
// execution against the calendar, and command history.
package voiceservice

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/checksum"
	"github.com/starford/dagaz/internal/eventservice"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/nlp"
	"github.com/starford/dagaz/internal/store"
)

// defaultEventDuration is used when a schedule command names no duration.
const defaultEventDuration = time.Hour

// responses maps each intent to its spoken reply. The schedule reply is
// specialized when an event was actually created.
var responses = map[nlp.IntentType]string{
	nlp.IntentSchedule:   "I'll help you create that event.",
	nlp.IntentShow:       "Here's your calendar view.",
	nlp.IntentCancel:     "I'll help you delete that event.",
	nlp.IntentReschedule: "I'll help you update that event.",
	nlp.IntentReminder:   "I'll set that reminder for you.",
	nlp.IntentUnknown:    "I didn't understand that command. Could you please repeat?",
}

// Result is the full outcome of one voice command. Event is set when the
// command created, moved, or deleted a single event; Events when it queried
// a range.
type Result struct {
	Interpretation nlp.Interpretation `json:"interpretation"`
	Response       string             `json:"response"`
	Success        bool               `json:"success"`
	Event          *models.Event      `json:"event,omitempty"`
	Events         []models.Event     `json:"events,omitempty"`
}

// Service runs voice commands against the calendar.
type Service struct {
	events *eventservice.Service
	db     store.EventStore
	now    func() time.Time
}

// NewService creates a new voice service.
func NewService(events *eventservice.Service, db store.EventStore) *Service {
	return &Service{events: events, db: db, now: time.Now}
}

// Interpret runs the full pipeline over a transcript: interpretation,
// execution of actionable commands, and history recording. transcript
// confidence below the caller's threshold is the caller's concern; an
// unrecognized command is a successful interpretation with an unknown
// intent, not an error.
func (s *Service) Interpret(ctx context.Context, t models.Transcript) (Result, error) {
	if strings.TrimSpace(t.Text) == "" {
		return Result{}, fmt.Errorf("%w: empty transcript", apperr.ErrInvalidInput)
	}

	interp := nlp.Interpret(t.Text)
	res := Result{
		Interpretation: interp,
		Response:       responses[interp.Intent.Type],
		Success:        interp.Intent.Type != nlp.IntentUnknown,
	}

	// Execute actionable commands. Execution failures leave the canned
	// response in place: a command that names no usable target still
	// counts as understood, and the caller can follow up for details.
	switch interp.Intent.Type {
	case nlp.IntentSchedule, nlp.IntentReminder:
		if ev, err := s.scheduleFromCommand(ctx, interp); err == nil {
			res.Event = &ev
			res.Response = fmt.Sprintf("Scheduled %q for %s.", ev.Title, ev.StartTime.Format("Monday, January 2 at 3:04 PM"))
		}
	case nlp.IntentShow:
		if evs, day, err := s.showFromCommand(ctx, interp); err == nil {
			res.Events = evs
			if len(evs) == 0 {
				res.Response = fmt.Sprintf("You have nothing scheduled for %s.", day.Format("Monday, January 2"))
			} else {
				res.Response = fmt.Sprintf("You have %d event(s) starting %s.", len(evs), day.Format("Monday, January 2"))
			}
		}
	case nlp.IntentCancel:
		if ev, err := s.cancelFromCommand(ctx, interp); err == nil {
			res.Event = &ev
			res.Response = fmt.Sprintf("Cancelled %q.", ev.Title)
		}
	case nlp.IntentReschedule:
		if ev, err := s.rescheduleFromCommand(ctx, interp); err == nil {
			res.Event = &ev
			res.Response = fmt.Sprintf("Moved %q to %s.", ev.Title, ev.StartTime.Format("Monday, January 2 at 3:04 PM"))
		}
	}

	if err := s.record(t, interp, res.Success); err != nil {
		return Result{}, err
	}
	return res, nil
}

// scheduleFromCommand builds and creates an event from the parsed command
// parameters, using now as the reference for relative dates.
func (s *Service) scheduleFromCommand(ctx context.Context, interp nlp.Interpretation) (models.Event, error) {
	params := interp.Command.Parameters
	now := s.now()

	day, ok := resolveDate(params[string(nlp.EntityDate)], now)
	if !ok {
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}

	hour, minute := 9, 0 // morning default when no time was spoken
	clockOK := false
	if v, present := params[string(nlp.EntityTime)]; present {
		if h, m, parsed := resolveClock(v); parsed {
			hour, minute, clockOK = h, m, true
		}
	}
	if !ok && !clockOK {
		return models.Event{}, fmt.Errorf("%w: no date or time in command", apperr.ErrInvalidInput)
	}
	start := day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)

	dur := defaultEventDuration
	allDay := false
	if v, present := params[string(nlp.EntityDuration)]; present {
		if d, parsed := resolveDuration(v); parsed {
			dur = d
		} else if v == "all day" {
			allDay = true
			start = day
			dur = 24 * time.Hour
		}
	}

	in := eventservice.EventInput{
		Title:        scheduleTitle(interp),
		StartTime:    start,
		EndTime:      start.Add(dur),
		AllDay:       allDay,
		Location:     params[string(nlp.EntityLocation)],
		EventType:    models.TypeMeeting,
		Priority:     models.PriorityMedium,
		VoiceCreated: true,
	}
	if interp.Intent.Type == nlp.IntentReminder {
		in.EventType = models.TypeReminder
	}
	return s.events.Create(ctx, in)
}

// scheduleTitle derives an event title from the command: "Meeting with
// <person>" when a person was named, otherwise the transcript itself.
func scheduleTitle(interp nlp.Interpretation) string {
	if person, ok := interp.Command.Parameters[string(nlp.EntityPerson)]; ok {
		return "Meeting with " + titleCase(person)
	}
	if interp.Intent.Type == nlp.IntentReminder {
		return "Reminder: " + interp.Normalized
	}
	return titleCase(interp.Normalized)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (s *Service) record(t models.Transcript, interp nlp.Interpretation, success bool) error {
	now := s.now()
	id := checksum.Sum([]byte(t.Text + "|" + strconv.FormatInt(now.UnixNano(), 10)))[:16]
	return s.db.RecordVoiceCommand(models.VoiceCommand{
		ID:         id,
		Transcript: t.Text,
		Intent:     string(interp.Intent.Type),
		Confidence: interp.Intent.Confidence,
		Action:     interp.Command.Action,
		Success:    success,
		CreatedAt:  now,
	})
}

// History returns recorded voice commands, newest first, plus the total
// count.
func (s *Service) History(_ context.Context, limit, offset int) ([]models.VoiceCommand, int, error) {
	return s.db.VoiceHistory(limit, offset)
}

// Analytics aggregates voice usage over the last `days` days.
func (s *Service) Analytics(_ context.Context, days int) (store.VoiceStats, error) {
	if days <= 0 {
		return store.VoiceStats{}, fmt.Errorf("%w: days must be positive", apperr.ErrInvalidInput)
	}
	return s.db.VoiceUsage(s.now().AddDate(0, 0, -days))
}

// Package eventservice coordinates event storage, availability checks, and
// calendar analytics.
package eventservice

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/checksum"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/query"
	"github.com/starford/dagaz/internal/store"
)

// EventInput carries the caller-editable fields of an event.
type EventInput struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	AllDay       bool      `json:"all_day"`
	Location     string    `json:"location"`
	EventType    string    `json:"event_type"`
	Priority     string    `json:"priority"`
	VoiceCreated bool      `json:"voice_created"`
}

// Availability is the result of a free/busy check.
type Availability struct {
	Available bool           `json:"available"`
	Conflicts []models.Event `json:"conflicts"`
}

// Service coordinates the event store.
type Service struct {
	db  store.EventStore
	now func() time.Time
}

// NewService creates a new event service.
func NewService(db store.EventStore) *Service {
	return &Service{db: db, now: time.Now}
}

// Create validates and stores a new event.
func (s *Service) Create(_ context.Context, in EventInput) (models.Event, error) {
	if err := validateInput(in); err != nil {
		return models.Event{}, err
	}

	now := s.now()
	ev := eventFromInput(in)
	ev.ID = checksum.Sum([]byte(in.Title + "|" + in.StartTime.UTC().Format(time.RFC3339Nano) + "|" + strconv.FormatInt(now.UnixNano(), 10)))[:16]
	ev.Status = models.StatusConfirmed
	ev.UpdatedAt = now
	ev.Revision = revision(ev)

	if err := s.db.UpsertEvent(ev); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// Get returns a single event by ID.
func (s *Service) Get(_ context.Context, id string) (models.Event, error) {
	return s.db.GetEvent(id)
}

// Update rewrites an event's editable fields with optimistic concurrency:
// when ifMatch is non-empty it must equal the stored revision.
func (s *Service) Update(_ context.Context, id string, in EventInput, ifMatch string) (models.Event, error) {
	if err := validateInput(in); err != nil {
		return models.Event{}, err
	}

	existing, err := s.db.GetEvent(id)
	if err != nil {
		return models.Event{}, err
	}
	if ifMatch != "" && ifMatch != existing.Revision {
		return models.Event{}, apperr.ErrConflict
	}

	ev := eventFromInput(in)
	ev.ID = existing.ID
	ev.Status = existing.Status
	ev.Source = existing.Source
	ev.UID = existing.UID
	ev.InstanceKey = existing.InstanceKey
	ev.VoiceCreated = existing.VoiceCreated || in.VoiceCreated
	ev.UpdatedAt = s.now()
	ev.Revision = revision(ev)

	if err := s.db.UpsertEvent(ev); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// Delete removes an event.
func (s *Service) Delete(_ context.Context, id string) error {
	return s.db.DeleteEvent(id)
}

// List returns events intersecting the inclusive range, sorted by start.
func (s *Service) List(_ context.Context, rangeStart, rangeEnd time.Time) ([]models.Event, error) {
	if rangeEnd.Before(rangeStart) {
		return nil, fmt.Errorf("%w: range end before start", apperr.ErrInvalidInput)
	}
	events, err := s.db.ListEvents(rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	return query.SortByStart(events), nil
}

// Search delegates full-text search to the store.
func (s *Service) Search(_ context.Context, q string, limit int) ([]models.Event, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: empty search query", apperr.ErrInvalidInput)
	}
	return s.db.SearchEvents(q, limit)
}

// Upcoming returns the next events strictly after now, up to limit.
func (s *Service) Upcoming(_ context.Context, limit int) ([]models.Event, error) {
	now := s.now()
	events, err := s.db.ListEvents(now, now.AddDate(1, 0, 0))
	if err != nil {
		return nil, err
	}
	return query.Upcoming(events, now, limit), nil
}

// Today returns events that start today.
func (s *Service) Today(_ context.Context) ([]models.Event, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	events, err := s.db.ListEvents(dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	return query.TodaysEvents(events, now), nil
}

// CheckAvailability reports whether the slot is free and which events
// conflict with it. All-day events do not block a slot.
func (s *Service) CheckAvailability(_ context.Context, slotStart, slotEnd time.Time) (Availability, error) {
	if !slotEnd.After(slotStart) {
		return Availability{}, fmt.Errorf("%w: slot end must be after start", apperr.ErrInvalidInput)
	}

	events, err := s.db.ListEvents(slotStart, slotEnd)
	if err != nil {
		return Availability{}, err
	}

	slot := models.Event{StartTime: slotStart, EndTime: slotEnd}
	conflicts := []models.Event{}
	for _, ev := range events {
		if ev.AllDay || ev.Status == models.StatusCancelled {
			continue
		}
		if query.Overlaps(slot, ev) {
			conflicts = append(conflicts, ev)
		}
	}
	return Availability{Available: len(conflicts) == 0, Conflicts: conflicts}, nil
}

func eventFromInput(in EventInput) models.Event {
	ev := models.Event{
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		AllDay:       in.AllDay,
		Location:     in.Location,
		EventType:    in.EventType,
		Priority:     in.Priority,
		VoiceCreated: in.VoiceCreated,
	}
	if ev.EventType == "" {
		ev.EventType = models.TypeMeeting
	}
	if ev.Priority == "" {
		ev.Priority = models.PriorityMedium
	}
	return ev
}

func validateInput(in EventInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", apperr.ErrInvalidInput)
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return fmt.Errorf("%w: start and end times are required", apperr.ErrInvalidInput)
	}
	if !in.EndTime.After(in.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", apperr.ErrInvalidInput)
	}
	return nil
}

// revision derives an opaque revision token from the event's content, so
// unchanged content yields a stable token.
func revision(ev models.Event) string {
	fields := strings.Join([]string{
		ev.ID, ev.Title, ev.Description,
		ev.StartTime.UTC().Format(time.RFC3339Nano),
		ev.EndTime.UTC().Format(time.RFC3339Nano),
		strconv.FormatBool(ev.AllDay),
		ev.Location, ev.EventType, ev.Priority, ev.Status,
		ev.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}, "|")
	return checksum.Sum([]byte(fields))[:16]
}

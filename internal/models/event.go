// Package models defines the domain types for Dagaz.
package models

import "time"

// Event priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Event types.
const (
	TypeMeeting     = "meeting"
	TypeAppointment = "appointment"
	TypeReminder    = "reminder"
	TypeTask        = "task"
)

// Event statuses.
const (
	StatusConfirmed = "confirmed"
	StatusTentative = "tentative"
	StatusCancelled = "cancelled"
)

// Event represents a single calendar event. StartTime is always strictly
// before EndTime; the creating service enforces this, downstream query code
// assumes it.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	AllDay      bool      `json:"all_day"`
	Location    string    `json:"location,omitempty"`
	EventType   string    `json:"event_type"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`

	// VoiceCreated marks events that originated from a voice command.
	VoiceCreated bool `json:"voice_created"`

	// Source and UID identify events imported from an ICS feed. InstanceKey
	// distinguishes occurrences of a recurring event; empty for one-offs and
	// locally created events.
	Source      string `json:"source,omitempty"`
	UID         string `json:"uid,omitempty"`
	InstanceKey string `json:"instance_key,omitempty"`

	// Revision is an opaque token used for optimistic concurrency on updates.
	Revision  string    `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
}

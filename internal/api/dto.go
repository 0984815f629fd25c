package api

import (
	"github.com/starford/dagaz/internal/calview"
	"github.com/starford/dagaz/internal/eventservice"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/voiceservice"
)

// EventRequest is the request body for creating or updating an event.
type EventRequest = eventservice.EventInput

// EventListResponse wraps a ranged event listing.
type EventListResponse struct {
	Events []models.Event `json:"events" validate:"required"`
	Total  int            `json:"total" example:"12" validate:"required"`
}

// InterpretRequest is the request body for a voice command.
type InterpretRequest struct {
	Transcript string  `json:"transcript" example:"Schedule a meeting with John tomorrow at 2 pm" validate:"required"`
	Confidence float64 `json:"confidence" example:"0.95"`
}

// InterpretResponse is the full result of one voice command (aliased from
// the domain layer).
type InterpretResponse = voiceservice.Result

// VoiceHistoryResponse wraps paginated voice command history.
type VoiceHistoryResponse struct {
	Commands []models.VoiceCommand `json:"commands" validate:"required"`
	Total    int                   `json:"total" example:"42" validate:"required"`
}

// AvailabilityResponse reports a free/busy check (aliased from the domain
// layer).
type AvailabilityResponse = eventservice.Availability

// DayEvents is one day's events in a view response, with render geometry
// for the time grid.
type DayEvents struct {
	Date   string            `json:"date" example:"2024-01-15"`
	Events []PositionedEvent `json:"events"`
}

// PositionedEvent pairs an event with its position on the day's time grid.
type PositionedEvent struct {
	models.Event
	Position calview.Position `json:"position"`
}

// ViewResponse is the full payload for rendering one calendar view.
type ViewResponse struct {
	View         string               `json:"view" example:"week"`
	Range        calview.DateRange    `json:"range"`
	Days         []DayEvents          `json:"days"`
	TimeSlots    []string             `json:"time_slots"`
	WorkingHours calview.WorkingHours `json:"working_hours"`
}

// FeedUploadResponse is returned after a successful feed upload.
type FeedUploadResponse struct {
	Filename string `json:"filename" example:"work.ics" validate:"required"`
	Size     int64  `json:"size" example:"12345" validate:"required"`
	Events   int    `json:"events" example:"20" validate:"required"`
}

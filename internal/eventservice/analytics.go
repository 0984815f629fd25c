package eventservice

import (
	"context"
	"fmt"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/query"
)

// Analytics summarizes calendar activity over a trailing window.
type Analytics struct {
	PeriodDays      int            `json:"period_days"`
	TotalEvents     int            `json:"total_events"`
	ByType          map[string]int `json:"by_type"`
	ByPriority      map[string]int `json:"by_priority"`
	AvgDurationMins float64        `json:"avg_duration_minutes"`
	BusiestDay      string         `json:"busiest_day"`
	BusiestDayCount int            `json:"busiest_day_count"`
	VoiceCreated    int            `json:"voice_created"`
}

// Analytics aggregates events from the last `days` days. All-day events are
// excluded from the average duration since they would dominate it.
func (s *Service) Analytics(_ context.Context, days int) (Analytics, error) {
	if days <= 0 {
		return Analytics{}, fmt.Errorf("%w: days must be positive", apperr.ErrInvalidInput)
	}

	now := s.now()
	events, err := s.db.ListEvents(now.AddDate(0, 0, -days), now)
	if err != nil {
		return Analytics{}, err
	}

	out := Analytics{
		PeriodDays:  days,
		TotalEvents: len(events),
		ByType:      map[string]int{},
		ByPriority:  map[string]int{},
	}

	var durTotal, durCount int
	for _, ev := range events {
		out.ByType[ev.EventType]++
		out.ByPriority[ev.Priority]++
		if ev.VoiceCreated {
			out.VoiceCreated++
		}
		if !ev.AllDay {
			durTotal += query.Duration(ev)
			durCount++
		}
	}
	if durCount > 0 {
		out.AvgDurationMins = float64(durTotal) / float64(durCount)
	}

	for day, evs := range query.GroupByDay(events) {
		if len(evs) > out.BusiestDayCount || (len(evs) == out.BusiestDayCount && day < out.BusiestDay) {
			out.BusiestDay = day
			out.BusiestDayCount = len(evs)
		}
	}

	return out, nil
}

package voiceservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/eventservice"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/nlp"
	"github.com/starford/dagaz/internal/store"
	"github.com/starford/dagaz/internal/testutil"
)

// Monday.
var testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func testService(t *testing.T) (*Service, store.EventStore) {
	t.Helper()
	db := testutil.TestDB(t)
	s := NewService(eventservice.NewService(db), db)
	s.now = func() time.Time { return testNow }
	return s, db
}

func TestInterpretSchedulesEvent(t *testing.T) {
	s, _ := testService(t)

	res, err := s.Interpret(context.Background(), models.Transcript{
		Text: "Schedule a meeting with John tomorrow at 2 pm", Confidence: 0.95,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatal("expected success")
	}
	if res.Interpretation.Intent.Type != nlp.IntentSchedule {
		t.Fatalf("intent = %s", res.Interpretation.Intent.Type)
	}
	if res.Event == nil {
		t.Fatal("expected a created event")
	}
	if res.Event.Title != "Meeting with John" {
		t.Errorf("Title = %q", res.Event.Title)
	}
	want := time.Date(2024, 1, 16, 14, 0, 0, 0, time.UTC)
	if !res.Event.StartTime.Equal(want) {
		t.Errorf("StartTime = %v, want %v", res.Event.StartTime, want)
	}
	if got := res.Event.EndTime.Sub(res.Event.StartTime); got != time.Hour {
		t.Errorf("duration = %v, want default 1h", got)
	}
	if !res.Event.VoiceCreated {
		t.Error("VoiceCreated = false")
	}
}

func TestInterpretDurationAndLocation(t *testing.T) {
	s, _ := testService(t)

	res, err := s.Interpret(context.Background(), models.Transcript{
		Text: "Book a session in the green room on friday at 10:30 am for 45 minutes",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Event == nil {
		t.Fatal("expected a created event")
	}
	if res.Event.Location != "green room" {
		t.Errorf("Location = %q", res.Event.Location)
	}
	if got := res.Event.EndTime.Sub(res.Event.StartTime); got != 45*time.Minute {
		t.Errorf("duration = %v, want 45m", got)
	}
	// Friday of the same week.
	if res.Event.StartTime.Weekday() != time.Friday {
		t.Errorf("weekday = %v, want Friday", res.Event.StartTime.Weekday())
	}
}

func TestInterpretReminder(t *testing.T) {
	s, _ := testService(t)

	res, err := s.Interpret(context.Background(), models.Transcript{
		Text: "Remind me to call the dentist tomorrow at 9 am",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Interpretation.Intent.Type != nlp.IntentReminder {
		t.Fatalf("intent = %s", res.Interpretation.Intent.Type)
	}
	if res.Event == nil {
		t.Fatal("expected a created reminder")
	}
	if res.Event.EventType != models.TypeReminder {
		t.Errorf("EventType = %q", res.Event.EventType)
	}
}

func TestInterpretCancelsEvent(t *testing.T) {
	s, _ := testService(t)
	ctx := context.Background()

	ev, err := s.events.Create(ctx, eventservice.EventInput{
		Title:     "Dentist appointment",
		StartTime: time.Date(2024, 1, 18, 15, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 1, 18, 16, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := s.Interpret(ctx, models.Transcript{Text: "Cancel my dentist appointment"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Interpretation.Intent.Type != nlp.IntentCancel {
		t.Fatalf("intent = %s", res.Interpretation.Intent.Type)
	}
	if res.Event == nil || res.Event.ID != ev.ID {
		t.Fatal("expected the matched event in the result")
	}
	if _, err := s.events.Get(ctx, ev.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("event still stored after cancel: %v", err)
	}
}

func TestInterpretCancelNoMatch(t *testing.T) {
	s, _ := testService(t)

	res, err := s.Interpret(context.Background(), models.Transcript{Text: "Cancel my dentist appointment"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Event != nil {
		t.Error("cancel with no stored events produced an event")
	}
	if res.Response != responses[nlp.IntentCancel] {
		t.Errorf("Response = %q, want canned cancel reply", res.Response)
	}
}

func TestInterpretReschedulesEvent(t *testing.T) {
	s, _ := testService(t)
	ctx := context.Background()

	ev, err := s.events.Create(ctx, eventservice.EventInput{
		Title:     "Team standup",
		StartTime: time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 1, 16, 9, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := s.Interpret(ctx, models.Transcript{Text: "Move my team standup to friday at 2 pm"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Interpretation.Intent.Type != nlp.IntentReschedule {
		t.Fatalf("intent = %s", res.Interpretation.Intent.Type)
	}
	if res.Event == nil {
		t.Fatal("expected the moved event in the result")
	}
	want := time.Date(2024, 1, 19, 14, 0, 0, 0, time.UTC)
	if !res.Event.StartTime.Equal(want) {
		t.Errorf("StartTime = %v, want %v", res.Event.StartTime, want)
	}
	if got := res.Event.EndTime.Sub(res.Event.StartTime); got != 30*time.Minute {
		t.Errorf("duration = %v, want preserved 30m", got)
	}

	stored, err := s.events.Get(ctx, ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.StartTime.Equal(want) {
		t.Errorf("stored StartTime = %v, want %v", stored.StartTime, want)
	}
}

func TestInterpretShowListsEvents(t *testing.T) {
	s, _ := testService(t)
	ctx := context.Background()

	if _, err := s.events.Create(ctx, eventservice.EventInput{
		Title:     "Budget review",
		StartTime: time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 1, 16, 11, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatal(err)
	}

	res, err := s.Interpret(ctx, models.Transcript{Text: "Show my calendar for tomorrow"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Interpretation.Intent.Type != nlp.IntentShow {
		t.Fatalf("intent = %s", res.Interpretation.Intent.Type)
	}
	if len(res.Events) != 1 || res.Events[0].Title != "Budget review" {
		t.Fatalf("Events = %+v, want the tomorrow event", res.Events)
	}
}

func TestInterpretUnknown(t *testing.T) {
	s, _ := testService(t)

	res, err := s.Interpret(context.Background(), models.Transcript{Text: "What is the weather like"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Success {
		t.Error("unknown command marked successful")
	}
	if res.Event != nil {
		t.Error("unknown command created an event")
	}
	if res.Response != responses[nlp.IntentUnknown] {
		t.Errorf("Response = %q", res.Response)
	}
}

func TestInterpretEmptyTranscript(t *testing.T) {
	s, _ := testService(t)
	if _, err := s.Interpret(context.Background(), models.Transcript{Text: "  "}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestHistoryAndAnalytics(t *testing.T) {
	s, _ := testService(t)
	ctx := context.Background()

	for _, text := range []string{
		"Schedule a meeting tomorrow at 2 pm",
		"Show my calendar for today",
		"What is the weather like",
	} {
		if _, err := s.Interpret(ctx, models.Transcript{Text: text}); err != nil {
			t.Fatal(err)
		}
	}

	history, total, err := s.History(ctx, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(history) != 3 {
		t.Fatalf("history = %d/%d, want 3/3", len(history), total)
	}

	stats, err := s.Analytics(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalCommands != 3 {
		t.Errorf("TotalCommands = %d", stats.TotalCommands)
	}
	if stats.SuccessfulCommands != 2 {
		t.Errorf("SuccessfulCommands = %d", stats.SuccessfulCommands)
	}
	if stats.IntentDistribution["schedule"] != 1 || stats.IntentDistribution["unknown"] != 1 {
		t.Errorf("IntentDistribution = %v", stats.IntentDistribution)
	}

	if _, err := s.Analytics(ctx, 0); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("zero days err = %v, want ErrInvalidInput", err)
	}
}

func TestResolveDate(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
		ok    bool
	}{
		{"today", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"tomorrow", time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), true},
		{"friday", time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC), true},
		{"monday", time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC), true}, // today is Monday: next one
		{"next friday", time.Date(2024, 1, 26, 0, 0, 0, 0, time.UTC), true},
		{"next week", time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC), true},
		{"january 20", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), true},
		{"january 10", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), true}, // already past: next year
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"someday", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := resolveDate(tt.value, testNow)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveClock(t *testing.T) {
	tests := []struct {
		value        string
		hour, minute int
		ok           bool
	}{
		{"2 pm", 14, 0, true},
		{"2pm", 14, 0, true},
		{"12 pm", 12, 0, true},
		{"12 am", 0, 0, true},
		{"14:30", 14, 30, true},
		{"2:30 pm", 14, 30, true},
		{"noon", 12, 0, true},
		{"midnight", 0, 0, true},
		{"25:00", 0, 0, false},
		{"whenever", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			h, m, ok := resolveClock(tt.value)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (h != tt.hour || m != tt.minute) {
				t.Errorf("got %d:%02d, want %d:%02d", h, m, tt.hour, tt.minute)
			}
		})
	}
}

func TestResolveDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
		ok    bool
	}{
		{"30 minutes", 30 * time.Minute, true},
		{"45 mins", 45 * time.Minute, true},
		{"2 hours", 2 * time.Hour, true},
		{"1 hr", time.Hour, true},
		{"half an hour", 30 * time.Minute, true},
		{"an hour", time.Hour, true},
		{"all day", 0, false},
		{"a while", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := resolveDuration(tt.value)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

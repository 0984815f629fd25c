package eventservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/testutil"
)

var testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func testService(t *testing.T) *Service {
	t.Helper()
	s := NewService(testutil.TestDB(t))
	s.now = func() time.Time { return testNow }
	return s
}

func validInput() EventInput {
	return EventInput{
		Title:     "Dentist appointment",
		StartTime: time.Date(2024, 1, 16, 14, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 1, 16, 15, 0, 0, 0, time.UTC),
		EventType: models.TypeAppointment,
		Priority:  models.PriorityHigh,
	}
}

func TestCreateAndGet(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, validInput())
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Revision == "" {
		t.Fatalf("missing ID or revision: %+v", created)
	}
	if created.Status != models.StatusConfirmed {
		t.Errorf("Status = %q", created.Status)
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Dentist appointment" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Revision != created.Revision {
		t.Errorf("revision changed on read: %q vs %q", got.Revision, created.Revision)
	}
}

func TestCreateValidation(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*EventInput)
	}{
		{"empty title", func(in *EventInput) { in.Title = "  " }},
		{"zero start", func(in *EventInput) { in.StartTime = time.Time{} }},
		{"end before start", func(in *EventInput) { in.EndTime = in.StartTime.Add(-time.Hour) }},
		{"end equals start", func(in *EventInput) { in.EndTime = in.StartTime }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			if _, err := s.Create(ctx, in); !errors.Is(err, apperr.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCreateDefaults(t *testing.T) {
	s := testService(t)

	in := validInput()
	in.EventType = ""
	in.Priority = ""
	created, err := s.Create(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if created.EventType != models.TypeMeeting {
		t.Errorf("EventType = %q, want meeting", created.EventType)
	}
	if created.Priority != models.PriorityMedium {
		t.Errorf("Priority = %q, want medium", created.Priority)
	}
}

func TestUpdateRevisionCheck(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, validInput())
	if err != nil {
		t.Fatal(err)
	}

	in := validInput()
	in.Title = "Dentist follow-up"

	if _, err := s.Update(ctx, created.ID, in, "stale-revision"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("stale revision err = %v, want ErrConflict", err)
	}

	updated, err := s.Update(ctx, created.ID, in, created.Revision)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Dentist follow-up" {
		t.Errorf("Title = %q", updated.Title)
	}
	if updated.Revision == created.Revision {
		t.Error("revision did not change after update")
	}

	// Empty If-Match skips the check.
	in.Title = "Dentist again"
	if _, err := s.Update(ctx, created.ID, in, ""); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateMissing(t *testing.T) {
	s := testService(t)
	if _, err := s.Update(context.Background(), "nope", validInput(), ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, validInput())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, created.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestListSorted(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	for _, hour := range []int{15, 9, 12} {
		in := validInput()
		in.Title = "Slot"
		in.StartTime = time.Date(2024, 1, 16, hour, 0, 0, 0, time.UTC)
		in.EndTime = in.StartTime.Add(time.Hour)
		if _, err := s.Create(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	events, err := s.List(ctx,
		time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].StartTime.Before(events[i-1].StartTime) {
			t.Errorf("events out of order at %d", i)
		}
	}
}

func TestListInvalidRange(t *testing.T) {
	s := testService(t)
	_, err := s.List(context.Background(), testNow, testNow.Add(-time.Hour))
	if !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestUpcomingAndToday(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	mk := func(title string, start time.Time) {
		t.Helper()
		in := validInput()
		in.Title = title
		in.StartTime = start
		in.EndTime = start.Add(time.Hour)
		if _, err := s.Create(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	mk("This morning", testNow.Add(-3*time.Hour)) // today but already started
	mk("Later today", testNow.Add(2*time.Hour))
	mk("Tomorrow", testNow.Add(26*time.Hour))

	up, err := s.Upcoming(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(up) != 2 {
		t.Fatalf("upcoming = %d, want 2", len(up))
	}
	if up[0].Title != "Later today" {
		t.Errorf("first upcoming = %q", up[0].Title)
	}

	up1, err := s.Upcoming(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(up1) != 1 {
		t.Fatalf("limited upcoming = %d, want 1", len(up1))
	}

	today, err := s.Today(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(today) != 2 {
		t.Fatalf("today = %d, want 2", len(today))
	}
}

func TestCheckAvailability(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	in := validInput()
	in.Title = "Standup"
	in.StartTime = time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC)
	in.EndTime = time.Date(2024, 1, 16, 10, 30, 0, 0, time.UTC)
	if _, err := s.Create(ctx, in); err != nil {
		t.Fatal(err)
	}

	allDay := validInput()
	allDay.Title = "Conference day"
	allDay.AllDay = true
	allDay.StartTime = time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	allDay.EndTime = time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)
	if _, err := s.Create(ctx, allDay); err != nil {
		t.Fatal(err)
	}

	// Overlapping the standup: busy.
	busy, err := s.CheckAvailability(ctx,
		time.Date(2024, 1, 16, 10, 15, 0, 0, time.UTC),
		time.Date(2024, 1, 16, 11, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if busy.Available || len(busy.Conflicts) != 1 {
		t.Fatalf("busy = %+v, want one conflict", busy)
	}

	// Back-to-back with the standup: free, and the all-day event is ignored.
	free, err := s.CheckAvailability(ctx,
		time.Date(2024, 1, 16, 10, 30, 0, 0, time.UTC),
		time.Date(2024, 1, 16, 11, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if !free.Available {
		t.Fatalf("free = %+v, want available", free)
	}

	if _, err := s.CheckAvailability(ctx, testNow, testNow); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("zero slot err = %v, want ErrInvalidInput", err)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	s := testService(t)
	if _, err := s.Search(context.Background(), "  ", 10); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestAnalytics(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	mk := func(title, typ, prio string, start time.Time, dur time.Duration, allDay, voice bool) {
		t.Helper()
		in := EventInput{
			Title: title, EventType: typ, Priority: prio,
			StartTime: start, EndTime: start.Add(dur),
			AllDay: allDay, VoiceCreated: voice,
		}
		if _, err := s.Create(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	day1 := testNow.Add(-48 * time.Hour)
	day2 := testNow.Add(-24 * time.Hour)
	mk("Sync", models.TypeMeeting, models.PriorityMedium, day1, 30*time.Minute, false, false)
	mk("Review", models.TypeMeeting, models.PriorityHigh, day1.Add(2*time.Hour), 90*time.Minute, false, true)
	mk("Dentist", models.TypeAppointment, models.PriorityHigh, day2, time.Hour, false, false)
	mk("Offsite", models.TypeMeeting, models.PriorityLow, day2.Add(3*time.Hour), 8*time.Hour, true, false)

	a, err := s.Analytics(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if a.TotalEvents != 4 {
		t.Errorf("TotalEvents = %d, want 4", a.TotalEvents)
	}
	if a.ByType[models.TypeMeeting] != 3 || a.ByType[models.TypeAppointment] != 1 {
		t.Errorf("ByType = %v", a.ByType)
	}
	if a.ByPriority[models.PriorityHigh] != 2 {
		t.Errorf("ByPriority = %v", a.ByPriority)
	}
	// All-day offsite excluded: (30 + 90 + 60) / 3 = 60.
	if a.AvgDurationMins != 60 {
		t.Errorf("AvgDurationMins = %v, want 60", a.AvgDurationMins)
	}
	if a.BusiestDay != day1.Format("2006-01-02") || a.BusiestDayCount != 2 {
		t.Errorf("BusiestDay = %q (%d)", a.BusiestDay, a.BusiestDayCount)
	}
	if a.VoiceCreated != 1 {
		t.Errorf("VoiceCreated = %d, want 1", a.VoiceCreated)
	}

	if _, err := s.Analytics(ctx, 0); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("zero days err = %v, want ErrInvalidInput", err)
	}
}

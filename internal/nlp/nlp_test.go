package nlp

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Schedule a Meeting!", "schedule a meeting"},
		{"  what   is\tthe weather? ", "what is the weather"},
		{"cancel. my, lunch", "cancel my lunch"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExtractEntities_ScheduleUtterance(t *testing.T) {
	text := Normalize("Schedule a meeting with John tomorrow at 2 pm")
	ents := ExtractEntities(text)

	byType := map[EntityType][]Entity{}
	for _, e := range ents {
		byType[e.Type] = append(byType[e.Type], e)
	}

	if len(byType[EntityPerson]) != 1 || byType[EntityPerson][0].Value != "john" {
		t.Errorf("person entities = %v, want [john]", byType[EntityPerson])
	}
	if len(byType[EntityDate]) != 1 || byType[EntityDate][0].Value != "tomorrow" {
		t.Errorf("date entities = %v, want [tomorrow]", byType[EntityDate])
	}
	if len(byType[EntityTime]) != 1 || byType[EntityTime][0].Value != "2 pm" {
		t.Errorf("time entities = %v, want [2 pm]", byType[EntityTime])
	}
}

func TestExtractEntities_SpanInvariant(t *testing.T) {
	text := Normalize("book lunch with sarah in the main cafe on 2024-03-15 for 45 minutes")
	for _, e := range ExtractEntities(text) {
		if e.Start < 0 || e.Start >= e.End || e.End > len(text) {
			t.Errorf("entity %+v violates 0 <= start < end <= len", e)
		}
		if text[e.Start:e.End] != e.Value {
			t.Errorf("entity %+v: span text %q != value", e, text[e.Start:e.End])
		}
	}
}

func TestExtractEntities_Families(t *testing.T) {
	cases := []struct {
		text string
		typ  EntityType
		want string
	}{
		{"meet at 10:30 am", EntityTime, "10:30 am"},
		{"lunch at noon", EntityTime, "noon"},
		{"standup next monday", EntityDate, "next monday"},
		{"review on january 5", EntityDate, "january 5"},
		{"block 2 hours", EntityDuration, "2 hours"},
		{"keep half an hour free", EntityDuration, "half an hour"},
		{"demo in the board room", EntityLocation, "board room"},
		{"meet in room 42", EntityLocation, "room 42"},
		{"sync with alice", EntityPerson, "alice"},
	}
	for _, c := range cases {
		ents := ExtractEntities(c.text)
		found := false
		for _, e := range ents {
			if e.Type == c.typ && e.Value == c.want {
				found = true
			}
		}
		if !found {
			t.Errorf("ExtractEntities(%q): no %s entity %q in %v", c.text, c.typ, c.want, ents)
		}
	}
}

func TestExtractEntities_Empty(t *testing.T) {
	if ents := ExtractEntities(""); len(ents) != 0 {
		t.Errorf("expected no entities for empty input, got %v", ents)
	}
}

func TestExtractEntities_PersonStopword(t *testing.T) {
	ents := ExtractEntities("meet with the team")
	for _, e := range ents {
		if e.Type == EntityPerson && e.Value == "the" {
			t.Errorf("stopword leaked as person entity: %v", e)
		}
	}
}

func TestClassifyIntent_Table(t *testing.T) {
	cases := []struct {
		text string
		want IntentType
	}{
		{"schedule a meeting with john tomorrow at 2 pm", IntentSchedule},
		{"book lunch with sarah on friday", IntentSchedule},
		{"show my calendar for next week", IntentShow},
		{"what do i have today", IntentShow},
		{"cancel my dentist appointment", IntentCancel},
		{"move my standup to 3 pm", IntentReschedule},
		{"remind me to call mom", IntentReminder},
		{"what is the weather", IntentUnknown},
		{"", IntentUnknown},
	}
	for _, c := range cases {
		got := ClassifyIntent(Normalize(c.text))
		if got.Type != c.want {
			t.Errorf("ClassifyIntent(%q) = %s, want %s", c.text, got.Type, c.want)
		}
	}
}

func TestClassifyIntent_UnknownConfidence(t *testing.T) {
	got := ClassifyIntent("what is the weather")
	if got.Type != IntentUnknown {
		t.Fatalf("intent = %s, want unknown", got.Type)
	}
	if got.Confidence != 0.1 {
		t.Errorf("confidence = %v, want 0.1", got.Confidence)
	}
}

func TestClassifyIntent_ConfidenceFormula(t *testing.T) {
	text := "schedule a meeting"
	got := ClassifyIntent(text)
	if got.Type != IntentSchedule {
		t.Fatalf("intent = %s, want schedule", got.Type)
	}
	// The whole utterance is the matched span: 18/18 + 0.3 capped at 1.0.
	if got.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", got.Confidence)
	}

	long := "schedule a meeting because the quarterly report needs to be discussed with the whole team"
	got = ClassifyIntent(long)
	want := 18.0/float64(len(long)) + 0.3
	if math.Abs(got.Confidence-want) > 1e-9 {
		t.Errorf("confidence = %v, want %v", got.Confidence, want)
	}
	if got.Confidence <= 0.3 {
		t.Errorf("confidence %v should exceed the flat bonus", got.Confidence)
	}
}

func TestClassifyIntent_Deterministic(t *testing.T) {
	text := Normalize("cancel my 3 pm meeting")
	first := ClassifyIntent(text)
	for i := 0; i < 5; i++ {
		if got := ClassifyIntent(text); got != first {
			t.Fatalf("classification not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestBuildCommand_LastWriteWins(t *testing.T) {
	intent := Intent{Type: IntentSchedule, Confidence: 0.8}
	entities := []Entity{
		{Type: EntityDate, Value: "today"},
		{Type: EntityTime, Value: "2 pm"},
		{Type: EntityDate, Value: "tomorrow"},
	}
	cmd := BuildCommand(intent, entities)
	if cmd.Action != "schedule" {
		t.Errorf("action = %q", cmd.Action)
	}
	if cmd.Parameters["date"] != "tomorrow" {
		t.Errorf("date param = %q, want tomorrow (last write wins)", cmd.Parameters["date"])
	}
	if cmd.Parameters["time"] != "2 pm" {
		t.Errorf("time param = %q", cmd.Parameters["time"])
	}
}

func TestInterpret_EndToEnd(t *testing.T) {
	res := Interpret("Schedule a meeting with John tomorrow at 2 pm")
	if res.Intent.Type != IntentSchedule {
		t.Fatalf("intent = %s", res.Intent.Type)
	}
	if res.Intent.Confidence <= 0.3 {
		t.Errorf("confidence = %v, want > 0.3", res.Intent.Confidence)
	}
	if res.Command.Parameters["person"] != "john" {
		t.Errorf("person = %q", res.Command.Parameters["person"])
	}
	if res.Command.Parameters["date"] != "tomorrow" {
		t.Errorf("date = %q", res.Command.Parameters["date"])
	}
	if res.Command.Parameters["time"] != "2 pm" {
		t.Errorf("time = %q", res.Command.Parameters["time"])
	}
}

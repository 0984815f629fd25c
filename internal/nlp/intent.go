package nlp

import "regexp"

// IntentType names the classified purpose of a voice command.
type IntentType string

// Known intents. IntentUnknown is a valid result, not an error.
const (
	IntentSchedule   IntentType = "schedule"
	IntentShow       IntentType = "show"
	IntentCancel     IntentType = "cancel"
	IntentReschedule IntentType = "reschedule"
	IntentReminder   IntentType = "reminder"
	IntentUnknown    IntentType = "unknown"
)

// Intent is the single classification result for one transcript.
type Intent struct {
	Type       IntentType `json:"type"`
	Confidence float64    `json:"confidence"`
	Raw        string     `json:"raw"`
}

// unknownConfidence is the flat score assigned when no pattern matches.
const unknownConfidence = 0.1

type intentRule struct {
	re  *regexp.Regexp
	typ IntentType
}

// intentRules is scanned linearly and the first match wins, so the declared
// order is part of the classifier's contract. Reordering entries changes
// behavior for transcripts matching more than one pattern.
var intentRules = []intentRule{
	{typ: IntentSchedule, re: regexp.MustCompile(`\b(?:schedule|book|plan|set up|create|add)\b(?:.*\b(?:meeting|appointment|event|call|lunch|dinner|session)\b)?`)},
	{typ: IntentShow, re: regexp.MustCompile(`\b(?:show|view|display|list|what do i have|what'?s on)\b.*\b(?:calendar|schedule|events?|meetings?|appointments?|agenda|today|tomorrow|week)\b`)},
	{typ: IntentCancel, re: regexp.MustCompile(`\b(?:cancel|delete|remove|clear)\b`)},
	{typ: IntentReschedule, re: regexp.MustCompile(`\b(?:reschedule|move|postpone|push back)\b`)},
	{typ: IntentReminder, re: regexp.MustCompile(`\b(?:remind me|reminder|alert|notify)\b`)},
}

// ClassifyIntent matches a normalized transcript against the intent table
// and returns exactly one Intent. Confidence rewards matches covering a
// larger fraction of the utterance, with a flat bonus, capped at 1.0.
// Deterministic: repeated calls with the same input return the same result.
func ClassifyIntent(text string) Intent {
	if text != "" {
		for _, rule := range intentRules {
			loc := rule.re.FindStringIndex(text)
			if loc == nil {
				continue
			}
			matched := loc[1] - loc[0]
			conf := float64(matched)/float64(len(text)) + 0.3
			if conf > 1.0 {
				conf = 1.0
			}
			return Intent{Type: rule.typ, Confidence: conf, Raw: text}
		}
	}
	return Intent{Type: IntentUnknown, Confidence: unknownConfidence, Raw: text}
}

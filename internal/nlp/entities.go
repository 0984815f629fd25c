package nlp

import "regexp"

// EntityType tags a recognized span in a transcript.
type EntityType string

// Entity types produced by the extractor.
const (
	EntityTime     EntityType = "time"
	EntityDate     EntityType = "date"
	EntityDuration EntityType = "duration"
	EntityLocation EntityType = "location"
	EntityPerson   EntityType = "person"
)

// Entity is a typed span of recognized meaning inside a normalized
// transcript. Start and End are byte offsets into the normalized text,
// 0 <= Start < End <= len(text).
type Entity struct {
	Type       EntityType `json:"type"`
	Value      string     `json:"value"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Confidence float64    `json:"confidence"`
}

// entityRule is one pattern in a family's tagged-rule list. When group is
// non-zero, that submatch becomes the entity value and span; otherwise the
// whole match is used.
type entityRule struct {
	re    *regexp.Regexp
	typ   EntityType
	group int
}

// Per-family confidence constants. Confidence reflects pattern family only,
// not match quality.
var familyConfidence = map[EntityType]float64{
	EntityTime:     0.9,
	EntityDate:     0.85,
	EntityDuration: 0.8,
	EntityLocation: 0.75,
	EntityPerson:   0.7,
}

// Families are evaluated independently and in this order. No family
// short-circuits another, so a transcript may yield overlapping spans or
// multiple entities of the same type.
var entityRules = []entityRule{
	// Time of day.
	{re: regexp.MustCompile(`\b\d{1,2}:\d{2}\s?(?:am|pm)?\b`), typ: EntityTime},
	{re: regexp.MustCompile(`\b\d{1,2}\s?(?:am|pm)\b`), typ: EntityTime},
	{re: regexp.MustCompile(`\b(?:noon|midnight)\b`), typ: EntityTime},

	// Calendar date, relative or absolute.
	{re: regexp.MustCompile(`\b(?:today|tomorrow|yesterday)\b`), typ: EntityDate},
	{re: regexp.MustCompile(`\b(?:next )?(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`), typ: EntityDate},
	{re: regexp.MustCompile(`\bnext (?:week|month)\b`), typ: EntityDate},
	{re: regexp.MustCompile(`\b(?:january|february|march|april|may|june|july|august|september|october|november|december) \d{1,2}\b`), typ: EntityDate},
	{re: regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`), typ: EntityDate},

	// Duration.
	{re: regexp.MustCompile(`\b\d+\s?(?:minutes?|mins?|hours?|hrs?)\b`), typ: EntityDuration},
	{re: regexp.MustCompile(`\b(?:half an hour|an hour|all day)\b`), typ: EntityDuration},

	// Location.
	{re: regexp.MustCompile(`\b(?:at|in) (?:the )?([a-z]+(?: [a-z]+)? (?:room|office|cafe|building|hall|center|lobby))\b`), typ: EntityLocation, group: 1},
	{re: regexp.MustCompile(`\b(?:room|suite) \d+\b`), typ: EntityLocation},

	// Person.
	{re: regexp.MustCompile(`\bwith ([a-z]+)\b`), typ: EntityPerson, group: 1},
}

// personStopwords filters captures of the person pattern that are articles
// or pronouns rather than names (RE2 has no lookahead, so the filter lives
// here instead of in the pattern).
var personStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "my": {}, "our": {}, "everyone": {}, "me": {},
}

// ExtractEntities scans a normalized transcript and returns all tagged
// spans. The result order follows the rule table, then match position.
// Overlapping spans across families are kept as-is; resolving them is the
// consumer's concern. An empty transcript yields an empty list.
func ExtractEntities(text string) []Entity {
	if text == "" {
		return nil
	}

	var out []Entity
	for _, rule := range entityRules {
		matches := rule.re.FindAllStringSubmatchIndex(text, -1)
		for _, m := range matches {
			start, end := m[0], m[1]
			if rule.group > 0 {
				start, end = m[2*rule.group], m[2*rule.group+1]
			}
			if start < 0 || start >= end {
				continue
			}
			value := text[start:end]
			if rule.typ == EntityPerson {
				if _, skip := personStopwords[value]; skip {
					continue
				}
			}
			out = append(out, Entity{
				Type:       rule.typ,
				Value:      value,
				Start:      start,
				End:        end,
				Confidence: familyConfidence[rule.typ],
			})
		}
	}
	return out
}

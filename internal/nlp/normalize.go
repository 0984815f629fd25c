// Package nlp implements the rule-based voice command interpreter:
// transcript normalization, entity extraction, intent classification,
// and command construction.
package nlp

import "strings"

var punctReplacer = strings.NewReplacer("?", "", "!", "", ".", "", ",", "")

// Normalize prepares a raw transcript for pattern matching: lower-case,
// collapsed whitespace, sentence punctuation stripped. All extractor and
// classifier offsets refer to the normalized form.
func Normalize(transcript string) string {
	s := strings.ToLower(strings.TrimSpace(transcript))
	s = punctReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

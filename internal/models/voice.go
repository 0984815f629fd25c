package models

import "time"

// Transcript is the immutable input from the upstream speech recognizer:
// the raw text plus the recognizer's own confidence in [0,1].
type Transcript struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// VoiceCommand is the persisted record of one processed utterance.
type VoiceCommand struct {
	ID         string    `json:"id"`
	Transcript string    `json:"transcript"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Action     string    `json:"action"`
	Success    bool      `json:"success"`
	CreatedAt  time.Time `json:"created_at"`
}

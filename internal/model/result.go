package model

import "time"

// Result is the structured scheduling information extracted from one input
// sentence. Missing fields are zero values, never errors: the extraction core
// returns partial results and leaves rejection to the caller.
type Result struct {
	EventName       string     `json:"event_name,omitempty" yaml:"event_name,omitempty"`       // Cleaned event label
	StartTime       *time.Time `json:"start_time,omitempty" yaml:"start_time,omitempty"`       // Resolved start instant
	EndTime         *time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`           // Present only for ranges
	Location        string     `json:"location,omitempty" yaml:"location,omitempty"`           // Free-text location label
	ReminderMinutes int        `json:"reminder_minutes" yaml:"reminder_minutes"`               // 0 means no reminder requested
	TimePhrase      string     `json:"time_phrase,omitempty" yaml:"time_phrase,omitempty"`     // Verbatim matched time expression
	Backends        string     `json:"backends,omitempty" yaml:"backends,omitempty"`           // "rule" or "rule+openai"
	Agreement       *Agreement `json:"agreement,omitempty" yaml:"agreement,omitempty"`         // Ensemble diagnostics only
}

// Agreement holds per-field agreement scores between the rule-based and the
// secondary backend (0.0 to 1.0, with 0.7 partial credit for substring
// containment on text fields). Diagnostic metadata; never gates acceptance.
type Agreement struct {
	Event    float64 `json:"event" yaml:"event"`
	Time     float64 `json:"time" yaml:"time"`
	Location float64 `json:"location" yaml:"location"`
	Reminder float64 `json:"reminder" yaml:"reminder"`
}

// TokenLabel is one token of a named-entity tagging run. Location entities
// use the B-LOC/I-LOC boundary convention.
type TokenLabel struct {
	Token string `json:"token"`
	Label string `json:"label"`
}

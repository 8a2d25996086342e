package model

import "time"

// Entry is one agent-authored record of the conversation log.
// Timestamp holds whatever the log line carried; use codec.ParseTimestamp
// to turn it into an instant.
type Entry struct {
	Timestamp string `json:"timestamp,omitempty"`
	Agent     string `json:"agent"`
	Type      string `json:"type,omitempty"`
	Task      string `json:"task,omitempty"`
	Content   string `json:"content"`
}

// RecentRecord fingerprints a recently accepted entry for duplicate detection.
type RecentRecord struct {
	Hash      string `json:"hash"`
	Agent     string `json:"agent"`
	Timestamp string `json:"timestamp"`
}

// FileUpdate is published when a watched file changes on disk.
type FileUpdate struct {
	File      string `json:"file"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Push event names.
const (
	EventFileUpdate = "file-update"
	EventLogUpdated = "logUpdated"
	EventLogData    = "logData"
)

// Event is a single message on the change notification channel.
type Event struct {
	Name string    `json:"event"`
	Data any       `json:"data"`
	At   time.Time `json:"-"`
}

// LogUpdated is the payload of a logUpdated event.
type LogUpdated struct {
	NewEntry Entry  `json:"newEntry"`
	Hash     string `json:"hash"`
}

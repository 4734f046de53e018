package models

import "time"

// MaxHistoryEntries caps the browser-side mood history. The server never
// stores history; it only publishes the contract below.
const MaxHistoryEntries = 10

type MoodHistoryEntry struct {
	Timestamp time.Time  `json:"timestamp"`
	Result    MoodResult `json:"result"`
}

// MoodHistory is ordered newest first; the oldest entry is evicted once the
// list is full.
type MoodHistory struct {
	Entries []MoodHistoryEntry `json:"entries" jsonschema:"maxItems=10"`
}

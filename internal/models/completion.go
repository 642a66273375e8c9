package models

import "time"

// Completion is a single recorded completion event. Completions are
// immutable once inserted; they are only ever bulk-deleted when their
// habit is removed.
type Completion struct {
	ID              int64
	HabitID         int64
	CompletionTime  time.Time
	DurationSeconds *int
	Notes           string
}

package models

import (
	"time"

	"github.com/radicool/habitkeep/internal/constants"
)

// Habit is a tracked habit definition together with its preferred times.
type Habit struct {
	ID              int64
	Name            string
	Description     string
	FrequencyType   constants.Frequency
	FrequencyCount  int
	DurationSeconds int
	Streak          int
	RewardBalance   float64
	CreatedAt       time.Time
	LastCompleted   *time.Time
	PreferredTimes  []string
}

// NewHabit holds the parameters for creating a habit. A freshly created
// habit always starts with streak 1 and a zero reward balance.
type NewHabit struct {
	Name            string
	Description     string
	FrequencyType   constants.Frequency
	FrequencyCount  int
	DurationSeconds int
	PreferredTimes  []string
}

// HabitPatch is a partial update for a habit. Nil fields are left untouched.
// A non-nil PreferredTimes fully replaces the existing set.
type HabitPatch struct {
	Name            *string
	Description     *string
	FrequencyType   *constants.Frequency
	FrequencyCount  *int
	DurationSeconds *int
	PreferredTimes  *[]string
}

// Empty reports whether the patch carries no changes at all.
func (p HabitPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.FrequencyType == nil &&
		p.FrequencyCount == nil && p.DurationSeconds == nil && p.PreferredTimes == nil
}

// Package tracker is the orchestrator the presentation layer talks to. It
// composes the habit-definitions store and the completions store, applies
// the streak classifier on each completion, and keeps the two stores
// referentially consistent when a habit is removed.
package tracker

import (
	"fmt"
	"time"

	"github.com/radicool/habitkeep/internal/constants"
	"github.com/radicool/habitkeep/internal/logger"
	"github.com/radicool/habitkeep/internal/models"
	"github.com/radicool/habitkeep/internal/storage"
	"github.com/radicool/habitkeep/internal/streak"
)

type Tracker struct {
	habits      storage.Provider
	completions storage.CompletionProvider
	now         func() time.Time
}

func New(habits storage.Provider, completions storage.CompletionProvider) *Tracker {
	return &Tracker{
		habits:      habits,
		completions: completions,
		now:         time.Now,
	}
}

// Habit definition pass-throughs.

func (t *Tracker) AddHabit(n models.NewHabit) (models.Habit, error) {
	return t.habits.AddHabit(n)
}

func (t *Tracker) GetHabit(id int64) (models.Habit, error) {
	return t.habits.GetHabit(id)
}

func (t *Tracker) GetHabitByName(name string) (models.Habit, error) {
	return t.habits.GetHabitByName(name)
}

func (t *Tracker) GetAllHabits() ([]models.Habit, error) {
	return t.habits.GetAllHabits()
}

func (t *Tracker) UpdateHabit(id int64, patch models.HabitPatch) (models.Habit, error) {
	return t.habits.UpdateHabit(id, patch)
}

func (t *Tracker) AdjustRewardBalance(id int64, delta float64) (models.Habit, error) {
	return t.habits.AdjustRewardBalance(id, delta)
}

// CompleteHabit records a completion event, reclassifies the streak against
// the habit's previous last-completed timestamp, and credits the fixed
// per-completion reward. The completion insert and the habit update are
// separate durable transactions in separate files: if the habit update
// fails after the insert succeeded, the orphaned completion is surfaced to
// the caller, not healed.
func (t *Tracker) CompleteHabit(id int64, durationSeconds *int, notes string) (models.Habit, error) {
	habit, err := t.habits.GetHabit(id)
	if err != nil {
		return models.Habit{}, err
	}

	// Fall back to the habit's duration estimate, matching how completions
	// are reported when the user doesn't time themselves.
	if durationSeconds == nil {
		d := habit.DurationSeconds
		durationSeconds = &d
	}

	now := t.now()
	if _, err := t.completions.RecordCompletion(id, now, durationSeconds, notes); err != nil {
		return models.Habit{}, fmt.Errorf("failed to record completion: %w", err)
	}

	newStreak := 1
	if habit.LastCompleted != nil && streak.IsConsecutive(*habit.LastCompleted, now, habit.FrequencyType) {
		newStreak = habit.Streak + 1
	}

	updated, err := t.habits.MarkCompleted(id, newStreak, now, constants.CompletionReward)
	if err != nil {
		// The completion row is already durable; the streak/reward update is
		// not. Surface the inconsistency rather than hiding it.
		logger.Error("completion recorded but habit update failed, orphaned completion left behind",
			"habit_id", id, "error", err)
		return models.Habit{}, fmt.Errorf("completion recorded but habit update failed: %w", err)
	}

	logger.Debug("habit completed", "habit_id", id, "streak", updated.Streak, "reward_balance", updated.RewardBalance)
	return updated, nil
}

// RemoveHabit deletes the habit definition (cascading its preferred times)
// and then purges its completions from the other store. If the purge fails
// after the definition is gone, the orphaned completions are surfaced to
// the caller, not healed.
func (t *Tracker) RemoveHabit(id int64) error {
	if err := t.habits.DeleteHabit(id); err != nil {
		return err
	}

	if err := t.completions.DeleteCompletionsForHabit(id); err != nil {
		logger.Error("habit deleted but completion purge failed, orphaned completions left behind",
			"habit_id", id, "error", err)
		return fmt.Errorf("habit deleted but completion purge failed: %w", err)
	}

	logger.Debug("habit removed", "habit_id", id)
	return nil
}

// Completion pass-throughs.

func (t *Tracker) GetCompletions(habitID int64, start, end *time.Time) ([]models.Completion, error) {
	return t.completions.GetCompletions(habitID, start, end)
}

func (t *Tracker) GetAllCompletions() ([]models.Completion, error) {
	return t.completions.GetAllCompletions()
}

// Bonus code pass-throughs.

func (t *Tracker) AddBonusCode(code string, value float64, description string, expiry *time.Time) (models.BonusCode, error) {
	return t.habits.AddBonusCode(code, value, description, expiry)
}

func (t *Tracker) GetBonusCodes(includeUsed bool) ([]models.BonusCode, error) {
	return t.habits.GetBonusCodes(includeUsed)
}

func (t *Tracker) RedeemBonusCode(code string, habitID *int64) (models.BonusCode, error) {
	return t.habits.RedeemBonusCode(code, habitID)
}

// Account pass-throughs.

func (t *Tracker) AddAccount(email string) (models.Account, error) {
	return t.habits.AddAccount(email)
}

func (t *Tracker) AccountExists() (bool, error) {
	return t.habits.AccountExists()
}

func (t *Tracker) CurrentEmail() (string, error) {
	return t.habits.CurrentEmail()
}

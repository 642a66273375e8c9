package sqlite

import (
	"testing"
	"time"

	"github.com/radicool/habitkeep/internal/constants"
	apperrors "github.com/radicool/habitkeep/internal/errors"
	"github.com/radicool/habitkeep/internal/models"
)

func TestAddHabitRoundTrip(t *testing.T) {
	s := newTestStore(t)

	created, err := s.AddHabit(models.NewHabit{
		Name:            "Morning run",
		Description:     "5k around the park",
		FrequencyType:   constants.FrequencyWeekly,
		FrequencyCount:  3,
		DurationSeconds: 1800,
		PreferredTimes:  []string{"07:00", "18:30"},
	})
	if err != nil {
		t.Fatalf("Failed to add habit: %v", err)
	}

	if created.ID == 0 {
		t.Error("Expected a non-zero habit ID")
	}
	if created.Streak != 1 {
		t.Errorf("New habit streak = %d, want 1", created.Streak)
	}
	if created.RewardBalance != 0 {
		t.Errorf("New habit reward balance = %v, want 0", created.RewardBalance)
	}
	if created.LastCompleted != nil {
		t.Error("New habit should have no last completed timestamp")
	}

	got, err := s.GetHabit(created.ID)
	if err != nil {
		t.Fatalf("Failed to get habit: %v", err)
	}
	if got.Name != "Morning run" || got.Description != "5k around the park" {
		t.Errorf("Got habit %q / %q, want name and description preserved", got.Name, got.Description)
	}
	if got.FrequencyType != constants.FrequencyWeekly || got.FrequencyCount != 3 {
		t.Errorf("Got frequency %s x%d, want weekly x3", got.FrequencyType, got.FrequencyCount)
	}
	if got.DurationSeconds != 1800 {
		t.Errorf("Got duration %d, want 1800", got.DurationSeconds)
	}
	if len(got.PreferredTimes) != 2 || got.PreferredTimes[0] != "07:00" || got.PreferredTimes[1] != "18:30" {
		t.Errorf("Got preferred times %v, want [07:00 18:30]", got.PreferredTimes)
	}
}

func TestAddHabitValidation(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name  string
		habit models.NewHabit
	}{
		{
			name:  "unknown frequency",
			habit: models.NewHabit{Name: "a", FrequencyType: "hourly", FrequencyCount: 1},
		},
		{
			name:  "zero frequency count",
			habit: models.NewHabit{Name: "a", FrequencyType: constants.FrequencyDaily, FrequencyCount: 0},
		},
		{
			name:  "negative duration",
			habit: models.NewHabit{Name: "a", FrequencyType: constants.FrequencyDaily, FrequencyCount: 1, DurationSeconds: -5},
		},
		{
			name:  "malformed preferred time",
			habit: models.NewHabit{Name: "a", FrequencyType: constants.FrequencyDaily, FrequencyCount: 1, PreferredTimes: []string{"7am"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddHabit(tt.habit)
			if !apperrors.IsValidation(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestAddHabitDuplicateName(t *testing.T) {
	s := newTestStore(t)
	addTestHabit(t, s, "Read")

	_, err := s.AddHabit(models.NewHabit{
		Name:           "Read",
		FrequencyType:  constants.FrequencyDaily,
		FrequencyCount: 1,
	})
	if !apperrors.IsDuplicate(err) {
		t.Errorf("Expected duplicate error, got %v", err)
	}
}

func TestGetHabitNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetHabit(99); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not-found error by ID, got %v", err)
	}
	if _, err := s.GetHabitByName("missing"); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not-found error by name, got %v", err)
	}
}

func TestGetAllHabitsOrdered(t *testing.T) {
	s := newTestStore(t)
	addTestHabit(t, s, "b")
	addTestHabit(t, s, "a")
	addTestHabit(t, s, "c")

	habits, err := s.GetAllHabits()
	if err != nil {
		t.Fatalf("Failed to get habits: %v", err)
	}
	if len(habits) != 3 {
		t.Fatalf("Got %d habits, want 3", len(habits))
	}
	for i := 1; i < len(habits); i++ {
		if habits[i].ID <= habits[i-1].ID {
			t.Errorf("Habits not ordered by ID: %d then %d", habits[i-1].ID, habits[i].ID)
		}
	}
}

func TestUpdateHabit(t *testing.T) {
	s := newTestStore(t)
	h := addTestHabit(t, s, "Stretch")

	name := "Stretch and mobilize"
	count := 2
	times := []string{"06:45"}
	updated, err := s.UpdateHabit(h.ID, models.HabitPatch{
		Name:           &name,
		FrequencyCount: &count,
		PreferredTimes: &times,
	})
	if err != nil {
		t.Fatalf("Failed to update habit: %v", err)
	}

	if updated.Name != name {
		t.Errorf("Got name %q, want %q", updated.Name, name)
	}
	if updated.FrequencyCount != 2 {
		t.Errorf("Got frequency count %d, want 2", updated.FrequencyCount)
	}
	if len(updated.PreferredTimes) != 1 || updated.PreferredTimes[0] != "06:45" {
		t.Errorf("Got preferred times %v, want [06:45]", updated.PreferredTimes)
	}
	// Untouched fields stay put.
	if updated.FrequencyType != constants.FrequencyDaily {
		t.Errorf("Frequency type changed unexpectedly to %s", updated.FrequencyType)
	}
}

func TestUpdateHabitNotFound(t *testing.T) {
	s := newTestStore(t)

	name := "x"
	if _, err := s.UpdateHabit(42, models.HabitPatch{Name: &name}); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestUpdateHabitDuplicateRollsBack(t *testing.T) {
	s := newTestStore(t)
	addTestHabit(t, s, "first")
	h, err := s.AddHabit(models.NewHabit{
		Name:           "second",
		FrequencyType:  constants.FrequencyDaily,
		FrequencyCount: 1,
		PreferredTimes: []string{"09:00"},
	})
	if err != nil {
		t.Fatalf("Failed to add habit: %v", err)
	}

	// Rename to a colliding name while also replacing preferred times. The
	// collision must roll back the preferred-times replacement too.
	name := "first"
	times := []string{"21:00"}
	_, err = s.UpdateHabit(h.ID, models.HabitPatch{Name: &name, PreferredTimes: &times})
	if !apperrors.IsDuplicate(err) {
		t.Fatalf("Expected duplicate error, got %v", err)
	}

	got, err := s.GetHabit(h.ID)
	if err != nil {
		t.Fatalf("Failed to get habit: %v", err)
	}
	if got.Name != "second" {
		t.Errorf("Name changed despite rollback: %q", got.Name)
	}
	if len(got.PreferredTimes) != 1 || got.PreferredTimes[0] != "09:00" {
		t.Errorf("Preferred times changed despite rollback: %v", got.PreferredTimes)
	}
}

func TestDeleteHabit(t *testing.T) {
	s := newTestStore(t)
	h, err := s.AddHabit(models.NewHabit{
		Name:           "Journal",
		FrequencyType:  constants.FrequencyDaily,
		FrequencyCount: 1,
		PreferredTimes: []string{"22:00"},
	})
	if err != nil {
		t.Fatalf("Failed to add habit: %v", err)
	}

	if err := s.DeleteHabit(h.ID); err != nil {
		t.Fatalf("Failed to delete habit: %v", err)
	}

	if _, err := s.GetHabit(h.ID); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not-found after delete, got %v", err)
	}

	var count int
	if err := s.GetDB().QueryRow("SELECT COUNT(*) FROM preferred_times WHERE habit_id = ?", h.ID).Scan(&count); err != nil {
		t.Fatalf("Failed to count preferred times: %v", err)
	}
	if count != 0 {
		t.Errorf("Preferred times not cascaded: %d rows remain", count)
	}
}

func TestDeleteHabitNotFound(t *testing.T) {
	s := newTestStore(t)

	if err := s.DeleteHabit(7); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestAdjustRewardBalance(t *testing.T) {
	s := newTestStore(t)
	h := addTestHabit(t, s, "Meditate")

	updated, err := s.AdjustRewardBalance(h.ID, 1.5)
	if err != nil {
		t.Fatalf("Failed to adjust balance: %v", err)
	}
	if updated.RewardBalance != 1.5 {
		t.Errorf("Got balance %v, want 1.5", updated.RewardBalance)
	}

	updated, err = s.AdjustRewardBalance(h.ID, 0.25)
	if err != nil {
		t.Fatalf("Failed to adjust balance: %v", err)
	}
	if updated.RewardBalance != 1.75 {
		t.Errorf("Got balance %v, want 1.75", updated.RewardBalance)
	}

	if _, err := s.AdjustRewardBalance(99, 1); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestMarkCompleted(t *testing.T) {
	s := newTestStore(t)
	h := addTestHabit(t, s, "Water plants")

	completedAt := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	updated, err := s.MarkCompleted(h.ID, 4, completedAt, 0.25)
	if err != nil {
		t.Fatalf("Failed to mark completed: %v", err)
	}

	if updated.Streak != 4 {
		t.Errorf("Got streak %d, want 4", updated.Streak)
	}
	if updated.RewardBalance != 0.25 {
		t.Errorf("Got balance %v, want 0.25", updated.RewardBalance)
	}
	if updated.LastCompleted == nil || !updated.LastCompleted.Equal(completedAt) {
		t.Errorf("Got last completed %v, want %v", updated.LastCompleted, completedAt)
	}
}

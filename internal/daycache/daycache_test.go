package daycache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/radicool/habitkeep/internal/constants"
	"github.com/radicool/habitkeep/internal/models"
)

func TestLoadCreatesDocument(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Failed to load cache: %v", err)
	}

	if c.CountFor(1) != 0 {
		t.Errorf("Fresh cache count = %d, want 0", c.CountFor(1))
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Errorf("Expected cache file to exist: %v", err)
	}
}

func TestIncrementPersists(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Failed to load cache: %v", err)
	}
	if err := c.Increment(7); err != nil {
		t.Fatalf("Failed to increment: %v", err)
	}
	if err := c.Increment(7); err != nil {
		t.Fatalf("Failed to increment: %v", err)
	}

	reloaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Failed to reload cache: %v", err)
	}
	if reloaded.CountFor(7) != 2 {
		t.Errorf("Reloaded count = %d, want 2", reloaded.CountFor(7))
	}
}

func TestStaleDocumentDiscardedOnLoad(t *testing.T) {
	dir := t.TempDir()
	stale := `{"date": "2020-01-01", "completed_habits": {"3": 5}}`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(stale), 0600); err != nil {
		t.Fatalf("Failed to write stale document: %v", err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Failed to load cache: %v", err)
	}
	if c.CountFor(3) != 0 {
		t.Errorf("Stale count survived load: %d", c.CountFor(3))
	}
}

func TestRolloverAtMidnight(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to load cache: %v", err)
	}

	day := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	c.nowFn = func() time.Time { return day }
	c.rollover()
	if err := c.Increment(1); err != nil {
		t.Fatalf("Failed to increment: %v", err)
	}
	if c.CountFor(1) != 1 {
		t.Fatalf("Count = %d, want 1", c.CountFor(1))
	}

	// Two hours later it is a new day and counters reset.
	c.nowFn = func() time.Time { return day.Add(2 * time.Hour) }
	if c.CountFor(1) != 0 {
		t.Errorf("Count after rollover = %d, want 0", c.CountFor(1))
	}
}

func TestCorruptDocumentDiscardedOnLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0600); err != nil {
		t.Fatalf("Failed to write corrupt document: %v", err)
	}

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Failed to load cache over corrupt file: %v", err)
	}
	if c.CountFor(1) != 0 {
		t.Errorf("Count = %d, want 0", c.CountFor(1))
	}
}

func TestMaxFor(t *testing.T) {
	daily := models.Habit{FrequencyType: constants.FrequencyDaily, FrequencyCount: 3}
	if got := MaxFor(daily); got != 3 {
		t.Errorf("MaxFor(daily x3) = %d, want 3", got)
	}

	// Non-daily habits allow one completion per day regardless of count.
	weekly := models.Habit{FrequencyType: constants.FrequencyWeekly, FrequencyCount: 4}
	if got := MaxFor(weekly); got != 1 {
		t.Errorf("MaxFor(weekly x4) = %d, want 1", got)
	}
}

func TestAllowedCapsCompletions(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to load cache: %v", err)
	}

	habit := models.Habit{ID: 5, FrequencyType: constants.FrequencyDaily, FrequencyCount: 2}

	if !c.Allowed(habit) {
		t.Error("Expected completion to be allowed at count 0")
	}
	if err := c.Increment(habit.ID); err != nil {
		t.Fatalf("Failed to increment: %v", err)
	}
	if !c.Allowed(habit) {
		t.Error("Expected completion to be allowed at count 1 of 2")
	}
	if err := c.Increment(habit.ID); err != nil {
		t.Fatalf("Failed to increment: %v", err)
	}
	if c.Allowed(habit) {
		t.Error("Expected completion to be blocked at the daily cap")
	}
}

func TestForget(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to load cache: %v", err)
	}

	if err := c.Increment(9); err != nil {
		t.Fatalf("Failed to increment: %v", err)
	}
	if err := c.Forget(9); err != nil {
		t.Fatalf("Failed to forget: %v", err)
	}
	if c.CountFor(9) != 0 {
		t.Errorf("Count after forget = %d, want 0", c.CountFor(9))
	}
}

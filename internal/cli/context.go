package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/radicool/habitkeep/internal/backup"
	"github.com/radicool/habitkeep/internal/logger"
	"github.com/radicool/habitkeep/internal/models"
	"github.com/radicool/habitkeep/internal/prefs"
	"github.com/radicool/habitkeep/internal/storage"
	"github.com/radicool/habitkeep/internal/tracker"
)

type Context struct {
	Tracker     *tracker.Tracker
	Habits      storage.Provider
	Completions storage.CompletionProvider
	Settings    prefs.Settings
	DataDir     string
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Habits.GetPath(), c.Completions.GetPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveHabit looks up a habit by numeric ID or by name.
func (c *Context) ResolveHabit(ref string) (models.Habit, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return c.Tracker.GetHabit(id)
	}
	return c.Tracker.GetHabitByName(ref)
}

// FormatDuration renders a duration estimate in seconds as a compact
// human-readable string.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds) * time.Second
	if d < time.Minute {
		return fmt.Sprintf("%ds", seconds)
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

// FormatTimestamp renders an optional timestamp for display.
func FormatTimestamp(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format("2006-01-02 15:04")
}

// ParseTimes parses a comma-separated list of HH:MM preferred times.
func ParseTimes(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var times []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if _, err := time.Parse("15:04", part); err != nil {
			return nil, fmt.Errorf("invalid time %q (expected HH:MM)", part)
		}
		times = append(times, part)
	}
	return times, nil
}

// Package daycache keeps the same-day "times completed today" counters in a
// scratch JSON document. It is a presentation-layer cache only: it is never
// reconciled against the completions store, and the tracker has no notion
// of it.
package daycache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/radicool/habitkeep/internal/constants"
	"github.com/radicool/habitkeep/internal/models"
)

const FileName = "daily_habits_completion.json"

type document struct {
	Date            string         `json:"date"`
	CompletedHabits map[string]int `json:"completed_habits"`
}

// Cache tracks per-habit completion counts for a single day.
type Cache struct {
	path  string
	doc   document
	nowFn func() time.Time
}

// Load reads the scratch document from dataDir. A document whose embedded
// date is no longer today is discarded and replaced with an empty one.
func Load(dataDir string) (*Cache, error) {
	c := &Cache{
		path:  filepath.Join(dataDir, FileName),
		nowFn: time.Now,
	}

	today := c.today()
	data, err := os.ReadFile(c.path)
	if err == nil {
		var doc document
		if json.Unmarshal(data, &doc) == nil && doc.Date == today && doc.CompletedHabits != nil {
			c.doc = doc
			return c, nil
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	c.doc = document{Date: today, CompletedHabits: map[string]int{}}
	if err := c.save(); err != nil {
		return nil, err
	}
	return c, nil
}

// CountFor returns how many times the habit was completed today per the
// scratch document.
func (c *Cache) CountFor(habitID int64) int {
	c.rollover()
	return c.doc.CompletedHabits[key(habitID)]
}

// MaxFor returns how many completions the habit allows per day: its
// frequency count for daily habits, one for everything else.
func MaxFor(habit models.Habit) int {
	if habit.FrequencyType == constants.FrequencyDaily {
		return habit.FrequencyCount
	}
	return 1
}

// Allowed reports whether the habit can still be completed today.
func (c *Cache) Allowed(habit models.Habit) bool {
	return c.CountFor(habit.ID) < MaxFor(habit)
}

// Increment bumps the habit's counter and persists the document.
func (c *Cache) Increment(habitID int64) error {
	c.rollover()
	c.doc.CompletedHabits[key(habitID)]++
	return c.save()
}

// Forget drops the habit's counter, used after a habit is removed.
func (c *Cache) Forget(habitID int64) error {
	c.rollover()
	delete(c.doc.CompletedHabits, key(habitID))
	return c.save()
}

func (c *Cache) today() string {
	return c.nowFn().Format(constants.DateFormat)
}

// rollover resets the counters when the embedded date is no longer today.
func (c *Cache) rollover() {
	if today := c.today(); c.doc.Date != today {
		c.doc = document{Date: today, CompletedHabits: map[string]int{}}
	}
}

func (c *Cache) save() error {
	data, err := json.MarshalIndent(c.doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0600)
}

func key(habitID int64) string {
	return strconv.FormatInt(habitID, 10)
}

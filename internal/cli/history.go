package cli

import (
	"fmt"
	"time"

	"github.com/radicool/habitkeep/internal/models"
)

type HistoryCmd struct {
	Habit string `help:"Limit history to one habit (ID or name)."`
	Days  int    `help:"Limit history to the last N days." default:"0"`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	var completions []models.Completion
	var err error

	var start *time.Time
	if c.Days > 0 {
		t := time.Now().AddDate(0, 0, -c.Days)
		start = &t
	}

	if c.Habit != "" {
		habit, err := ctx.ResolveHabit(c.Habit)
		if err != nil {
			return err
		}
		completions, err = ctx.Tracker.GetCompletions(habit.ID, start, nil)
		if err != nil {
			return err
		}
		return printCompletions(ctx, completions, habit.Name)
	}

	completions, err = ctx.Tracker.GetAllCompletions()
	if err != nil {
		return err
	}
	if start != nil {
		var filtered []models.Completion
		for _, comp := range completions {
			if !comp.CompletionTime.Before(*start) {
				filtered = append(filtered, comp)
			}
		}
		completions = filtered
	}
	return printCompletions(ctx, completions, "")
}

func printCompletions(ctx *Context, completions []models.Completion, habitName string) error {
	if len(completions) == 0 {
		fmt.Println("No completions recorded.")
		return nil
	}

	// Resolve habit names once for the global view.
	names := map[int64]string{}
	if habitName == "" {
		habits, err := ctx.Tracker.GetAllHabits()
		if err != nil {
			return err
		}
		for _, h := range habits {
			names[h.ID] = h.Name
		}
	}

	fmt.Printf("%-17s %-24s %-9s %s\n", "WHEN", "HABIT", "DURATION", "NOTES")
	for _, comp := range completions {
		name := habitName
		if name == "" {
			name = names[comp.HabitID]
			if name == "" {
				name = fmt.Sprintf("(deleted #%d)", comp.HabitID)
			}
		}
		duration := "-"
		if comp.DurationSeconds != nil {
			duration = FormatDuration(*comp.DurationSeconds)
		}
		fmt.Printf("%-17s %-24s %-9s %s\n",
			comp.CompletionTime.Format("2006-01-02 15:04"), name, duration, comp.Notes)
	}
	return nil
}

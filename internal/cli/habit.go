package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/radicool/habitkeep/internal/constants"
	"github.com/radicool/habitkeep/internal/daycache"
	"github.com/radicool/habitkeep/internal/models"
	"github.com/radicool/habitkeep/internal/referral"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits."`
	Show     HabitShowCmd     `cmd:"" help:"Show a habit in detail."`
	Edit     HabitEditCmd     `cmd:"" help:"Edit an existing habit."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit and its completion history."`
	Complete HabitCompleteCmd `cmd:"" help:"Record a completion for a habit."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name. Omit to fill in the form interactively."`
	Description string `help:"Optional description."`
	Frequency   string `help:"Frequency class: daily, weekly, monthly, or yearly." default:"daily" enum:"daily,weekly,monthly,yearly"`
	Count       int    `help:"Target repetitions per period." default:"1"`
	Duration    int    `help:"Estimated duration per completion, in seconds." default:"0"`
	Times       string `help:"Comma-separated preferred times (HH:MM)."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if c.Name == "" {
		if err := c.promptForm(); err != nil {
			return err
		}
	}

	times, err := ParseTimes(c.Times)
	if err != nil {
		return err
	}

	habit, err := ctx.Tracker.AddHabit(models.NewHabit{
		Name:            c.Name,
		Description:     c.Description,
		FrequencyType:   constants.Frequency(c.Frequency),
		FrequencyCount:  c.Count,
		DurationSeconds: c.Duration,
		PreferredTimes:  times,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added habit #%d: %s (%s x%d)\n", habit.ID, habit.Name, habit.FrequencyType, habit.FrequencyCount)
	return nil
}

func (c *HabitAddCmd) promptForm() error {
	count := strconv.Itoa(c.Count)
	duration := strconv.Itoa(c.Duration)

	var freqOptions []huh.Option[string]
	for _, f := range constants.Frequencies {
		freqOptions = append(freqOptions, huh.NewOption(string(f), string(f)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&c.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name must not be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&c.Description),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(freqOptions...).
				Value(&c.Frequency),
			huh.NewInput().
				Title("Repetitions per period").
				Value(&count).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Estimated duration (seconds)").
				Value(&duration).
				Validate(validateNonNegativeInt),
			huh.NewInput().
				Title("Preferred times (HH:MM, comma-separated)").
				Value(&c.Times).
				Validate(func(s string) error {
					_, err := ParseTimes(s)
					return err
				}),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	c.Count, _ = strconv.Atoi(count)
	c.Duration, _ = strconv.Atoi(duration)
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func validateNonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative number")
	}
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *Context) error {
	habits, err := ctx.Tracker.GetAllHabits()
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found. Add one with 'habitkeep habit add'.")
		return nil
	}

	fmt.Printf("%-4s %-24s %-10s %-7s %-8s %s\n", "ID", "NAME", "FREQ", "STREAK", "BALANCE", "LAST COMPLETED")
	for _, h := range habits {
		freq := string(h.FrequencyType)
		if h.FrequencyCount > 1 {
			freq = fmt.Sprintf("%s x%d", h.FrequencyType, h.FrequencyCount)
		}
		fmt.Printf("%-4d %-24s %-10s %-7d %-8.2f %s\n",
			h.ID, h.Name, freq, h.Streak, h.RewardBalance, FormatTimestamp(h.LastCompleted))
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	fmt.Printf("Habit #%d: %s\n", habit.ID, habit.Name)
	if habit.Description != "" {
		fmt.Printf("  Description:    %s\n", habit.Description)
	}
	fmt.Printf("  Frequency:      %s x%d\n", habit.FrequencyType, habit.FrequencyCount)
	fmt.Printf("  Duration:       %s\n", FormatDuration(habit.DurationSeconds))
	fmt.Printf("  Streak:         %d\n", habit.Streak)
	fmt.Printf("  Reward balance: %.2f\n", habit.RewardBalance)
	fmt.Printf("  Created:        %s\n", habit.CreatedAt.Format("2006-01-02"))
	fmt.Printf("  Last completed: %s\n", FormatTimestamp(habit.LastCompleted))
	if len(habit.PreferredTimes) > 0 {
		fmt.Printf("  Preferred times: %s\n", strings.Join(habit.PreferredTimes, ", "))
	}

	cache, err := daycache.Load(ctx.DataDir)
	if err != nil {
		return err
	}
	fmt.Printf("  Today:          %d/%d completions\n", cache.CountFor(habit.ID), daycache.MaxFor(habit))
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit ID or name."`
	Name        *string `help:"New name."`
	Description *string `help:"New description."`
	Frequency   *string `help:"New frequency class: daily, weekly, monthly, or yearly."`
	Count       *int    `help:"New repetitions per period."`
	Duration    *int    `help:"New estimated duration, in seconds."`
	Times       *string `help:"New comma-separated preferred times (HH:MM). Pass '' to clear."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	patch := models.HabitPatch{
		Name:            c.Name,
		Description:     c.Description,
		FrequencyCount:  c.Count,
		DurationSeconds: c.Duration,
	}
	if c.Frequency != nil {
		f := constants.Frequency(*c.Frequency)
		patch.FrequencyType = &f
	}
	if c.Times != nil {
		times, err := ParseTimes(*c.Times)
		if err != nil {
			return err
		}
		if times == nil {
			times = []string{}
		}
		patch.PreferredTimes = &times
	}

	if patch.Empty() {
		return fmt.Errorf("nothing to change")
	}

	updated, err := ctx.Tracker.UpdateHabit(habit.ID, patch)
	if err != nil {
		return err
	}

	fmt.Printf("Updated habit #%d: %s\n", updated.ID, updated.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit ID or name."`
	Force bool   `help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	if !c.Force {
		var confirmed bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete habit %q and all of its completion history?", habit.Name)).
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Tracker.RemoveHabit(habit.ID); err != nil {
		return err
	}

	if cache, err := daycache.Load(ctx.DataDir); err == nil {
		_ = cache.Forget(habit.ID)
	}

	fmt.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}

type HabitCompleteCmd struct {
	Habit    string `arg:"" help:"Habit ID or name."`
	Duration *int   `help:"Actual duration of this completion, in seconds."`
	Notes    string `help:"Optional note for this completion."`
	Bonus    string `help:"Bonus code to attach to the shared referral link."`
	Share    bool   `help:"Open the referral link in the browser."`
}

func (c *HabitCompleteCmd) Run(ctx *Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	cache, err := daycache.Load(ctx.DataDir)
	if err != nil {
		return err
	}
	if !cache.Allowed(habit) {
		return fmt.Errorf("habit %q already completed %d/%d times today",
			habit.Name, cache.CountFor(habit.ID), daycache.MaxFor(habit))
	}

	updated, err := ctx.Tracker.CompleteHabit(habit.ID, c.Duration, c.Notes)
	if err != nil {
		return err
	}

	if err := cache.Increment(habit.ID); err != nil {
		return err
	}

	fmt.Printf("Completed %q. Streak: %d, reward balance: %.2f\n", updated.Name, updated.Streak, updated.RewardBalance)

	email, err := ctx.Tracker.CurrentEmail()
	if err != nil {
		// No account yet; nothing to share.
		return nil
	}

	link := referral.CompletionURL(email, updated, c.Bonus)
	fmt.Printf("Share your progress: %s\n", link)
	if c.Share {
		if err := referral.Open(link); err != nil {
			return err
		}
	}
	return nil
}

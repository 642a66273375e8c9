package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/radicool/habitkeep/internal/cli"
	"github.com/radicool/habitkeep/internal/constants"
	"github.com/radicool/habitkeep/internal/logger"
	"github.com/radicool/habitkeep/internal/prefs"
	"github.com/radicool/habitkeep/internal/storage/sqlite"
	"github.com/radicool/habitkeep/internal/tracker"
)

var CLI struct {
	Version kong.VersionFlag
	DataDir string `help:"Data directory." type:"path" default:"~/.config/habitkeep"`
	Debug   bool   `help:"Enable debug logging."`

	Init    cli.InitCmd    `cmd:"" help:"Initialize habitkeep storage."`
	Migrate cli.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  cli.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     cli.TuiCmd     `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Signup  cli.SignupCmd  `cmd:"" help:"Create the local account and referral link."`
	Habit   cli.HabitCmd   `cmd:"" help:"Manage habits and completions."`
	History cli.HistoryCmd `cmd:"" help:"Show completion history."`
	Bonus   cli.BonusCmd   `cmd:"" help:"Manage bonus codes."`
	Backup  struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Settings cli.SettingsCmd `cmd:"" help:"Manage application settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, rewards, and bonus codes"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, DataDir: CLI.DataDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	habits := sqlite.NewStore(filepath.Join(CLI.DataDir, constants.HabitsDBName))
	completions := sqlite.NewCompletionStore(filepath.Join(CLI.DataDir, constants.CompletionsDBName))

	settings, err := prefs.Load(CLI.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load settings: %v\n", err)
		os.Exit(1)
	}

	appCtx := &cli.Context{
		Tracker:     tracker.New(habits, completions),
		Habits:      habits,
		Completions: completions,
		Settings:    settings,
		DataDir:     CLI.DataDir,
	}

	// Load the stores before running the command (init handles its own setup)
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := habits.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := completions.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	defer func() {
		habits.Close()
		completions.Close()
	}()

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

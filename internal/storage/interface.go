package storage

import (
	"time"

	"github.com/radicool/habitkeep/internal/models"
)

// Provider is the habit-definitions resource: habits with their preferred
// times, bonus codes, and the account marker. One durable database file.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(models.NewHabit) (models.Habit, error)
	GetHabit(id int64) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	UpdateHabit(id int64, patch models.HabitPatch) (models.Habit, error)
	DeleteHabit(id int64) error
	AdjustRewardBalance(id int64, delta float64) (models.Habit, error)
	// MarkCompleted sets the new streak and last-completed timestamp and
	// credits the per-completion reward, all in one statement.
	MarkCompleted(id int64, streak int, completedAt time.Time, reward float64) (models.Habit, error)

	// Bonus codes
	AddBonusCode(code string, value float64, description string, expiry *time.Time) (models.BonusCode, error)
	GetBonusCode(code string) (models.BonusCode, error)
	GetBonusCodes(includeUsed bool) ([]models.BonusCode, error)
	// RedeemBonusCode marks the code used and, when habitID is non-nil,
	// credits that habit's reward balance in the same transaction.
	RedeemBonusCode(code string, habitID *int64) (models.BonusCode, error)

	// Accounts
	AddAccount(email string) (models.Account, error)
	AccountExists() (bool, error)
	CurrentEmail() (string, error)

	// Utils
	GetPath() string
}

// CompletionProvider is the completions resource: an append-only event log
// in a physically separate database file. It never validates habit ids
// against the definitions store; the tracker owns that consistency.
type CompletionProvider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	RecordCompletion(habitID int64, at time.Time, durationSeconds *int, notes string) (models.Completion, error)
	GetCompletions(habitID int64, start, end *time.Time) ([]models.Completion, error)
	GetAllCompletions() ([]models.Completion, error)
	DeleteCompletionsForHabit(habitID int64) error

	// Utils
	GetPath() string
}

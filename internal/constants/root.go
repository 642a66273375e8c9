package constants

// Frequency represents how often a habit is meant to be completed
type Frequency string

const (
	AppName           = "habitkeep"
	Version           = "v0.3.0"
	DefaultDataDir    = "~/.config/habitkeep"
	HabitsDBName      = "habits_data.db"
	CompletionsDBName = "habit_completions.db"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the preferred-time format (HH:MM)
	TimeFormat = "15:04"

	// CompletionReward is the fixed reward credited to a habit per recorded completion
	CompletionReward = 0.25

	// ReferralBaseURL receives the out-of-band signup/completion pings
	ReferralBaseURL = "https://radicool.club/habit-tracker-page"

	// Frequency classes
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitkeep-"
	BackupFileSuffix = ".db"
)

// Frequencies lists every valid frequency class in display order.
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly}

// ValidFrequency reports whether f is one of the recognized frequency classes.
func ValidFrequency(f Frequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

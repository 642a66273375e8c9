package streak

import (
	"math"
	"time"

	"github.com/radicool/habitkeep/internal/constants"
)

// IsConsecutive reports whether a completion at now continues a streak whose
// previous completion happened at last, for the given frequency class. The
// windows are deliberately wider than the nominal period so a slightly late
// completion still counts.
//
// The comparison is on the floored whole-day difference, so a backdated or
// clock-skewed "now" earlier than last yields a negative day count: daily
// habits still continue (difference <= 1), the interval classes do not.
func IsConsecutive(last, now time.Time, frequency constants.Frequency) bool {
	days := wholeDays(last, now)

	switch frequency {
	case constants.FrequencyDaily:
		return days <= 1
	case constants.FrequencyWeekly:
		return days >= 5 && days <= 9
	case constants.FrequencyMonthly:
		return days >= 25 && days <= 35
	case constants.FrequencyYearly:
		return days >= 350 && days <= 380
	}

	return false
}

// wholeDays floors the elapsed time between from and to into whole days.
func wholeDays(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

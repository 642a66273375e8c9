// Package referral builds the radicool.club referral URLs shared after
// signup and after a completion, and opens them in the system browser.
package referral

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/radicool/habitkeep/internal/constants"
	"github.com/radicool/habitkeep/internal/models"
)

// SignupURL is the referral link shared when an account is created.
func SignupURL(email string) string {
	q := url.Values{}
	q.Set("username", email)
	return constants.ReferralBaseURL + "?" + q.Encode()
}

// CompletionURL is the referral link shared after a habit completion. The
// bonus code parameter is included only when a code is attached.
func CompletionURL(email string, habit models.Habit, bonusCode string) string {
	q := url.Values{}
	q.Set("username", email)
	q.Set("duration_seconds", strconv.Itoa(habit.DurationSeconds))
	q.Set("streak", strconv.Itoa(habit.Streak))
	if bonusCode != "" {
		q.Set("bonus_code", bonusCode)
	}
	return constants.ReferralBaseURL + "?" + q.Encode()
}

// Open launches the platform browser on the URL.
func Open(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

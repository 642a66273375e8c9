package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/radicool/habitkeep/internal/referral"
)

type SignupCmd struct {
	Email string `arg:"" optional:"" help:"Account email. Omit to enter it interactively."`
	Share bool   `help:"Open the referral link in the browser."`
}

func (c *SignupCmd) Run(ctx *Context) error {
	exists, err := ctx.Tracker.AccountExists()
	if err != nil {
		return err
	}
	if exists {
		email, err := ctx.Tracker.CurrentEmail()
		if err != nil {
			return err
		}
		return fmt.Errorf("already signed up as %s", email)
	}

	if c.Email == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Value(&c.Email).
					Validate(validateEmail),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	} else if err := validateEmail(c.Email); err != nil {
		return err
	}

	account, err := ctx.Tracker.AddAccount(c.Email)
	if err != nil {
		return err
	}

	fmt.Printf("Signed up as %s\n", account.Email)

	link := referral.SignupURL(account.Email)
	fmt.Printf("Share your referral link: %s\n", link)
	if c.Share {
		if err := referral.Open(link); err != nil {
			return err
		}
	}
	return nil
}

// validateEmail is a shape check only; the account is local and the email is
// used as a referral handle, not verified.
func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 || strings.Count(s, "@") != 1 {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radicool/habitkeep/internal/constants"
)

type BonusCmd struct {
	Add    BonusAddCmd    `cmd:"" help:"Register a bonus code."`
	List   BonusListCmd   `cmd:"" help:"List bonus codes."`
	Redeem BonusRedeemCmd `cmd:"" help:"Redeem a bonus code."`
}

type BonusAddCmd struct {
	Code        string  `arg:"" optional:"" help:"The code itself. Omit with --generate."`
	Value       float64 `help:"Reward value of the code." default:"1.0"`
	Description string  `help:"Optional description."`
	Expires     string  `help:"Expiry date (YYYY-MM-DD). Codes never expire by default."`
	Generate    bool    `help:"Generate a random code instead of supplying one."`
}

func (c *BonusAddCmd) Run(ctx *Context) error {
	if c.Generate {
		if c.Code != "" {
			return fmt.Errorf("--generate and an explicit code are mutually exclusive")
		}
		c.Code = uuid.NewString()
	}

	var expiry *time.Time
	if c.Expires != "" {
		t, err := time.ParseInLocation(constants.DateFormat, c.Expires, time.Local)
		if err != nil {
			return fmt.Errorf("invalid expiry date %q (expected YYYY-MM-DD)", c.Expires)
		}
		// Codes stay valid through the whole expiry day.
		t = t.Add(24*time.Hour - time.Second)
		expiry = &t
	}

	code, err := ctx.Tracker.AddBonusCode(c.Code, c.Value, c.Description, expiry)
	if err != nil {
		return err
	}

	fmt.Printf("Added bonus code %s (value %.2f)\n", code.Code, code.Value)
	if code.ExpiryDate != nil {
		fmt.Printf("Expires: %s\n", code.ExpiryDate.Format(constants.DateFormat))
	}
	return nil
}

type BonusListCmd struct {
	All bool `help:"Include used codes."`
}

func (c *BonusListCmd) Run(ctx *Context) error {
	codes, err := ctx.Tracker.GetBonusCodes(c.All)
	if err != nil {
		return err
	}

	if len(codes) == 0 {
		fmt.Println("No bonus codes found.")
		return nil
	}

	now := time.Now()
	fmt.Printf("%-38s %-8s %-10s %s\n", "CODE", "VALUE", "STATUS", "DESCRIPTION")
	for _, code := range codes {
		status := "active"
		switch {
		case code.Used:
			status = "used"
		case code.Expired(now):
			status = "expired"
		}
		fmt.Printf("%-38s %-8.2f %-10s %s\n", code.Code, code.Value, status, code.Description)
	}
	return nil
}

type BonusRedeemCmd struct {
	Code  string `arg:"" help:"The bonus code to redeem."`
	Habit string `help:"Habit ID or name to credit the code's value to."`
}

func (c *BonusRedeemCmd) Run(ctx *Context) error {
	var habitID *int64
	if c.Habit != "" {
		habit, err := ctx.ResolveHabit(c.Habit)
		if err != nil {
			return err
		}
		habitID = &habit.ID
	}

	code, err := ctx.Tracker.RedeemBonusCode(c.Code, habitID)
	if err != nil {
		return err
	}

	fmt.Printf("Redeemed bonus code %s for %.2f\n", code.Code, code.Value)
	if habitID != nil {
		habit, err := ctx.Tracker.GetHabit(*habitID)
		if err == nil {
			fmt.Printf("Habit %q reward balance is now %.2f\n", habit.Name, habit.RewardBalance)
		}
	}
	return nil
}

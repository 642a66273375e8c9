package cli

import (
	"fmt"
	"strings"

	"github.com/radicool/habitkeep/internal/prefs"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Change a setting."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *Context) error {
	s, err := prefs.Load(ctx.DataDir)
	if err != nil {
		return err
	}

	fmt.Printf("background_color: %s (%s)\n", s.BackgroundColor, s.BackgroundHex())
	fmt.Printf("button_color:     %s (%s)\n", s.ButtonColor, s.ButtonHex())
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting to change." enum:"background_color,button_color"`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *Context) error {
	s, err := prefs.Load(ctx.DataDir)
	if err != nil {
		return err
	}

	value := strings.ToLower(strings.TrimSpace(c.Value))
	switch c.Key {
	case "background_color":
		if !prefs.ValidBackgroundColor(value) {
			return fmt.Errorf("invalid background color %q (choose from: %s)",
				c.Value, strings.Join(prefs.BackgroundColors(), ", "))
		}
		s.BackgroundColor = value
	case "button_color":
		if !prefs.ValidButtonColor(value) {
			return fmt.Errorf("invalid button color %q (choose from: %s)",
				c.Value, strings.Join(prefs.ButtonColors(), ", "))
		}
		s.ButtonColor = value
	}

	if err := prefs.Save(ctx.DataDir, s); err != nil {
		return err
	}

	fmt.Printf("Set %s to %s\n", c.Key, value)
	return nil
}

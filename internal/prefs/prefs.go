// Package prefs holds the UI theme preferences document. It belongs to the
// presentation layer; the tracker never reads it. Components receive a
// loaded Settings value instead of reaching for the file themselves.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const FileName = "settings.json"

// Settings is the typed set of recognized preference keys.
type Settings struct {
	BackgroundColor string `json:"background_color"`
	ButtonColor     string `json:"button_color"`
}

var backgroundHex = map[string]string{
	"white":     "#FFFFFF",
	"gray":      "#CCCCCC",
	"black":     "#000000",
	"dark gray": "#666666",
}

var buttonHex = map[string]string{
	"blue":  "#2196F3",
	"green": "#088F8F",
	"pink":  "#E91E63",
}

// BackgroundColors lists the recognized background color names.
func BackgroundColors() []string {
	return []string{"white", "gray", "black", "dark gray"}
}

// ButtonColors lists the recognized accent color names.
func ButtonColors() []string {
	return []string{"blue", "green", "pink"}
}

func Default() Settings {
	return Settings{
		BackgroundColor: "white",
		ButtonColor:     "blue",
	}
}

// BackgroundHex resolves the background color name to hex, falling back to
// the default for unrecognized values.
func (s Settings) BackgroundHex() string {
	if hex, ok := backgroundHex[s.BackgroundColor]; ok {
		return hex
	}
	return backgroundHex["white"]
}

// ButtonHex resolves the accent color name to hex, falling back to the
// default for unrecognized values.
func (s Settings) ButtonHex() string {
	if hex, ok := buttonHex[s.ButtonColor]; ok {
		return hex
	}
	return buttonHex["blue"]
}

// ValidBackgroundColor reports whether name is a recognized background color.
func ValidBackgroundColor(name string) bool {
	_, ok := backgroundHex[name]
	return ok
}

// ValidButtonColor reports whether name is a recognized accent color.
func ValidButtonColor(name string) bool {
	_, ok := buttonHex[name]
	return ok
}

// Load reads the preferences document from dataDir, creating it with
// defaults when missing.
func Load(dataDir string) (Settings, error) {
	path := filepath.Join(dataDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			defaults := Default()
			if err := Save(dataDir, defaults); err != nil {
				return Settings{}, err
			}
			return defaults, nil
		}
		return Settings{}, err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Save writes the preferences document to dataDir.
func Save(dataDir string, s Settings) error {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dataDir, FileName), data, 0600)
}

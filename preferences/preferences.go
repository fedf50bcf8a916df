// Package preferences persists user interface settings between sessions.
package preferences

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the preferences file inside the config directory
const FileName = "preferences.yaml"

// Preferences are the persisted UI settings. A nil field was never set.
type Preferences struct {
	DarkMode *bool `yaml:"darkMode,omitempty"`
}

// DefaultPath returns $XDG_CONFIG_HOME/saythenumber/preferences.yaml or the
// platform equivalent
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "saythenumber", FileName), nil
}

// Load reads preferences from path. A missing file yields empty preferences.
func Load(path string) (*Preferences, error) {
	prefs := &Preferences{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	if err := yaml.Unmarshal(data, prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return prefs, nil
}

// Save writes preferences to path, creating the directory if needed
func (p *Preferences) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// DarkModeOr returns the saved dark mode setting, or fallback if none was saved
func (p *Preferences) DarkModeOr(fallback bool) bool {
	if p == nil || p.DarkMode == nil {
		return fallback
	}
	return *p.DarkMode
}

// SetDarkMode records the dark mode setting
func (p *Preferences) SetDarkMode(dark bool) {
	p.DarkMode = &dark
}

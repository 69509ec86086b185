package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Prefs are remembered between sessions.
type Prefs struct {
	LastFormat string `json:"last_format,omitempty"`
}

func prefsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nuvai", "tui_prefs.json")
}

// LoadPrefs returns saved preferences, or zero Prefs when none exist.
func LoadPrefs() Prefs {
	var p Prefs
	path := prefsPath()
	if path == "" {
		return p
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(b, &p)
	return p
}

func SavePrefs(p Prefs) error {
	path := prefsPath()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

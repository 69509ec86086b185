// Package tui is the interactive terminal browser for scan findings and the
// export-format picker used by the CLI.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nuvai/nuvai/internal/types"
)

// Run blocks until the user quits the findings browser.
func Run(opts Options) error {
	if opts.Export != nil {
		export := opts.Export
		opts.Export = func(fs []types.Finding, format string) (string, error) {
			path, err := export(fs, format)
			if err == nil {
				_ = SavePrefs(Prefs{LastFormat: format})
			}
			return path, err
		}
	}
	m := NewModel(opts)
	if last := LoadPrefs().LastFormat; last != "" {
		m.selectFormat(last)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nuvai/nuvai/internal/report"
)

// ErrCancelled is returned when the user leaves the format picker without
// choosing.
var ErrCancelled = errors.New("export cancelled")

type pickerModel struct {
	cursor    int
	chosen    string
	cancelled bool
}

func newPicker(preselect string) pickerModel {
	m := pickerModel{}
	for i, f := range report.Formats {
		if f == preselect {
			m.cursor = i
		}
	}
	return m
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j", "tab":
		if m.cursor < len(report.Formats)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = report.Formats[m.cursor]
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) View() string {
	if m.chosen != "" || m.cancelled {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Select export format") + "\n\n")
	for i, f := range report.Formats {
		if i == m.cursor {
			b.WriteString(keyStyle.Render("> "+f) + "\n")
		} else {
			b.WriteString("  " + f + "\n")
		}
	}
	b.WriteString("\nenter: choose | esc: skip\n")
	return b.String()
}

// PickFormat asks the user for an export format. With interactive set it
// shows an arrow-key menu; otherwise it reads lines from in until a valid
// format is entered.
func PickFormat(in io.Reader, out io.Writer, interactive bool, preselect string) (string, error) {
	if !interactive {
		return promptFormat(in, out)
	}
	res, err := tea.NewProgram(newPicker(preselect), tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return "", err
	}
	m := res.(pickerModel)
	if m.cancelled || m.chosen == "" {
		return "", ErrCancelled
	}
	return m.chosen, nil
}

func promptFormat(in io.Reader, out io.Writer) (string, error) {
	choices := strings.Join(report.Formats, " / ")
	sc := bufio.NewScanner(in)
	fmt.Fprintf(out, "Select export format (%s): ", choices)
	for sc.Scan() {
		f := strings.ToLower(strings.TrimSpace(sc.Text()))
		if report.ValidFormat(f) {
			return f, nil
		}
		fmt.Fprintf(out, "Invalid format. Please choose from (%s): ", choices)
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", ErrCancelled
}

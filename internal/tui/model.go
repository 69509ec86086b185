package tui

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nuvai/nuvai/internal/report"
	"github.com/nuvai/nuvai/internal/types"
)

var (
	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(1, 4)

	sevHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sevMedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sevLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// severity filter cycle used by the "s" key; "" shows everything
var severityCycle = []types.Severity{"", types.SevCritical, types.SevHigh, types.SevMedium, types.SevWarning, types.SevInfo}

type (
	findingsMsg []types.Finding
	statusMsg   string
)

// Options wires the browser to the rest of the CLI. Nil callbacks disable
// the matching key.
type Options struct {
	Findings []types.Finding
	Sources  map[string]string
	Baseline report.Baseline
	Rescan   func() ([]types.Finding, error)
	Export   func(findings []types.Finding, format string) (string, error)
	SaveBase func(findings []types.Finding) error
}

// Model is the findings browser.
type Model struct {
	opts     Options
	table    table.Model
	viewport viewport.Model
	spinner  spinner.Model
	search   textinput.Model

	findings []types.Finding
	visible  []types.Finding

	query          string
	severityFilter int
	searchMode     bool
	showExportMenu bool
	exportCursor   int
	scanning       bool
	ready          bool
	quitting       bool
	width, height  int
	statusMessage  string
}

// NewModel initializes the browser with actionable findings from opts.
func NewModel(opts Options) Model {
	columns := []table.Column{
		{Title: "Sev", Width: 10},
		{Title: "Category", Width: 30},
		{Title: "Path", Width: 36},
		{Title: "Check", Width: 28},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	ti := textinput.New()
	ti.Placeholder = "Search category, path, check or message..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = "/ "

	m := Model{
		opts:     opts,
		table:    t,
		viewport: viewport.New(80, 10),
		spinner:  sp,
		search:   ti,
	}
	m.setFindings(opts.Findings)
	m.statusMessage = "q: quit | /: search | s: severity | e: export | b: baseline | r: rescan"
	return m
}

func (m *Model) setFindings(fs []types.Finding) {
	m.findings = report.Actionable(fs)
	m.applyFilter()
}

func (m *Model) applyFilter() {
	sev := severityCycle[m.severityFilter]
	q := strings.ToLower(m.query)
	m.visible = nil
	for _, f := range m.findings {
		if sev != "" && f.Severity != sev {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(f.Category+" "+f.Path+" "+f.Check+" "+f.Message), q) {
			continue
		}
		m.visible = append(m.visible, f)
	}
	rows := make([]table.Row, len(m.visible))
	for i, f := range m.visible {
		sev := string(f.Severity)
		if m.opts.Baseline.Items[report.Key(f)] {
			sev = "(b) " + sev
		}
		rows[i] = table.Row{sev, f.Category, f.Path, f.Check}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
	m.refreshDetail()
}

// selectFormat moves the export menu cursor to format.
func (m *Model) selectFormat(format string) {
	for i, f := range report.Formats {
		if f == format {
			m.exportCursor = i
		}
	}
}

func (m *Model) selected() (types.Finding, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return types.Finding{}, false
	}
	return m.visible[i], true
}

func (m *Model) refreshDetail() {
	f, ok := m.selected()
	if !ok {
		m.viewport.SetContent("")
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", renderSeverity(f.Severity), titleStyle.Render(f.Category))
	if f.Path != "" {
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("File:"), f.Path)
	}
	if f.Check != "" {
		fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Check:"), f.Check)
	}
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Description:"), f.Message)
	fmt.Fprintf(&b, "%s %s\n", keyStyle.Render("Recommendation:"), f.Recommendation)
	if src, ok := m.opts.Sources[f.Path]; ok && src != "" {
		fmt.Fprintf(&b, "\n%s\n%s", keyStyle.Render("Source:"), highlightCode(src, f.Path))
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
}

func renderSeverity(s types.Severity) string {
	switch s.Rank() {
	case 5, 4:
		return sevHighStyle.Render(string(s))
	case 3, 2:
		return sevMedStyle.Render(string(s))
	}
	return sevLowStyle.Render(string(s))
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) rescan() tea.Cmd {
	rescan := m.opts.Rescan
	return func() tea.Msg {
		fs, err := rescan()
		if err != nil {
			return statusMsg(fmt.Sprintf("Scan error: %v", err))
		}
		return findingsMsg(fs)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		tableHeight := max(3, m.height/2-2)
		m.table.SetHeight(tableHeight)
		m.table.SetWidth(m.width)
		m.viewport.Width = max(20, m.width-2)
		m.viewport.Height = max(3, m.height-tableHeight-6)
		m.ready = true
		m.refreshDetail()
		return m, nil

	case findingsMsg:
		m.scanning = false
		m.setFindings(msg)
		m.statusMessage = fmt.Sprintf("Rescan complete: %d findings", len(m.findings))
		return m, nil

	case statusMsg:
		m.scanning = false
		m.statusMessage = string(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.updateSearch(msg)
		}
		if m.showExportMenu {
			return m.updateExportMenu(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "/":
			m.searchMode = true
			m.search.SetValue(m.query)
			return m, m.search.Focus()
		case "s":
			m.severityFilter = (m.severityFilter + 1) % len(severityCycle)
			m.applyFilter()
			return m, nil
		case "e":
			if m.opts.Export != nil {
				m.showExportMenu = true
			}
			return m, nil
		case "b":
			if m.opts.SaveBase == nil {
				return m, nil
			}
			if err := m.opts.SaveBase(m.findings); err != nil {
				m.statusMessage = fmt.Sprintf("Baseline error: %v", err)
			} else {
				m.opts.Baseline = report.Baseline{Items: map[string]bool{}}
				for _, f := range m.findings {
					m.opts.Baseline.Items[report.Key(f)] = true
				}
				m.applyFilter()
				m.statusMessage = fmt.Sprintf("Baselined %d findings", len(m.findings))
			}
			return m, nil
		case "r":
			if m.opts.Rescan == nil || m.scanning {
				return m, nil
			}
			m.scanning = true
			return m, m.rescan()
		case "pgdown", "ctrl+d":
			m.viewport.HalfViewDown()
			return m, nil
		case "pgup", "ctrl+u":
			m.viewport.HalfViewUp()
			return m, nil
		}
		var cmd tea.Cmd
		before := m.table.Cursor()
		m.table, cmd = m.table.Update(msg)
		if m.table.Cursor() != before {
			m.refreshDetail()
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.query = strings.TrimSpace(m.search.Value())
		m.searchMode = false
		m.search.Blur()
		m.applyFilter()
		return m, nil
	case "esc":
		m.searchMode = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateExportMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.showExportMenu = false
	case "up", "k":
		if m.exportCursor > 0 {
			m.exportCursor--
		}
	case "down", "j":
		if m.exportCursor < len(report.Formats)-1 {
			m.exportCursor++
		}
	case "enter":
		m.showExportMenu = false
		format := report.Formats[m.exportCursor]
		path, err := m.opts.Export(m.visible, format)
		if err != nil {
			m.statusMessage = fmt.Sprintf("Export failed: %v", err)
		} else {
			m.statusMessage = "Report saved to " + path
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	if m.scanning {
		box := popupStyle.Width(40).Align(lipgloss.Center).Render(m.spinner.View() + "  Rescanning...")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	if m.showExportMenu {
		var b strings.Builder
		b.WriteString(titleStyle.Render("Export Report") + "\n\n")
		for i, f := range report.Formats {
			cursor := "  "
			if i == m.exportCursor {
				cursor = "> "
			}
			b.WriteString(cursor + f + "\n")
		}
		b.WriteString("\nenter: save | esc: cancel")
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupStyle.Render(b.String()))
	}

	var header string
	if len(m.findings) == 0 {
		header = sevLowStyle.Render("[OK] No issues detected")
	} else {
		var parts []string
		for _, c := range report.Summarize(m.visible) {
			parts = append(parts, fmt.Sprintf("%s %d", renderSeverity(c.Severity), c.Count))
		}
		header = fmt.Sprintf("Showing %d/%d  |  %s", len(m.visible), len(m.findings), strings.Join(parts, "  "))
		if sev := severityCycle[m.severityFilter]; sev != "" || m.query != "" {
			header += fmt.Sprintf("  [FILTER sev:%s search:'%s']", sev, m.query)
		}
	}

	sections := []string{titleStyle.Render(report.Title), header, m.table.View()}
	sections = append(sections, detailPaneBorderStyle.Width(max(20, m.width-2)).Render(m.viewport.View()))
	if m.searchMode {
		sections = append(sections, m.search.View())
	}
	sections = append(sections, statusStyle.Width(m.width).Render(m.statusMessage))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func highlightCode(code string, filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		if ext := filepath.Ext(filename); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

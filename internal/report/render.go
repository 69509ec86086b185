package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/nuvai/nuvai/internal/types"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
}

var (
	sevDangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	sevWarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sevNoteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	headingStyle   = lipgloss.NewStyle().Bold(true)
)

func colorSeverity(s types.Severity, noColor bool) string {
	if noColor {
		return string(s)
	}
	switch s.Rank() {
	case 5, 4:
		return sevDangerStyle.Render(string(s))
	case 3, 2:
		return sevWarnStyle.Render(string(s))
	}
	return sevNoteStyle.Render(string(s))
}

// sortFindings orders by path, then severity (highest first), keeping the
// original order for ties.
func sortFindings(findings []types.Finding) []types.Finding {
	out := append([]types.Finding(nil), findings...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Severity.Rank() > out[j].Severity.Rank()
	})
	return out
}

// PrintTable renders actionable findings as a bordered table followed by a
// summary footer.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	rows := sortFindings(Actionable(findings))
	if len(rows) == 0 {
		fmt.Fprintln(w, "No issues found ✅")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("SEVERITY", "CATEGORY", "FILE", "MESSAGE")
		for _, f := range rows {
			path := f.Path
			if path == "" {
				path = "-"
			}
			_ = table.Append([]string{colorSeverity(f.Severity, opts.NoColor), f.Category, path, f.Message})
		}
		_ = table.Render()
	}
	printFooter(w, rows, opts)
}

// PrintText writes one block per finding followed by improvement tips derived
// from the finding messages.
func PrintText(w io.Writer, findings []types.Finding, opts PrintOptions) {
	rows := Actionable(findings)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No issues found ✅")
	} else {
		fmt.Fprintln(w, "Security Findings:")
		current := ""
		for _, f := range findings {
			if f.Severity == types.SevTip {
				continue
			}
			if f.Path != "" && f.Path != current {
				current = f.Path
				fmt.Fprintf(w, "\nFile: %s\n", f.Path)
			}
			fmt.Fprintf(w, "\n[%s] %s\n", colorSeverity(f.Severity, opts.NoColor), f.Category)
			fmt.Fprintf(w, "- Description: %s\n", f.Message)
			fmt.Fprintf(w, "- Recommendation: %s\n", f.Recommendation)
		}
		if tips := Tips(findings); len(tips) > 0 {
			heading := "Security Improvement Tips:"
			if !opts.NoColor {
				heading = headingStyle.Render(heading)
			}
			fmt.Fprintf(w, "\n%s\n", heading)
			for _, t := range tips {
				fmt.Fprintf(w, "- %s\n", t)
			}
		}
	}
	printFooter(w, rows, opts)
}

func printFooter(w io.Writer, rows []types.Finding, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	fmt.Fprintln(w)
	parts := make([]string, 0, 6)
	for _, c := range Summarize(rows) {
		parts = append(parts, fmt.Sprintf("%s: %d", strings.ToLower(string(c.Severity)), c.Count))
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "Findings: %d (%s)\n", len(rows), strings.Join(parts, ", "))
	} else {
		fmt.Fprintf(w, "Findings: 0\n")
	}
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
}

var tipRules = []struct {
	keyword string
	tip     string
}{
	{"input", "Use input validation and sanitization wherever user input is accepted."},
	{"hardcoded", "Move hardcoded secrets to environment variables or secret managers."},
	{"debug", "Disable debug mode in production environments."},
	{"logging", "Avoid logging sensitive information like passwords or tokens."},
}

// Tips returns the sorted, de-duplicated improvement tips that apply to the
// given findings, keyed on words in their messages.
func Tips(findings []types.Finding) []string {
	seen := map[string]bool{}
	for _, f := range findings {
		msg := strings.ToLower(f.Message)
		for _, r := range tipRules {
			if strings.Contains(msg, r.keyword) {
				seen[r.tip] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// SeverityCount is one row of a severity histogram.
type SeverityCount struct {
	Severity types.Severity
	Count    int
}

var severityOrder = []types.Severity{
	types.SevCritical, types.SevHigh, types.SevError, types.SevMedium,
	types.SevWarning, types.SevInfo, types.SevTip,
}

// Summarize counts findings per severity, most severe first, omitting zeros.
func Summarize(findings []types.Finding) []SeverityCount {
	counts := map[types.Severity]int{}
	for _, f := range findings {
		counts[f.Severity]++
	}
	var out []SeverityCount
	for _, s := range severityOrder {
		if n := counts[s]; n > 0 {
			out = append(out, SeverityCount{Severity: s, Count: n})
		}
	}
	return out
}

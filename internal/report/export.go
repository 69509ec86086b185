// Package report renders scan findings for terminals and exports them as
// report files (json, txt, html, pdf, sarif).
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nuvai/nuvai/internal/types"
)

// Formats lists the export formats in the order they are offered to users.
var Formats = []string{"json", "txt", "html", "pdf", "sarif"}

var (
	ErrUnknownFormat = errors.New("unsupported report format")
	// ErrPDFUnavailable is returned when the PDF document could not be
	// produced. Callers may fall back to another format.
	ErrPDFUnavailable = errors.New("pdf export not available")
)

// Title heads every exported document.
const Title = "Nuvai Security Scan Report"

// Report is the document handed to an Exporter.
type Report struct {
	Root         string            `json:"root,omitempty"`
	GeneratedAt  time.Time         `json:"generated_at"`
	FilesScanned int               `json:"files_scanned,omitempty"`
	Findings     []types.Finding   `json:"findings"`
	Sources      map[string]string `json:"-"`
}

// ValidFormat reports whether f names a supported export format.
func ValidFormat(f string) bool {
	f = strings.ToLower(strings.TrimSpace(f))
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// DefaultDir is ~/security_reports.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, "security_reports"), nil
}

// Exporter writes reports into Dir using timestamped file names.
type Exporter struct {
	Dir string
	Now func() time.Time
}

// NewExporter returns an exporter for dir, or for DefaultDir when dir is empty.
func NewExporter(dir string) (*Exporter, error) {
	if strings.TrimSpace(dir) == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &Exporter{Dir: dir, Now: time.Now}, nil
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// FileName returns the report file name for format at t.
func FileName(format string, t time.Time) string {
	return fmt.Sprintf("scanner_%s.%s", t.UTC().Format("2006-01-02_15-04-05"), format)
}

// Save writes r in format and returns the path of the new file. The report
// directory is created when missing.
func (e *Exporter) Save(r Report, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if !ValidFormat(format) {
		return "", fmt.Errorf("%w: %q (choose one of %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
	now := e.now()
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = now
	}

	var buf bytes.Buffer
	if err := Write(&buf, r, format); err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	path := filepath.Join(e.Dir, FileName(format, now))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// Write renders r in format to w.
func Write(w io.Writer, r Report, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return WriteJSON(w, r)
	case "txt":
		return WriteText(w, r.Findings)
	case "html":
		return WriteHTML(w, r)
	case "pdf":
		return WritePDF(w, r)
	case "sarif":
		return WriteSARIF(w, r.Findings)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// SaveReport exports findings to the default report directory.
func SaveReport(findings []types.Finding, format string) (string, error) {
	e, err := NewExporter("")
	if err != nil {
		return "", err
	}
	return e.Save(Report{Findings: findings}, format)
}

// WriteJSON dumps the whole report, indented by four spaces.
func WriteJSON(w io.Writer, r Report) error {
	if r.Findings == nil {
		r.Findings = []types.Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// WriteText writes one block per finding:
//
//	[LEVEL] Category
//	- Description: ...
//	- Recommendation: ...
func WriteText(w io.Writer, findings []types.Finding) error {
	var b strings.Builder
	for _, f := range findings {
		fmt.Fprintf(&b, "[%s] %s\n", f.Severity, f.Category)
		if f.Path != "" {
			fmt.Fprintf(&b, "- File: %s\n", f.Path)
		}
		fmt.Fprintf(&b, "- Description: %s\n", f.Message)
		fmt.Fprintf(&b, "- Recommendation: %s\n\n", f.Recommendation)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Actionable drops the informational wrappers the dispatcher adds (the
// clean-scan notice and the trailing guidance tip).
func Actionable(findings []types.Finding) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if f.Severity == types.SevTip || f.Category == "No Issues Detected" {
			continue
		}
		out = append(out, f)
	}
	return out
}

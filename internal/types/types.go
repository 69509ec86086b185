package types

import (
	"fmt"
	"strings"
)

// Severity is the risk level attached to a finding.
type Severity string

const (
	SevInfo     Severity = "INFO"
	SevWarning  Severity = "WARNING"
	SevMedium   Severity = "MEDIUM"
	SevHigh     Severity = "HIGH"
	SevCritical Severity = "CRITICAL"
	SevError    Severity = "ERROR"
	SevTip      Severity = "TIP"
)

// Rank orders severities for thresholds. Informational levels (INFO, TIP)
// rank lowest; ERROR ranks with HIGH since it marks a scan that could not
// complete.
func (s Severity) Rank() int {
	switch s {
	case SevCritical:
		return 5
	case SevHigh, SevError:
		return 4
	case SevMedium:
		return 3
	case SevWarning:
		return 2
	case SevInfo, SevTip:
		return 1
	}
	return 0
}

// ParseSeverity accepts a severity name in any case.
func ParseSeverity(s string) (Severity, error) {
	switch sev := Severity(strings.ToUpper(strings.TrimSpace(s))); sev {
	case SevInfo, SevWarning, SevMedium, SevHigh, SevCritical, SevError, SevTip:
		return sev, nil
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// Finding is one reported issue or informational note from a scan.
// Check is the stable ID of the rule that produced it and is empty for
// findings synthesized by the gate or the dispatcher. Path is set only when
// the finding belongs to a file in a multi-file scan.
type Finding struct {
	Severity       Severity `json:"severity"`
	Category       string   `json:"category"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
	Check          string   `json:"check,omitempty"`
	Path           string   `json:"path,omitempty"`
}

// Language identifies which rule set applies to a piece of source code.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangJSX        Language = "jsx"
	LangPHP        Language = "php"
	LangHTML       Language = "html"
	LangCPP        Language = "cpp"
	// LangPlaintext marks content no checker understands.
	LangPlaintext Language = "plaintext"
)

// Supported lists every language with a rule set, in display order.
var Supported = []Language{
	LangPython,
	LangJavaScript,
	LangTypeScript,
	LangJSX,
	LangPHP,
	LangHTML,
	LangCPP,
}

// ParseLanguage normalizes a language name. Unknown names map to
// LangPlaintext and ok=false.
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, sup := range Supported {
		if l == sup {
			return l, true
		}
	}
	return LangPlaintext, false
}

// SupportedNames returns the supported languages joined for messages.
func SupportedNames() string {
	names := make([]string, len(Supported))
	for i, l := range Supported {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}

// ScanRequest is the unit a provider hands to the scan pipeline.
type ScanRequest struct {
	Code     string
	Filename string
}

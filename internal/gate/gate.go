// Package gate validates raw input before any language-specific analysis
// runs. Terminal checks stop the scan with a single finding; advisory checks
// add a finding and let the scan continue.
package gate

import (
	"bytes"
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nuvai/nuvai/internal/types"
)

const (
	// HardMax is the largest input, in bytes, the gate accepts.
	HardMax = 2_000_000
	// RecommendedMax is the size above which an advisory finding is added.
	RecommendedMax = 750_000
)

// DefaultBlocklist holds dangerous-command patterns, matched case-insensitively.
var DefaultBlocklist = []string{
	`rm\s+-rf`,
	`shutdown`,
	`format\s+c:`,
	`base64,`,
	`<script>`,
	`<iframe>`,
	`<\?php`,
	`eval\s*\(`,
	`exec\s*\(`,
	`system\s*\(`,
	`subprocess\.popen`,
	`powershell`,
	`import os`,
	`fork\(`,
	`document\.write`,
	`curl\s+`,
	`wget\s+`,
	`DROP\s+TABLE`,
}

// Source extensions are pinned to text types so the result does not depend on
// the host MIME database (some map .ts to video/mp2t).
var textTypes = map[string]string{
	".py":   "text/x-python",
	".js":   "text/javascript",
	".ts":   "text/x-typescript",
	".jsx":  "text/jsx",
	".php":  "text/x-php",
	".html": "text/html",
	".cpp":  "text/x-c++src",
	".txt":  "text/plain",
}

// Gate holds the compiled blocklist.
type Gate struct {
	blocklist []*regexp.Regexp
}

// Option configures a Gate.
type Option func(*Gate) error

// WithExtraPatterns appends patterns to the default blocklist. Patterns are
// compiled case-insensitively.
func WithExtraPatterns(patterns ...string) Option {
	return func(g *Gate) error {
		for _, p := range patterns {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return fmt.Errorf("blocklist pattern %q: %w", p, err)
			}
			g.blocklist = append(g.blocklist, re)
		}
		return nil
	}
}

// New builds a gate with the default blocklist plus any options.
func New(opts ...Option) (*Gate, error) {
	g := &Gate{blocklist: compileBlocklist(DefaultBlocklist)}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func compileBlocklist(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile("(?i)" + p)
	}
	return out
}

var defaultGate = &Gate{blocklist: compileBlocklist(DefaultBlocklist)}

// Validate runs the default gate.
func Validate(code, filename string) (bool, []types.Finding) {
	return defaultGate.Validate(code, filename)
}

// Validate checks code in a fixed order. When ok is false the returned slice
// holds exactly one terminal finding. When ok is true it holds the advisory
// findings, possibly none.
func (g *Gate) Validate(code, filename string) (bool, []types.Finding) {
	code = strings.TrimSpace(code)
	filename = strings.TrimSpace(filename)
	if code == "" || filename == "" {
		return false, []types.Finding{missingInput()}
	}
	if len(code) > HardMax {
		return false, []types.Finding{TooLarge(HardMax)}
	}

	var advisories []types.Finding
	if len(code) > RecommendedMax {
		advisories = append(advisories, largeFile())
	}
	if !utf8.ValidString(code) || strings.IndexByte(code, 0) >= 0 {
		return false, []types.Finding{BinaryContent()}
	}
	if !IsTextMIME(filename) {
		advisories = append(advisories, unverifiedMIME())
	}
	if re := g.firstBlocked(code); re != nil {
		return false, []types.Finding{blocked()}
	}
	return true, advisories
}

func (g *Gate) firstBlocked(code string) *regexp.Regexp {
	for _, re := range g.blocklist {
		if re.MatchString(code) {
			return re
		}
	}
	return nil
}

// MIMEType guesses the content type of filename.
func MIMEType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := textTypes[ext]; ok {
		return ct
	}
	return mime.TypeByExtension(ext)
}

// IsTextMIME reports whether the guessed type for filename is text/*.
func IsTextMIME(filename string) bool {
	return strings.HasPrefix(MIMEType(filename), "text/")
}

// LooksBinary reports whether data carries a NUL byte in its first 8000
// bytes or is not valid UTF-8. Any input it flags is also rejected by
// Validate as binary content, so callers holding raw bytes can use it to
// short-circuit before building a string.
func LooksBinary(data []byte) bool {
	sniff := data
	if len(sniff) > 8000 {
		sniff = sniff[:8000]
	}
	return bytes.IndexByte(sniff, 0) >= 0 || !utf8.Valid(data)
}

func missingInput() types.Finding {
	return types.Finding{
		Severity:       types.SevError,
		Category:       "Missing Input",
		Message:        "No code or filename provided.",
		Recommendation: "Please upload a valid source code file.",
	}
}

// TooLarge is the terminal finding for input over limit bytes. At HardMax
// it is the finding Validate returns.
func TooLarge(limit int64) types.Finding {
	msg := "The uploaded file exceeds the hard size limit (2 MB)."
	if limit != HardMax {
		msg = fmt.Sprintf("The file exceeds the configured size limit (%d bytes).", limit)
	}
	return types.Finding{
		Severity:       types.SevError,
		Category:       "File Too Large",
		Message:        msg,
		Recommendation: "Split your file or scan parts incrementally.",
	}
}

func largeFile() types.Finding {
	return types.Finding{
		Severity:       types.SevInfo,
		Category:       "Large File Warning",
		Message:        "The file exceeds the recommended scan size (750 KB).",
		Recommendation: "Consider splitting the file for faster analysis.",
	}
}

// BinaryContent is the terminal finding for non-text input.
func BinaryContent() types.Finding {
	return types.Finding{
		Severity:       types.SevError,
		Category:       "Binary Content Detected",
		Message:        "The file appears to be non-textual or corrupted.",
		Recommendation: "Upload only plain text source code files.",
	}
}

func unverifiedMIME() types.Finding {
	return types.Finding{
		Severity:       types.SevWarning,
		Category:       "Unverified MIME Type",
		Message:        "The file has an unknown or unsupported MIME type.",
		Recommendation: "Make sure you are uploading a code file (not an executable or image).",
	}
}

func blocked() types.Finding {
	return types.Finding{
		Severity:       types.SevCritical,
		Category:       "Blocked Malicious Pattern",
		Message:        "The code contains patterns commonly associated with abuse or injection.",
		Recommendation: "Remove or sanitize dangerous logic before scanning.",
	}
}

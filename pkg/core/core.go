package core

import (
	"context"

	"github.com/nuvai/nuvai/internal/engine"
	"github.com/nuvai/nuvai/internal/language"
	"github.com/nuvai/nuvai/internal/report"
	"github.com/nuvai/nuvai/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Config   = engine.Config
	Result   = engine.Result
	Finding  = types.Finding
	Severity = types.Severity
	Language = types.Language
)

// ScanCode runs the rule set for lang against code. It never fails: missing
// input, unsupported languages and checker faults come back as a single
// ERROR finding.
func ScanCode(code, lang string) []Finding {
	return engine.ScanCode(code, lang)
}

// Scan gates code, detects its language from filename and content, and
// scans it.
func Scan(code, filename string) []Finding {
	return engine.Scan(code, filename)
}

// DetectLanguage guesses the language of code, preferring the filename
// extension.
func DetectLanguage(filename, code string) Language {
	return language.Detect(filename, code)
}

// ScanPaths scans a file or directory tree.
func ScanPaths(ctx context.Context, cfg Config) (Result, error) {
	return engine.ScanPaths(ctx, cfg)
}

// SaveReport writes findings to a timestamped report file in the default
// report directory and returns its path.
func SaveReport(findings []Finding, format string) (string, error) {
	return report.SaveReport(findings, format)
}

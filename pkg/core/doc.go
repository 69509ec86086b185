// Package core provides a small, stable facade over Nuvai's internal scanner
// for external integrations. It re-exports a narrow API surface so other
// tools can depend on a stable import path without importing internal
// packages.
//
// Example:
//
//	findings := core.ScanCode(src, "python")
//	_ = core.MarshalFindings(os.Stdout, findings)
package core

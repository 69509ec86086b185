// Package errs holds the error taxonomy shared by the scanning core. Every
// terminal condition maps to exactly one user-facing finding via
// (*ScanError).Finding; internal detail stays in Err and is only logged.
package errs

import (
	"errors"
	"fmt"

	"github.com/nuvai/nuvai/internal/types"
)

// Base error types
var (
	ErrInputRejected       = errors.New("input rejected")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrCheckerFault        = errors.New("checker fault")
	ErrCancelled           = errors.New("scan cancelled")
)

// Kind is the category of a scan failure.
type Kind string

const (
	KindMissingInput Kind = "missing_input"
	KindUnsupported  Kind = "unsupported_language"
	KindFault        Kind = "checker_fault"
	KindCancelled    Kind = "cancelled"
)

// ScanError describes why a scan could not produce rule findings.
type ScanError struct {
	Kind     Kind
	Op       string // e.g. "dispatch", "run_checks"
	Language string
	Err      error
}

func (e *ScanError) Error() string {
	msg := string(e.Kind)
	if e.Language != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Language)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface
func (e *ScanError) Is(target error) bool {
	switch target {
	case ErrInputRejected:
		return e.Kind == KindMissingInput
	case ErrUnsupportedLanguage:
		return e.Kind == KindUnsupported
	case ErrCheckerFault:
		return e.Kind == KindFault
	case ErrCancelled:
		return e.Kind == KindCancelled
	}
	return false
}

// Finding converts the error into the single finding reported to the caller.
func (e *ScanError) Finding() types.Finding {
	switch e.Kind {
	case KindMissingInput:
		return types.Finding{
			Severity:       types.SevError,
			Category:       "Missing Input",
			Message:        "Missing source code or language type.",
			Recommendation: "Please check the input and try again.",
		}
	case KindUnsupported:
		return types.Finding{
			Severity:       types.SevError,
			Category:       "Unsupported Language",
			Message:        fmt.Sprintf("The language '%s' is currently not supported. Supported languages: %s.", e.Language, types.SupportedNames()),
			Recommendation: "Check for updates or verify file extension.",
		}
	case KindCancelled:
		return types.Finding{
			Severity:       types.SevError,
			Category:       "Scan Cancelled",
			Message:        "The scan was cancelled before all checks completed.",
			Recommendation: "Retry the scan with a longer deadline.",
		}
	}
	return types.Finding{
		Severity:       types.SevError,
		Category:       "Unexpected Scanner Error",
		Message:        "A critical error occurred during scanning.",
		Recommendation: "Please try again or contact support.",
	}
}

// MissingInput reports empty code or an empty language tag.
func MissingInput(op string) *ScanError {
	return &ScanError{Kind: KindMissingInput, Op: op}
}

// Unsupported reports a language without a rule set.
func Unsupported(op, language string) *ScanError {
	return &ScanError{Kind: KindUnsupported, Op: op, Language: language}
}

// Fault wraps a checker failure, including recovered panics.
func Fault(op, language string, err error) *ScanError {
	return &ScanError{Kind: KindFault, Op: op, Language: language, Err: err}
}

// Cancelled wraps a context error observed between checks.
func Cancelled(op, language string, err error) *ScanError {
	return &ScanError{Kind: KindCancelled, Op: op, Language: language, Err: err}
}

// FindingFor returns the finding for err. Errors outside the taxonomy are
// reported as checker faults.
func FindingFor(err error) types.Finding {
	var se *ScanError
	if errors.As(err, &se) {
		return se.Finding()
	}
	return Fault("scan", "", err).Finding()
}

// PanicError carries a recovered panic value and the stack at recovery.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

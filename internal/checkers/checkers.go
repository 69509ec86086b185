// Package checkers holds the per-language rule sets. Each Check is a single
// pattern rule reporting at most one finding; a Checker runs a language's
// checks in declaration order with an optional per-check deadline.
package checkers

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"github.com/nuvai/nuvai/internal/errs"
	"github.com/nuvai/nuvai/internal/types"
)

// Check is a single pattern rule. It reports at most one finding per scan.
// When Match returns a non-empty detail and MessageFormat is set, the finding
// message is MessageFormat with the detail substituted.
type Check struct {
	ID             string
	Severity       types.Severity
	Category       string
	Message        string
	MessageFormat  string
	Recommendation string
	Match          Matcher
}

func (c Check) finding(detail string) types.Finding {
	msg := c.Message
	if detail != "" && c.MessageFormat != "" {
		msg = fmt.Sprintf(c.MessageFormat, detail)
	}
	return types.Finding{
		Severity:       c.Severity,
		Category:       c.Category,
		Message:        msg,
		Recommendation: c.Recommendation,
		Check:          c.ID,
	}
}

// Checker runs a language's rule set against one piece of code.
type Checker interface {
	Language() types.Language
	RunAllChecks(ctx context.Context) ([]types.Finding, error)
}

// Option configures a checker.
type Option func(*ruleChecker)

// WithCheckTimeout bounds the wall time of each check. A check that runs past
// the deadline reports nothing. Zero disables the bound.
func WithCheckTimeout(d time.Duration) Option {
	return func(c *ruleChecker) { c.timeout = d }
}

// WithTimeoutHook is called with the ID of every check that hit the deadline.
func WithTimeoutHook(fn func(checkID string)) Option {
	return func(c *ruleChecker) { c.onTimeout = fn }
}

// WithFilter keeps only the checks for which keep returns true.
func WithFilter(keep func(checkID string) bool) Option {
	return func(c *ruleChecker) {
		if keep == nil {
			return
		}
		kept := c.checks[:0:0]
		for _, chk := range c.checks {
			if keep(chk.ID) {
				kept = append(kept, chk)
			}
		}
		c.checks = kept
	}
}

type ruleChecker struct {
	lang      types.Language
	code      string
	checks    []Check
	timeout   time.Duration
	onTimeout func(string)
	findings  []types.Finding
}

func (c *ruleChecker) Language() types.Language { return c.lang }

// RunAllChecks evaluates checks in declaration order. The context is
// consulted before each check; on cancellation the findings collected so far
// are returned with the context error.
func (c *ruleChecker) RunAllChecks(ctx context.Context) ([]types.Finding, error) {
	c.findings = nil
	for _, chk := range c.checks {
		if err := ctx.Err(); err != nil {
			return c.findings, err
		}
		detail, ok := c.eval(ctx, chk)
		if err := ctx.Err(); err != nil {
			return c.findings, err
		}
		if ok {
			c.findings = append(c.findings, chk.finding(detail))
		}
	}
	return c.findings, nil
}

type evalResult struct {
	detail string
	ok     bool
	panic  *errs.PanicError
}

func (c *ruleChecker) eval(ctx context.Context, chk Check) (string, bool) {
	if c.timeout <= 0 {
		return chk.Match(c.code)
	}
	done := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- evalResult{panic: &errs.PanicError{Value: r, Stack: debug.Stack()}}
			}
		}()
		d, ok := chk.Match(c.code)
		done <- evalResult{detail: d, ok: ok}
	}()
	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case r := <-done:
		if r.panic != nil {
			// surface on the caller's goroutine so the dispatcher can recover it
			panic(r.panic)
		}
		return r.detail, r.ok
	case <-timer.C:
		if c.onTimeout != nil {
			c.onTimeout(chk.ID)
		}
		return "", false
	case <-ctx.Done():
		return "", false
	}
}

// checkSets maps each language to its ordered rule set. The shared credential
// check runs last for every language.
var checkSets = map[types.Language][]Check{
	types.LangPython:     pythonChecks,
	types.LangJavaScript: javascriptChecks,
	types.LangTypeScript: typescriptChecks,
	types.LangJSX:        jsxChecks,
	types.LangPHP:        phpChecks,
	types.LangHTML:       htmlChecks,
	types.LangCPP:        cppChecks,
}

// New returns the checker for lang loaded with code.
func New(lang types.Language, code string, opts ...Option) (Checker, error) {
	checks, ok := checkSets[lang]
	if !ok {
		return nil, errs.Unsupported("new_checker", string(lang))
	}
	return NewWithChecks(lang, code, withCredentials(lang, checks), opts...), nil
}

// NewWithChecks returns a checker for lang that runs checks in order instead
// of the built-in rule set.
func NewWithChecks(lang types.Language, code string, checks []Check, opts ...Option) Checker {
	c := &ruleChecker{lang: lang, code: code, checks: checks}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Has reports whether lang has a rule set.
func Has(lang types.Language) bool {
	_, ok := checkSets[lang]
	return ok
}

func withCredentials(lang types.Language, checks []Check) []Check {
	out := make([]Check, 0, len(checks)+1)
	out = append(out, checks...)
	return append(out, credentialCheck(lang))
}

// Checks returns the ordered rule set for lang.
func Checks(lang types.Language) []Check {
	checks, ok := checkSets[lang]
	if !ok {
		return nil
	}
	return withCredentials(lang, checks)
}

// CatalogEntry describes one check for listings.
type CatalogEntry struct {
	Language types.Language `json:"language"`
	ID       string         `json:"id"`
	Severity types.Severity `json:"severity"`
	Category string         `json:"category"`
}

// Catalog lists every check of every language, languages in display order.
func Catalog() []CatalogEntry {
	var out []CatalogEntry
	for _, lang := range types.Supported {
		for _, chk := range Checks(lang) {
			out = append(out, CatalogEntry{Language: lang, ID: chk.ID, Severity: chk.Severity, Category: chk.Category})
		}
	}
	return out
}

// IDs returns all check IDs sorted.
func IDs() []string {
	var ids []string
	for _, e := range Catalog() {
		ids = append(ids, e.ID)
	}
	sort.Strings(ids)
	return ids
}

// RunCheck evaluates a single check by ID.
func RunCheck(lang types.Language, id, code string) ([]types.Finding, error) {
	for _, chk := range Checks(lang) {
		if chk.ID != id {
			continue
		}
		return NewWithChecks(lang, code, []Check{chk}).RunAllChecks(context.Background())
	}
	return nil, fmt.Errorf("unknown check %q for %s", id, lang)
}

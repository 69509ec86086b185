package engine

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nuvai/nuvai/internal/checkers"
	"github.com/nuvai/nuvai/internal/errs"
	"github.com/nuvai/nuvai/internal/gate"
	"github.com/nuvai/nuvai/internal/language"
	"github.com/nuvai/nuvai/internal/metrics"
	"github.com/nuvai/nuvai/internal/types"
)

// Dispatcher resolves a language to its checker, runs it, and normalizes the
// result so every scan returns at least one finding. It holds no per-scan
// state and is safe for concurrent use.
type Dispatcher struct {
	log          zerolog.Logger
	rec          *metrics.Recorder
	gate         *gate.Gate
	checkTimeout time.Duration
	keep         func(checkID string) bool

	newChecker func(types.Language, string, ...checkers.Option) (checkers.Checker, error)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

func WithRecorder(r *metrics.Recorder) Option {
	return func(d *Dispatcher) { d.rec = r }
}

// WithGate replaces the default input gate. A nil gate disables gating in Scan.
func WithGate(g *gate.Gate) Option {
	return func(d *Dispatcher) { d.gate = g }
}

// WithCheckTimeout bounds each individual check. Zero means no bound.
func WithCheckTimeout(t time.Duration) Option {
	return func(d *Dispatcher) { d.checkTimeout = t }
}

// WithCheckFilter restricts which checks run. An empty enable list allows
// every check; disable is applied afterwards.
func WithCheckFilter(enable, disable []string) Option {
	return func(d *Dispatcher) {
		if len(enable) == 0 && len(disable) == 0 {
			d.keep = nil
			return
		}
		allowed := toSet(enable)
		blocked := toSet(disable)
		d.keep = func(id string) bool {
			if len(allowed) > 0 && !allowed[id] {
				return false
			}
			return !blocked[id]
		}
	}
}

func toSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out[id] = true
		}
	}
	return out
}

// NewDispatcher returns a dispatcher with a discarding logger, no metrics and
// the default gate unless overridden.
func NewDispatcher(opts ...Option) *Dispatcher {
	g, _ := gate.New()
	d := &Dispatcher{
		log:        zerolog.Nop(),
		gate:       g,
		newChecker: checkers.New,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ScanCode runs the rule set for language against code. It never returns an
// empty slice and never panics.
func (d *Dispatcher) ScanCode(ctx context.Context, code, tag string) []types.Finding {
	return d.scanCode(ctx, code, tag, nil)
}

// scanCode is ScanCode with an extra hook fired for every check that hit the
// per-check deadline.
func (d *Dispatcher) scanCode(ctx context.Context, code, tag string, onTimeout func(checkID string)) (out []types.Finding) {
	started := time.Now()
	code = strings.TrimSpace(code)
	tag = strings.TrimSpace(tag)
	if code == "" || tag == "" {
		return d.fail(errs.MissingInput("dispatch"), tag, started)
	}
	lang, ok := types.ParseLanguage(tag)
	if !ok || !checkers.Has(lang) {
		return d.fail(errs.Unsupported("dispatch", tag), "unsupported", started)
	}

	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			value := r
			if pe, ok := r.(*errs.PanicError); ok {
				value, stack = pe.Value, pe.Stack
			}
			d.log.Error().
				Str("language", string(lang)).
				Interface("panic", value).
				Bytes("stack", stack).
				Msg("checker panicked")
			out = d.fail(errs.Fault("run_checks", string(lang), &errs.PanicError{Value: value, Stack: stack}), string(lang), started)
		}
	}()

	opts := []checkers.Option{
		checkers.WithFilter(d.keep),
		checkers.WithCheckTimeout(d.checkTimeout),
		checkers.WithTimeoutHook(func(id string) {
			d.log.Warn().Str("check", id).Dur("timeout", d.checkTimeout).Msg("check exceeded deadline")
			d.rec.CheckTimedOut(id)
			if onTimeout != nil {
				onTimeout(id)
			}
		}),
	}
	chk, err := d.newChecker(lang, code, opts...)
	if err != nil {
		return d.fail(errs.Fault("new_checker", string(lang), err), string(lang), started)
	}
	findings, err := chk.RunAllChecks(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return d.fail(errs.Cancelled("run_checks", string(lang), err), string(lang), started)
		}
		return d.fail(errs.Fault("run_checks", string(lang), err), string(lang), started)
	}

	if len(findings) == 0 {
		out = []types.Finding{noIssues()}
		d.observe(string(lang), "clean", started, out)
		return out
	}
	out = make([]types.Finding, 0, len(findings)+1)
	out = append(out, findings...)
	out = append(out, guidance())
	d.observe(string(lang), "findings", started, out)
	return out
}

// Scan gates the request, detects its language and dispatches it. Advisory
// gate findings precede the checker's findings.
func (d *Dispatcher) Scan(ctx context.Context, req types.ScanRequest) []types.Finding {
	return d.scan(ctx, req, nil)
}

func (d *Dispatcher) scan(ctx context.Context, req types.ScanRequest, onTimeout func(checkID string)) []types.Finding {
	var advisories []types.Finding
	if d.gate != nil {
		ok, fs := d.gate.Validate(req.Code, req.Filename)
		if !ok {
			return d.reject(req.Filename, fs[0])
		}
		advisories = fs
	}
	lang := language.Detect(req.Filename, req.Code)
	d.log.Debug().Str("file", req.Filename).Str("language", string(lang)).Msg("language resolved")
	results := d.scanCode(ctx, req.Code, string(lang), onTimeout)
	if len(advisories) == 0 {
		return results
	}
	return append(advisories, results...)
}

// reject records a terminal gate finding for filename and returns it alone.
func (d *Dispatcher) reject(filename string, f types.Finding) []types.Finding {
	d.rec.GateRejected(f.Category)
	d.log.Info().Str("file", filename).Str("category", f.Category).Msg("input rejected by gate")
	return []types.Finding{f}
}

func (d *Dispatcher) fail(err *errs.ScanError, lang string, started time.Time) []types.Finding {
	if err.Kind == errs.KindFault {
		d.log.Error().Err(err).Msg("scan failed")
	} else {
		d.log.Debug().Err(err).Msg("scan not run")
	}
	out := []types.Finding{err.Finding()}
	d.observe(lang, string(err.Kind), started, out)
	return out
}

func (d *Dispatcher) observe(lang, outcome string, started time.Time, fs []types.Finding) {
	d.rec.ObserveScan(lang, outcome, time.Since(started), fs)
}

func noIssues() types.Finding {
	return types.Finding{
		Severity:       types.SevInfo,
		Category:       "No Issues Detected",
		Message:        "The scan completed but no issues were found.",
		Recommendation: "Continue following secure coding practices.",
	}
}

func guidance() types.Finding {
	return types.Finding{
		Severity: types.SevTip,
		Category: "Security Guidance",
		Message:  "Consider applying secure development best practices.",
		Recommendation: "- Validate all user inputs strictly.\n" +
			"- Avoid insecure default configurations.\n" +
			"- Use secure libraries and keep them updated.\n" +
			"- Avoid exposing debug or verbose logs in production.\n" +
			"- Perform code reviews and vulnerability assessments regularly.",
	}
}

var defaultDispatcher = NewDispatcher()

// ScanCode runs the default dispatcher without a deadline.
func ScanCode(code, lang string) []types.Finding {
	return defaultDispatcher.ScanCode(context.Background(), code, lang)
}

// Scan runs gate, detection and dispatch with the default dispatcher.
func Scan(code, filename string) []types.Finding {
	return defaultDispatcher.Scan(context.Background(), types.ScanRequest{Code: code, Filename: filename})
}

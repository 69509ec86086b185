package engine

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuvai/nuvai/internal/checkers"
	"github.com/nuvai/nuvai/internal/gate"
	"github.com/nuvai/nuvai/internal/logging"
	"github.com/nuvai/nuvai/internal/metrics"
	"github.com/nuvai/nuvai/internal/types"
)

func TestScanCodeCleanInput(t *testing.T) {
	fs := ScanCode("def add(a, b):\n    return a + b\n", "python")
	require.Len(t, fs, 1)
	assert.Equal(t, types.SevInfo, fs[0].Severity)
	assert.Equal(t, "No Issues Detected", fs[0].Category)
}

func TestScanCodeFindingsEndWithGuidance(t *testing.T) {
	fs := ScanCode("eval(input())", "python")
	require.GreaterOrEqual(t, len(fs), 2)
	assert.Equal(t, types.SevCritical, fs[0].Severity)
	assert.Equal(t, "Dynamic Code Execution", fs[0].Category)
	last := fs[len(fs)-1]
	assert.Equal(t, types.SevTip, last.Severity)
	assert.Equal(t, "Security Guidance", last.Category)
	assert.Contains(t, last.Recommendation, "- Validate all user inputs strictly.")
}

func TestScanCodeMissingInput(t *testing.T) {
	for _, tc := range []struct{ code, lang string }{
		{"", "python"},
		{"   \n\t", "python"},
		{"print(1)", ""},
	} {
		fs := ScanCode(tc.code, tc.lang)
		require.Len(t, fs, 1)
		assert.Equal(t, types.SevError, fs[0].Severity)
		assert.Equal(t, "Missing Input", fs[0].Category)
	}
}

func TestScanCodeUnsupported(t *testing.T) {
	fs := ScanCode("IDENTIFICATION DIVISION.", "cobol")
	require.Len(t, fs, 1)
	assert.Equal(t, types.SevError, fs[0].Severity)
	assert.Equal(t, "Unsupported Language", fs[0].Category)
	assert.Contains(t, fs[0].Message, types.SupportedNames())

	fs = ScanCode("hello", string(types.LangPlaintext))
	require.Len(t, fs, 1)
	assert.Equal(t, "Unsupported Language", fs[0].Category)
}

func TestScanCodeLanguageCaseInsensitive(t *testing.T) {
	assert.Equal(t, ScanCode("eval(x)", "python"), ScanCode("eval(x)", " Python "))
}

func TestScanCodeIdempotent(t *testing.T) {
	code := "<?php\necho $_GET['q'];\nsession_start();"
	first := ScanCode(code, "php")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, ScanCode(code, "php"))
	}
}

type panicChecker struct{}

func (panicChecker) Language() types.Language { return types.LangPython }
func (panicChecker) RunAllChecks(context.Context) ([]types.Finding, error) {
	var m map[string]int
	m["boom"]++
	return nil, nil
}

func TestScanCodeRecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	d := NewDispatcher(WithLogger(logging.Init(logging.Config{Format: "json", Out: &buf})))
	d.newChecker = func(types.Language, string, ...checkers.Option) (checkers.Checker, error) {
		return panicChecker{}, nil
	}
	fs := d.ScanCode(context.Background(), "x = 1", "python")
	require.Len(t, fs, 1)
	assert.Equal(t, types.SevError, fs[0].Severity)
	assert.Equal(t, "Unexpected Scanner Error", fs[0].Category)
	assert.NotContains(t, fs[0].Message, "nil map")
	assert.Contains(t, buf.String(), "checker panicked")
	assert.Contains(t, buf.String(), "nil map")
}

type errChecker struct{ err error }

func (errChecker) Language() types.Language { return types.LangPython }
func (c errChecker) RunAllChecks(context.Context) ([]types.Finding, error) {
	return nil, c.err
}

func TestScanCodeCheckerError(t *testing.T) {
	d := NewDispatcher()
	d.newChecker = func(types.Language, string, ...checkers.Option) (checkers.Checker, error) {
		return errChecker{err: errors.New("rule table corrupt")}, nil
	}
	fs := d.ScanCode(context.Background(), "x = 1", "python")
	require.Len(t, fs, 1)
	assert.Equal(t, "Unexpected Scanner Error", fs[0].Category)
}

func TestScanCodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := NewDispatcher().ScanCode(ctx, "eval(x)", "python")
	require.Len(t, fs, 1)
	assert.Equal(t, types.SevError, fs[0].Severity)
	assert.Equal(t, "Scan Cancelled", fs[0].Category)
}

func TestCheckFilter(t *testing.T) {
	d := NewDispatcher(WithCheckFilter([]string{"python.os_command"}, nil))
	fs := d.ScanCode(context.Background(), "eval(x)", "python")
	require.Len(t, fs, 1)
	assert.Equal(t, "No Issues Detected", fs[0].Category)

	d = NewDispatcher(WithCheckFilter(nil, []string{"python.dynamic_exec"}))
	fs = d.ScanCode(context.Background(), "eval(x)\nos.system(y)", "python")
	assert.Equal(t, "python.os_command", fs[0].Check)
}

func TestScanPipeline(t *testing.T) {
	fs := Scan("def hello():\n    return 42\n", "hello.py")
	require.Len(t, fs, 1)
	assert.Equal(t, "No Issues Detected", fs[0].Category)

	fs = Scan("def ok():\n    pass\nrm -rf /", "a.py")
	require.Len(t, fs, 1)
	assert.Equal(t, types.SevCritical, fs[0].Severity)
	assert.Equal(t, "Blocked Malicious Pattern", fs[0].Category)

	fs = Scan("print(1)", "")
	require.Len(t, fs, 1)
	assert.Equal(t, "Missing Input", fs[0].Category)

	fs = Scan(strings.Repeat("a", gate.HardMax+1), "big.py")
	require.Len(t, fs, 1)
	assert.Equal(t, "File Too Large", fs[0].Category)
}

func TestScanPipelineAdvisoriesFirst(t *testing.T) {
	big := strings.Repeat("x = 1\n", gate.RecommendedMax/6+10)
	fs := Scan(big, "big.py")
	require.Len(t, fs, 2)
	assert.Equal(t, "Large File Warning", fs[0].Category)
	assert.Equal(t, "No Issues Detected", fs[1].Category)
}

func TestScanPipelineWithoutGate(t *testing.T) {
	d := NewDispatcher(WithGate(nil))
	fs := d.Scan(context.Background(), types.ScanRequest{Code: "<?php\nfunction f() { return 1; }", Filename: "f.php"})
	require.Len(t, fs, 1)
	assert.Equal(t, "No Issues Detected", fs[0].Category)
}

func TestDispatcherRecordsMetrics(t *testing.T) {
	rec := metrics.New()
	d := NewDispatcher(WithRecorder(rec))
	d.Scan(context.Background(), types.ScanRequest{Code: "wget http://x", Filename: "a.py"})
	d.ScanCode(context.Background(), "eval(x)", "python")
	mfs, err := rec.Registry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["nuvai_gate_rejections_total"])
	assert.True(t, names["nuvai_scan_total"])
	assert.True(t, names["nuvai_scan_findings_total"])
}

func TestScanCodeUnsupportedTagWithRecorder(t *testing.T) {
	rec := metrics.New()
	d := NewDispatcher(WithRecorder(rec))
	var fs []types.Finding
	require.NotPanics(t, func() {
		fs = d.ScanCode(context.Background(), "x = 1", "\xffcobol")
	})
	require.Len(t, fs, 1)
	assert.Equal(t, "Unsupported Language", fs[0].Category)

	mfs, err := rec.Registry().Gather()
	require.NoError(t, err)
	var labels []string
	for _, mf := range mfs {
		if mf.GetName() != "nuvai_scan_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "language" {
					labels = append(labels, lp.GetValue())
				}
			}
		}
	}
	assert.Equal(t, []string{"unsupported"}, labels)
}

package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuvai/nuvai/internal/checkers"
	"github.com/nuvai/nuvai/internal/gate"
	"github.com/nuvai/nuvai/internal/types"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestScanPaths_Basic(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"app/main.py":   "eval(input())\n",
		"app/util.js":   "function add(a, b) { return a + b }\n",
		"README.md":     "# not scanned\n",
		"web/index.cpp": "int add(int a, int b) { return a + b; }\n",
	})
	var progressed int32
	res, err := ScanPaths(context.Background(), Config{
		Root:     dir,
		Threads:  2,
		MaxBytes: 1 << 20,
		NoCache:  true,
		NoGate:   true,
		Progress: func() { atomic.AddInt32(&progressed, 1) },
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.FilesScanned)
	assert.Equal(t, int32(3), atomic.LoadInt32(&progressed))

	paths := make([]string, len(res.Files))
	for i, f := range res.Files {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{"app/main.py", "app/util.js", "web/index.cpp"}, paths)

	main := res.Files[0]
	assert.Equal(t, types.LangPython, main.Language)
	require.NotEmpty(t, main.Findings)
	assert.Equal(t, "Dynamic Code Execution", main.Findings[0].Category)
	for _, f := range main.Findings {
		assert.Equal(t, "app/main.py", f.Path)
	}
	assert.Equal(t, "No Issues Detected", res.Files[1].Findings[0].Category)
	assert.NotEmpty(t, res.Findings())
}

func TestScanPaths_SingleFile(t *testing.T) {
	dir := writeTree(t, map[string]string{"only.php": "<?php\nsession_start();\n"})
	res, err := ScanPaths(context.Background(), Config{Root: filepath.Join(dir, "only.php"), NoCache: true, NoGate: true})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "only.php", res.Files[0].Path)
	assert.Equal(t, "php.session_fixation", res.Files[0].Findings[0].Check)
}

func TestScanPaths_GlobsAndDefaultExcludes(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"src/a.py":              "x = 1\n",
		"src/b.js":              "let y = 2\n",
		"node_modules/lib/c.js": "eval(z)\n",
		"static/app.min.js":     "eval(z)\n",
		"tests/test_a.py":       "x = 1\n",
	})
	n, err := CountTargets(Config{Root: dir, DefaultExcludes: true})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = CountTargets(Config{Root: dir, DefaultExcludes: true, IncludeGlobs: "**/*.py"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = CountTargets(Config{Root: dir, DefaultExcludes: true, IncludeGlobs: "**/*.py", ExcludeGlobs: "tests/**"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = CountTargets(Config{Root: dir})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestScanPaths_MaxBytes(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"small.py": "x = 1\n",
		"large.py": "y = '" + strings.Repeat("a", 64) + "'\n",
	})
	n, err := CountTargets(Config{Root: dir, MaxBytes: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, n, "oversized files are still targets")

	res, err := ScanPaths(context.Background(), Config{Root: dir, MaxBytes: 20, NoCache: true})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	large := res.Files[0]
	assert.Equal(t, "large.py", large.Path)
	assert.Equal(t, types.LangPython, large.Language)
	require.Len(t, large.Findings, 1)
	assert.Equal(t, "File Too Large", large.Findings[0].Category)
	assert.Contains(t, large.Findings[0].Message, "20 bytes")
	assert.Equal(t, "large.py", large.Findings[0].Path)
}

func TestScanPaths_OverHardMaxReportsTooLarge(t *testing.T) {
	big := "x = 1\n" + strings.Repeat("#", gate.HardMax+6)
	dir := writeTree(t, map[string]string{"big.py": big})

	for _, root := range []string{dir, filepath.Join(dir, "big.py")} {
		res, err := ScanPaths(context.Background(), Config{Root: root, NoCache: true})
		require.NoError(t, err)
		require.Len(t, res.Files, 1, root)
		fs := res.Files[0].Findings
		require.Len(t, fs, 1)
		assert.Equal(t, types.SevError, fs[0].Severity)
		assert.Equal(t, "File Too Large", fs[0].Category)
		assert.Equal(t, gate.TooLarge(gate.HardMax).Message, fs[0].Message)
	}

	// an explicit limit above the gate's does not bypass it
	res, err := ScanPaths(context.Background(), Config{Root: dir, MaxBytes: 4 * gate.HardMax, NoCache: true})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "File Too Large", res.Files[0].Findings[0].Category)
}

func TestScanPaths_BinaryFile(t *testing.T) {
	dir := writeTree(t, map[string]string{"blob.py": "x = 1\x00\x01\x02"})
	res, err := ScanPaths(context.Background(), Config{Root: dir, NoCache: true, KeepSources: true})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	require.Len(t, res.Files[0].Findings, 1)
	assert.Equal(t, "Binary Content Detected", res.Files[0].Findings[0].Category)
	assert.Empty(t, res.Sources())
}

func TestScanPaths_IgnoreFileMarker(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"skip.py": "# nuvai:ignore-file\nx = 1\n",
		"keep.py": "x = 1\n",
	})
	res, err := ScanPaths(context.Background(), Config{Root: dir, NoCache: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesScanned)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "keep.py", res.Files[0].Path)
}

func TestScanPaths_CacheReusesFindings(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "eval(x)\n", "b.py": "x = 1\n"})
	first, err := ScanPaths(context.Background(), Config{Root: dir, NoGate: true})
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)

	second, err := ScanPaths(context.Background(), Config{Root: dir, NoGate: true})
	require.NoError(t, err)
	assert.Equal(t, 2, second.CacheHits)
	assert.Equal(t, first.Findings(), second.Findings())

	// a different check profile must not reuse entries
	third, err := ScanPaths(context.Background(), Config{Root: dir, NoGate: true, DisableChecks: "python.dynamic_exec"})
	require.NoError(t, err)
	assert.Equal(t, 0, third.CacheHits)
	assert.Equal(t, "No Issues Detected", third.Files[0].Findings[0].Category)
}

func TestScanPaths_CacheProfile(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "x = 1\n"})
	base := Config{Root: dir, Version: "1.0.0"}
	_, err := ScanPaths(context.Background(), base)
	require.NoError(t, err)

	same, err := ScanPaths(context.Background(), base)
	require.NoError(t, err)
	assert.Equal(t, 1, same.CacheHits)

	upgraded := base
	upgraded.Version = "1.1.0"
	res, err := ScanPaths(context.Background(), upgraded)
	require.NoError(t, err)
	assert.Equal(t, 0, res.CacheHits, "new version must rescan")

	bounded := upgraded
	bounded.CheckTimeout = time.Second
	res, err = ScanPaths(context.Background(), bounded)
	require.NoError(t, err)
	assert.Equal(t, 0, res.CacheHits, "new check timeout must rescan")

	assert.NotEqual(t, base.profile(), upgraded.profile())
	assert.NotEqual(t, upgraded.profile(), bounded.profile())
}

func TestScanPaths_TimedOutScanNotCached(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "x = 1\n"})
	cfg := Config{Root: dir, CheckTimeout: 10 * time.Millisecond}
	d, err := cfg.Dispatcher()
	require.NoError(t, err)
	slow := checkers.Check{
		ID:       "python.slow",
		Severity: types.SevMedium,
		Category: "Slow",
		Match: func(string) (string, bool) {
			time.Sleep(200 * time.Millisecond)
			return "", true
		},
	}
	d.newChecker = func(lang types.Language, code string, opts ...checkers.Option) (checkers.Checker, error) {
		return checkers.NewWithChecks(lang, code, []checkers.Check{slow}, opts...), nil
	}

	for run := 0; run < 2; run++ {
		res, err := scanPaths(context.Background(), cfg, d)
		require.NoError(t, err)
		require.Len(t, res.Files, 1)
		assert.False(t, res.Files[0].Cached, "run %d", run)
		assert.Equal(t, "No Issues Detected", res.Files[0].Findings[0].Category)
	}
}

func TestScanPaths_KeepSources(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "x = 1\n"})
	res, err := ScanPaths(context.Background(), Config{Root: dir, NoCache: true, KeepSources: true})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.py": "x = 1\n"}, res.Sources())
}

func TestScanPaths_Cancelled(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "x = 1\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ScanPaths(ctx, Config{Root: dir, NoCache: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanPaths_BadRoot(t *testing.T) {
	_, err := ScanPaths(context.Background(), Config{Root: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}

func TestFastHashStable(t *testing.T) {
	assert.Equal(t, fastHash([]byte("abc")), fastHash([]byte("abc")))
	assert.NotEqual(t, fastHash([]byte("abc")), fastHash([]byte("abd")))
	assert.Len(t, fastHash([]byte("abc")), 16)
	assert.Equal(t, "0000000000000000", fastHash(nil))
}

func TestScanPaths_RestrictedToPaths(t *testing.T) {
	dir := writeTree(t, map[string]string{"a.py": "x = 1\n", "sub/b.py": "y = 2\n", "c.js": "let z = 3\n"})
	res, err := ScanPaths(context.Background(), Config{Root: dir, NoCache: true, Paths: []string{"sub/b.py", "gone.py"}})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "sub/b.py", res.Files[0].Path)
}

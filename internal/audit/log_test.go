package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuvai/nuvai/internal/types"
)

func TestNewAuditLog_PrefersGitDir(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, ".nuvai_audit.jsonl"), NewAuditLog(dir).Path())

	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	assert.Equal(t, filepath.Join(dir, ".git", "nuvai_audit.jsonl"), NewAuditLog(dir).Path())

	file := filepath.Join(dir, "a.py")
	require.NoError(t, os.WriteFile(file, []byte("x = 1"), 0644))
	assert.Equal(t, filepath.Join(dir, ".git", "nuvai_audit.jsonl"), NewAuditLog(file).Path())
}

func TestLogScan_AppendsNewestFirst(t *testing.T) {
	log := NewAuditLog(t.TempDir())
	first, err := log.LogScan(ScanRecord{Root: "one"})
	require.NoError(t, err)
	_, err = uuid.Parse(first.ScanID)
	require.NoError(t, err, "scan id should be a uuid")

	_, err = log.LogScan(ScanRecord{Root: "two", ScanID: "fixed"})
	require.NoError(t, err)

	// a torn line is skipped, not fatal
	f, err := os.OpenFile(log.Path(), os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, _ = f.WriteString("{not json\n")
	require.NoError(t, f.Close())

	recs, err := log.LoadHistory()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "two", recs[0].Root)
	assert.Equal(t, "fixed", recs[0].ScanID)
	assert.Equal(t, "one", recs[1].Root)

	info, err := os.Stat(log.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadHistory_Missing(t *testing.T) {
	_, err := NewAuditLog(t.TempDir()).LoadHistory()
	assert.Error(t, err)
}

func TestCreateScanRecord(t *testing.T) {
	all := []types.Finding{
		{Severity: types.SevCritical, Category: "Dynamic Code Execution", Check: "python.dynamic_exec", Path: "a.py"},
		{Severity: types.SevTip, Category: "Security Guidance"},
		{Severity: types.SevWarning, Category: "Debug Statement Detected", Check: "javascript.debug_statement", Path: "b.js"},
		{Severity: types.SevInfo, Category: "No Issues Detected", Path: "c.py"},
	}
	rec := CreateScanRecord(ScanSummary{
		Root:         t.TempDir(),
		Findings:     all,
		NewFindings:  all[:1],
		Languages:    map[string]int{"python": 2, "javascript": 1},
		FilesScanned: 3,
		Duration:     1500 * time.Millisecond,
	})
	assert.Equal(t, 2, rec.TotalFindings)
	assert.Equal(t, 1, rec.NewFindings)
	assert.Equal(t, 1, rec.BaselinedCount)
	assert.Equal(t, map[string]int{"CRITICAL": 1, "WARNING": 1}, rec.SeverityCounts)
	assert.Equal(t, "1.5s", rec.Duration)
	require.Len(t, rec.TopFindings, 1)
	assert.Equal(t, "python.dynamic_exec", rec.TopFindings[0].Check)
	assert.Empty(t, rec.Git.Commit)
}

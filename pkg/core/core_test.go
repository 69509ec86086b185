package core

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuvai/nuvai/internal/types"
)

func TestScanCode_Clean(t *testing.T) {
	fs := ScanCode("x = 1\n", "python")
	require.Len(t, fs, 1)
	assert.Equal(t, types.SevInfo, fs[0].Severity)
	assert.Equal(t, "No Issues Detected", fs[0].Category)
}

func TestScan_GateBlocksDangerousInput(t *testing.T) {
	fs := Scan("rm -rf /\nx = 1\n", "a.py")
	require.Len(t, fs, 1)
	assert.Equal(t, "Blocked Malicious Pattern", fs[0].Category)
}

func TestScan_DetectsFromFilename(t *testing.T) {
	fs := Scan("data = pickle.loads(blob)\n", "a.py")
	require.Len(t, fs, 2)
	assert.Equal(t, "Insecure Deserialization", fs[0].Category)
	assert.Equal(t, types.SevTip, fs[1].Severity)
}

func TestScanPaths_Smoke(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0644))
	res, err := ScanPaths(context.Background(), Config{Root: dir, NoCache: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesScanned)
}

func TestMarshalUnmarshalFindings(t *testing.T) {
	in := []Finding{{Severity: types.SevHigh, Category: "c", Message: "m", Recommendation: "r", Path: "a.py"}}
	var buf bytes.Buffer
	require.NoError(t, MarshalFindings(&buf, in))
	out, err := UnmarshalFindings(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSaveReport_UnknownFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := SaveReport(nil, "docx")
	assert.Error(t, err)
}

func TestUnmarshalFindings_ReportDocument(t *testing.T) {
	doc := `{"root": "/src", "findings": [{"severity": "HIGH", "category": "c", "message": "m", "recommendation": "r"}]}`
	fs, err := UnmarshalFindings(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, types.SevHigh, fs[0].Severity)
}

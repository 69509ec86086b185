// Package audit appends one JSON line per completed scan so past runs can be
// listed with `nuvai history`.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nuvai/nuvai/internal/git"
	"github.com/nuvai/nuvai/internal/report"
	"github.com/nuvai/nuvai/internal/types"
)

type ScanRecord struct {
	Timestamp      time.Time        `json:"timestamp"`
	ScanID         string           `json:"scan_id"`
	Root           string           `json:"root"`
	Git            git.Metadata     `json:"git,omitempty"`
	TotalFindings  int              `json:"total_findings"`
	NewFindings    int              `json:"new_findings"`
	BaselinedCount int              `json:"baselined_count"`
	SeverityCounts map[string]int   `json:"severity_counts"`
	Languages      map[string]int   `json:"languages,omitempty"`
	FilesScanned   int              `json:"files_scanned"`
	Duration       string           `json:"duration"`
	BaselineFile   string           `json:"baseline_file,omitempty"`
	ReportPath     string           `json:"report_path,omitempty"`
	TopFindings    []FindingSummary `json:"top_findings,omitempty"`
}

type FindingSummary struct {
	Path     string `json:"path,omitempty"`
	Check    string `json:"check,omitempty"`
	Category string `json:"category"`
	Severity string `json:"severity"`
}

type AuditLog struct {
	logPath string
}

func NewAuditLog(root string) *AuditLog {
	if st, err := os.Stat(root); err == nil && !st.IsDir() {
		root = filepath.Dir(root)
	}
	gitDir := filepath.Join(root, ".git")
	logPath := filepath.Join(root, ".nuvai_audit.jsonl")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		logPath = filepath.Join(gitDir, "nuvai_audit.jsonl")
	}
	return &AuditLog{logPath: logPath}
}

// Path is the file records are appended to.
func (a *AuditLog) Path() string { return a.logPath }

// LoadHistory returns all records, newest first. Malformed lines are skipped.
func (a *AuditLog) LoadHistory() ([]ScanRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var record ScanRecord
		if err := json.Unmarshal(sc.Bytes(), &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// LogScan appends record, assigning a scan ID when it has none.
func (a *AuditLog) LogScan(record ScanRecord) (ScanRecord, error) {
	if record.ScanID == "" {
		record.ScanID = uuid.NewString()
	}

	// owner-only: records list file paths and finding categories
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return record, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return record, fmt.Errorf("failed to write audit record: %w", err)
	}
	return record, nil
}

// ScanSummary is the input to CreateScanRecord.
type ScanSummary struct {
	Root         string
	Findings     []types.Finding
	NewFindings  []types.Finding
	Languages    map[string]int
	FilesScanned int
	Duration     time.Duration
	BaselineFile string
	ReportPath   string
}

// CreateScanRecord builds a record from a finished scan. Informational
// findings (clean-scan notices and guidance tips) are not counted.
func CreateScanRecord(s ScanSummary) ScanRecord {
	all := report.Actionable(s.Findings)
	fresh := report.Actionable(s.NewFindings)

	severityCounts := make(map[string]int)
	for _, f := range all {
		severityCounts[string(f.Severity)]++
	}

	topFindings := make([]FindingSummary, 0, 10)
	for i, f := range fresh {
		if i >= 10 {
			break
		}
		topFindings = append(topFindings, FindingSummary{
			Path:     f.Path,
			Check:    f.Check,
			Category: f.Category,
			Severity: string(f.Severity),
		})
	}

	return ScanRecord{
		Timestamp:      time.Now().UTC(),
		Root:           s.Root,
		Git:            git.RepoMetadata(s.Root),
		TotalFindings:  len(all),
		NewFindings:    len(fresh),
		BaselinedCount: len(all) - len(fresh),
		SeverityCounts: severityCounts,
		Languages:      s.Languages,
		FilesScanned:   s.FilesScanned,
		Duration:       s.Duration.String(),
		BaselineFile:   s.BaselineFile,
		ReportPath:     s.ReportPath,
		TopFindings:    topFindings,
	}
}

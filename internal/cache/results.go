package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nuvai/nuvai/internal/types"
)

// ErrNoResults is returned by LoadResults when no scan has been recorded for
// a root.
var ErrNoResults = errors.New("no saved scan results")

// ScanResults is the last scan of a root, kept so reports can be exported
// again without rescanning.
type ScanResults struct {
	Root      string          `json:"root"`
	Timestamp time.Time       `json:"timestamp"`
	Files     int             `json:"files"`
	Languages map[string]int  `json:"languages,omitempty"`
	Duration  string          `json:"duration,omitempty"`
	Count     int             `json:"count"`
	Findings  []types.Finding `json:"findings"`
}

func resultsPath(root string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "nuvai_last_scan.json")
	}
	return filepath.Join(root, ".nuvai_last_scan.json")
}

// SaveResults stores r for root, replacing any earlier results. Timestamp
// and Count are filled in; Count excludes INFO and TIP findings.
func SaveResults(root string, r ScanResults) error {
	r.Root = root
	r.Timestamp = time.Now().UTC()
	r.Count = 0
	for _, f := range r.Findings {
		if f.Severity != types.SevInfo && f.Severity != types.SevTip {
			r.Count++
		}
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(resultsPath(root), b, 0644)
}

// LoadResults returns the last results saved for root.
func LoadResults(root string) (ScanResults, error) {
	var r ScanResults
	p := resultsPath(root)
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return r, fmt.Errorf("%w in %s", ErrNoResults, root)
	}
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return r, fmt.Errorf("parse %s: %w", p, err)
	}
	return r, nil
}

package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nuvai/nuvai/internal/types"
)

// Baseline records accepted findings so later scans report only new ones.
type Baseline struct {
	Items map[string]bool `json:"items"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(f, &b); err != nil {
		return Baseline{Items: map[string]bool{}}, fmt.Errorf("parse baseline %s: %w", path, err)
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{Items: map[string]bool{}}
	for _, f := range Actionable(findings) {
		b.Items[Key(f)] = true
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// FilterNewFindings drops findings already present in base. Informational
// wrappers are always kept.
func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if !base.Items[Key(f)] {
			out = append(out, f)
		}
	}
	return out
}

// Key identifies a finding across scans.
func Key(f types.Finding) string {
	return f.Path + "|" + ruleID(f) + "|" + f.Message
}

// DefaultFailOn is the threshold used when none is configured.
const DefaultFailOn = types.SevHigh

// ShouldFail reports whether any actionable finding reaches the failOn
// severity. An empty or unknown threshold means DefaultFailOn.
func ShouldFail(findings []types.Finding, failOn string) bool {
	th, err := types.ParseSeverity(failOn)
	if err != nil {
		th = DefaultFailOn
	}
	for _, f := range Actionable(findings) {
		if f.Severity.Rank() >= th.Rank() {
			return true
		}
	}
	return false
}

// Package files manages repository files nuvai writes alongside scanned code.
package files

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// StatePatterns are the gitignore entries for nuvai's per-repo state when it
// lives outside .git.
func StatePatterns() []string {
	return []string{
		".nuvaicache.json",
		".nuvai_last_scan.json",
		".nuvai_audit.jsonl",
	}
}

// AppendIgnore ensures each pattern is present in .gitignore at repoRoot and
// returns the ones it added. The file is created if missing. Idempotent.
func AppendIgnore(repoRoot string, patterns ...string) ([]string, error) {
	path := filepath.Join(repoRoot, ".gitignore")
	existing := map[string]bool{}
	endsWithNewline := true
	if b, err := os.ReadFile(path); err == nil {
		sc := bufio.NewScanner(strings.NewReader(string(b)))
		for sc.Scan() {
			existing[strings.TrimSpace(sc.Text())] = true
		}
		endsWithNewline = len(b) == 0 || b[len(b)-1] == '\n'
	}

	var added []string
	var sb strings.Builder
	if !endsWithNewline {
		sb.WriteString("\n")
	}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || existing[p] {
			continue
		}
		existing[p] = true
		added = append(added, p)
		sb.WriteString(p + "\n")
	}
	if len(added) == 0 {
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, err := f.WriteString(sb.String()); err != nil {
		return nil, err
	}
	return added, nil
}

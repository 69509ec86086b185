package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendIgnore_IdempotentAndCreates(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".gitignore")
	added, err := AppendIgnore(dir, ".nuvaicache.json")
	if err != nil {
		t.Fatalf("AppendIgnore: %v", err)
	}
	if len(added) != 1 {
		t.Fatalf("expected one pattern added, got %v", added)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != ".nuvaicache.json\n" {
		t.Fatalf("unexpected content: %q", string(b))
	}
	added, err = AppendIgnore(dir, StatePatterns()...)
	if err != nil {
		t.Fatalf("AppendIgnore second: %v", err)
	}
	if len(added) != len(StatePatterns())-1 {
		t.Fatalf("expected only missing patterns added, got %v", added)
	}
	b2, _ := os.ReadFile(p)
	if strings.Count(string(b2), ".nuvaicache.json") != 1 {
		t.Fatalf("expected single occurrence, got: %q", string(b2))
	}
}

func TestAppendIgnore_AddsMissingNewline(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".gitignore")
	if err := os.WriteFile(p, []byte("dist/"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := AppendIgnore(dir, ".nuvai_audit.jsonl"); err != nil {
		t.Fatalf("AppendIgnore: %v", err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "dist/\n.nuvai_audit.jsonl\n" {
		t.Fatalf("unexpected content: %q", string(b))
	}
}

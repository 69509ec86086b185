package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/nuvai/nuvai/internal/types"
)

// Entry is the cached outcome of scanning one file.
type Entry struct {
	Hash     string          `json:"hash"`
	Language types.Language  `json:"language"`
	Findings []types.Finding `json:"findings"`
}

type DB struct {
	// Profile fingerprints the options that shape findings. A mismatch
	// invalidates every entry.
	Profile string `json:"profile"`
	// Path relative to scan root -> cached outcome
	Entries map[string]Entry `json:"entries"`
}

// Lookup returns the entry for path when its hash still matches.
func (db DB) Lookup(path, hash string) (Entry, bool) {
	e, ok := db.Entries[path]
	if !ok || e.Hash != hash {
		return Entry{}, false
	}
	return e, true
}

func defaultPath(root string) string {
	// Prefer storing cache under .git to avoid accidental commits
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "nuvaicache.json")
	}
	return filepath.Join(root, ".nuvaicache.json")
}

// Load reads the cache for root. Entries recorded under a different profile
// are dropped.
func Load(root, profile string) (DB, error) {
	var db DB
	b, err := os.ReadFile(defaultPath(root))
	if err != nil {
		return DB{Profile: profile, Entries: map[string]Entry{}}, err
	}
	if err := json.Unmarshal(b, &db); err != nil {
		return DB{Profile: profile, Entries: map[string]Entry{}}, err
	}
	if db.Entries == nil || db.Profile != profile {
		db = DB{Profile: profile, Entries: map[string]Entry{}}
	}
	return db, nil
}

func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(defaultPath(root), b, 0644)
}

// Package watch re-triggers scans when source files under a directory change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/nuvai/nuvai/internal/language"
)

// DefaultDebounce is how long events are coalesced before a rescan.
const DefaultDebounce = 300 * time.Millisecond

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
}

// Options tune a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   zerolog.Logger
}

// Watch blocks until ctx is done, calling onChange with the sorted,
// root-relative paths of supported source files that changed since the last
// call. Calls are serialized on the watching goroutine.
func Watch(ctx context.Context, root string, opts Options, onChange func(paths []string)) error {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	log := opts.Logger
	if st, err := os.Stat(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	} else if !st.IsDir() {
		return fmt.Errorf("watch %s: not a directory", root)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init: %w", err)
	}
	defer w.Close()

	if err := addRecursive(w, root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	log.Debug().Str("root", root).Int("dirs", len(w.WatchList())).Msg("watching for changes")

	pending := map[string]bool{}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					if !skipDirs[filepath.Base(ev.Name)] {
						_ = addRecursive(w, ev.Name)
					}
					continue
				}
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !language.IsSupportedFile(ev.Name) {
				continue
			}
			rel, err := filepath.Rel(root, ev.Name)
			if err != nil {
				continue
			}
			pending[filepath.ToSlash(rel)] = true
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = map[string]bool{}
			log.Debug().Strs("paths", paths).Msg("change detected")
			onChange(paths)
		}
	}
}

func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}

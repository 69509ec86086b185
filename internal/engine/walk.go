package engine

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/nuvai/nuvai/internal/language"
)

// Walk traverses cfg.Root and invokes handle for each file with a supported
// extension that passes the glob and default-exclude filters. Paths handed to
// handle are relative to the root and use forward slashes. Size is not
// filtered here; ScanPaths reports oversized files.
func Walk(ctx context.Context, cfg Config, handle func(rel, abs string)) error {
	return filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx != nil {
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
		}
		if d.IsDir() {
			// Default exclude directories
			if p != cfg.Root && cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !eligible(cfg, p, d) {
			return nil
		}
		rel, _ := filepath.Rel(cfg.Root, p)
		handle(filepath.ToSlash(rel), p)
		return nil
	})
}

func eligible(cfg Config, p string, d fs.DirEntry) bool {
	if !d.Type().IsRegular() {
		return false
	}
	rel, _ := filepath.Rel(cfg.Root, p)
	rel = filepath.ToSlash(rel)
	if !language.IsSupportedFile(rel) {
		return false
	}
	if !allowedByGlobs(rel, cfg) {
		return false
	}
	if cfg.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(rel)) {
		return false
	}
	return true
}

// CountTargets reports how many files a scan of cfg would visit. It mirrors
// Walk's selection logic without reading file contents.
func CountTargets(cfg Config) (int, error) {
	ts, _, err := collectTargets(context.Background(), cfg)
	return len(ts), err
}

package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	doublestar "github.com/bmatcuk/doublestar/v4"
	xxhash "github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nuvai/nuvai/internal/cache"
	"github.com/nuvai/nuvai/internal/checkers"
	"github.com/nuvai/nuvai/internal/gate"
	"github.com/nuvai/nuvai/internal/language"
	"github.com/nuvai/nuvai/internal/metrics"
	"github.com/nuvai/nuvai/internal/types"
)

// Config controls a multi-file scan: scope, performance and which checks run.
type Config struct {
	Root            string
	IncludeGlobs    string
	ExcludeGlobs    string
	MaxBytes        int64
	Threads         int
	EnableChecks    string
	DisableChecks   string
	DefaultExcludes bool
	NoCache         bool
	NoGate          bool
	BlocklistExtra  []string
	CheckTimeout    time.Duration
	KeepSources     bool
	// Version identifies the build; cached findings from another version are
	// discarded.
	Version string
	// Paths, when non-empty, limits a directory scan to these root-relative
	// slash-separated paths.
	Paths    []string
	Progress func()

	Logger   *zerolog.Logger
	Recorder *metrics.Recorder
}

// FileResult holds the outcome for one file. Source is only populated when
// Config.KeepSources is set.
type FileResult struct {
	Path     string          `json:"path"`
	Language types.Language  `json:"language"`
	Findings []types.Finding `json:"findings"`
	Cached   bool            `json:"cached,omitempty"`
	Source   string          `json:"-"`
}

// Result contains per-file findings and basic scan statistics.
type Result struct {
	Root         string
	Files        []FileResult
	FilesScanned int
	CacheHits    int
	Skipped      int
	Duration     time.Duration
}

// Findings flattens the per-file findings in path order.
func (r Result) Findings() []types.Finding {
	var out []types.Finding
	for _, f := range r.Files {
		out = append(out, f.Findings...)
	}
	return out
}

// Sources maps file paths to their contents for files scanned with
// KeepSources.
func (r Result) Sources() map[string]string {
	out := map[string]string{}
	for _, f := range r.Files {
		if f.Source != "" {
			out[f.Path] = f.Source
		}
	}
	return out
}

// Dispatcher builds the dispatcher described by cfg.
func (cfg Config) Dispatcher() (*Dispatcher, error) {
	opts := []Option{
		WithRecorder(cfg.Recorder),
		WithCheckTimeout(cfg.CheckTimeout),
		WithCheckFilter(splitList(cfg.EnableChecks), splitList(cfg.DisableChecks)),
	}
	if cfg.Logger != nil {
		opts = append(opts, WithLogger(*cfg.Logger))
	}
	if cfg.NoGate {
		opts = append(opts, WithGate(nil))
	} else {
		g, err := gate.New(gate.WithExtraPatterns(cfg.BlocklistExtra...))
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithGate(g))
	}
	return NewDispatcher(opts...), nil
}

// profile fingerprints the options and rule catalog that change findings so
// the cache can be invalidated when they differ.
func (cfg Config) profile() string {
	parts := []string{
		"v2",
		cfg.Version,
		strings.Join(checkers.IDs(), ","),
		cfg.EnableChecks,
		cfg.DisableChecks,
		fmt.Sprint(cfg.NoGate),
		strings.Join(cfg.BlocklistExtra, "\x00"),
		cfg.CheckTimeout.String(),
	}
	return fastHash([]byte(strings.Join(parts, "\x1f")))
}

// sizeLimit is the largest file read from disk. Bigger files are reported
// with a single File Too Large finding. Zero means no limit, which only
// happens with the gate disabled and no MaxBytes.
func (cfg Config) sizeLimit() int64 {
	limit := cfg.MaxBytes
	if !cfg.NoGate && (limit <= 0 || limit > gate.HardMax) {
		limit = gate.HardMax
	}
	return limit
}

// ScanPaths scans every supported file under cfg.Root (or cfg.Root itself
// when it is a file). Files are processed concurrently; results are ordered
// by path.
func ScanPaths(ctx context.Context, cfg Config) (Result, error) {
	d, err := cfg.Dispatcher()
	if err != nil {
		return Result{Root: cfg.Root}, err
	}
	return scanPaths(ctx, cfg, d)
}

func scanPaths(ctx context.Context, cfg Config, d *Dispatcher) (Result, error) {
	res := Result{Root: cfg.Root}
	started := time.Now()
	log := d.log
	limit := cfg.sizeLimit()

	targets, cacheRoot, err := collectTargets(ctx, cfg)
	if err != nil {
		return res, err
	}

	var db cache.DB
	if !cfg.NoCache {
		db, _ = cache.Load(cacheRoot, cfg.profile())
	} else {
		db.Entries = map[string]cache.Entry{}
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	results := make([]*FileResult, len(targets))
	var (
		mu      sync.Mutex
		updated = map[string]cache.Entry{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer func() {
				if cfg.Progress != nil {
					cfg.Progress()
				}
			}()
			fr := &FileResult{Path: t.rel}
			if limit > 0 {
				if st, err := os.Stat(t.abs); err == nil && st.Size() > limit {
					fr.Language, _ = language.FromExtension(t.rel)
					fr.Findings = stampPath(d.reject(t.rel, gate.TooLarge(limit)), t.rel)
					results[i] = fr
					return nil
				}
			}
			data, err := os.ReadFile(t.abs)
			if err != nil {
				log.Warn().Err(err).Str("file", t.rel).Msg("read failed; skipping")
				return nil
			}
			if bytes.Contains(data, []byte("nuvai:ignore-file")) {
				return nil
			}
			if !cfg.NoGate && gate.LooksBinary(data) {
				fr.Language, _ = language.FromExtension(t.rel)
				fr.Findings = stampPath(d.reject(t.rel, gate.BinaryContent()), t.rel)
				results[i] = fr
				return nil
			}
			h := fastHash(data)
			if cfg.KeepSources {
				fr.Source = string(data)
			}
			if e, ok := db.Lookup(t.rel, h); ok && !cfg.NoCache {
				fr.Language, fr.Findings, fr.Cached = e.Language, stampPath(e.Findings, t.rel), true
				d.rec.CacheHit()
				results[i] = fr
				return nil
			}
			fr.Language = language.Detect(t.rel, string(data))
			// a check that hit its deadline reported nothing; retry it next run
			timedOut := false
			findings := d.scan(gctx, types.ScanRequest{Code: string(data), Filename: t.rel}, func(string) { timedOut = true })
			fr.Findings = stampPath(findings, t.rel)
			results[i] = fr
			if gctx.Err() == nil && !timedOut {
				mu.Lock()
				updated[t.rel] = cache.Entry{Hash: h, Language: fr.Language, Findings: findings}
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	for _, fr := range results {
		if fr == nil {
			res.Skipped++
			continue
		}
		res.FilesScanned++
		if fr.Cached {
			res.CacheHits++
		}
		res.Files = append(res.Files, *fr)
	}
	res.Duration = time.Since(started)

	if !cfg.NoCache && len(updated) > 0 {
		for k, v := range updated {
			db.Entries[k] = v
		}
		if err := cache.Save(cacheRoot, db); err != nil {
			log.Warn().Err(err).Msg("cache save failed")
		}
	}
	log.Info().
		Int("files", res.FilesScanned).
		Int("cache_hits", res.CacheHits).
		Int("skipped", res.Skipped).
		Dur("duration", res.Duration).
		Msg("scan complete")
	return res, nil
}

// stampPath returns a copy of fs with Path set.
func stampPath(fs []types.Finding, path string) []types.Finding {
	out := make([]types.Finding, len(fs))
	for i, f := range fs {
		f.Path = path
		out[i] = f
	}
	return out
}

type target struct {
	rel string
	abs string
}

func collectTargets(ctx context.Context, cfg Config) ([]target, string, error) {
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, "", fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return []target{{rel: filepath.Base(cfg.Root), abs: cfg.Root}}, filepath.Dir(cfg.Root), nil
	}
	var only map[string]bool
	if len(cfg.Paths) > 0 {
		only = make(map[string]bool, len(cfg.Paths))
		for _, p := range cfg.Paths {
			only[filepath.ToSlash(p)] = true
		}
	}
	var out []target
	err = Walk(ctx, cfg, func(rel, abs string) {
		if only != nil && !only[rel] {
			return
		}
		out = append(out, target{rel: rel, abs: abs})
	})
	if err != nil {
		return nil, "", err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].rel < out[j].rel })
	return out, cfg.Root, nil
}

func fastHash(b []byte) string {
	if len(b) == 0 {
		return "0000000000000000"
	}
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// allowedByGlobs returns true if the given path is allowed by the include/exclude
// glob configuration. Include globs are comma-separated and, if provided, act as
// a positive filter. Exclude globs are subtracted last.
func allowedByGlobs(relPath string, cfg Config) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	var out []string
	for _, p := range splitList(s) {
		out = append(out, p, trimGlobPrefix(p))
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(pathToMatch)); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}

package nuvai

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/nuvai/nuvai/internal/config"
	"github.com/nuvai/nuvai/internal/engine"
	"github.com/nuvai/nuvai/internal/logging"
	"github.com/nuvai/nuvai/internal/metrics"
)

func pickString(cli string, cfg *string, def string) string {
	if cli != "" {
		return cli
	}
	if cfg != nil && strings.TrimSpace(*cfg) != "" {
		return *cfg
	}
	return def
}

func pickInt(cli int, cfg *int) int {
	if cli != 0 {
		return cli
	}
	if cfg != nil {
		return *cfg
	}
	return 0
}

func pickInt64(cli int64, changed bool, cfg *int64) int64 {
	if changed || cfg == nil {
		return cli
	}
	return *cfg
}

func pickBool(cli bool, cfg *bool) bool {
	if cli {
		return true
	}
	if cfg != nil {
		return *cfg
	}
	return false
}

// scanDir is the directory holding per-repo state for target: the target
// itself, or its parent when target is a file.
func scanDir(target string) string {
	if st, err := os.Stat(target); err == nil && !st.IsDir() {
		return filepath.Dir(target)
	}
	return target
}

// loadConfig resolves the layered file config for target.
func loadConfig(target string) (config.FileConfig, error) {
	return config.Load(scanDir(target), flagEnvFile)
}

func newLogger(fc config.FileConfig) zerolog.Logger {
	return logging.Init(logging.Config{
		Format:    pickString(flagLogFormat, fc.LogFormat, "auto"),
		Level:     pickString(flagLogLevel, fc.LogLevel, "warn"),
		Component: "cli",
	})
}

// engineConfig assembles the engine configuration for target from flags
// and the file config. CLI values win over config files.
func engineConfig(target string, fc config.FileConfig, log *zerolog.Logger, rec *metrics.Recorder) (engine.Config, error) {
	timeout, err := fc.CheckTimeoutDuration()
	if err != nil {
		return engine.Config{}, err
	}
	defaultExcludes := true
	if fc.DefaultExcludes != nil {
		defaultExcludes = *fc.DefaultExcludes
	}
	return engine.Config{
		Root:            target,
		IncludeGlobs:    pickString(flagInclude, fc.Include, ""),
		ExcludeGlobs:    pickString(flagExclude, fc.Exclude, ""),
		MaxBytes:        pickInt64(flagMaxBytes, flagMaxBytesSet, fc.MaxBytes),
		Threads:         pickInt(flagThreads, fc.Threads),
		EnableChecks:    pickString(flagEnable, fc.Enable, ""),
		DisableChecks:   pickString(flagDisable, fc.Disable, ""),
		DefaultExcludes: defaultExcludes,
		NoCache:         flagNoCache,
		NoGate:          flagNoGate || !fc.GateEnabled(),
		BlocklistExtra:  fc.BlocklistExtra,
		CheckTimeout:    timeout,
		Version:         version,
		Logger:          log,
		Recorder:        rec,
	}, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

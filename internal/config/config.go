package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for Nuvai. Every field
// is optional; nil means "not set" so layers can be merged.
type FileConfig struct {
	Include         *string `yaml:"include,omitempty"`
	Exclude         *string `yaml:"exclude,omitempty"`
	MaxBytes        *int64  `yaml:"max_bytes,omitempty"`
	Threads         *int    `yaml:"threads,omitempty"`
	Enable          *string `yaml:"enable,omitempty"`
	Disable         *string `yaml:"disable,omitempty"`
	NoColor         *bool   `yaml:"no_color,omitempty"`
	DefaultExcludes *bool   `yaml:"default_excludes,omitempty"`

	// Gate toggles input gating; false is the same as --no-gate.
	Gate           *bool    `yaml:"gate,omitempty"`
	BlocklistExtra []string `yaml:"blocklist_extra,omitempty"`
	CheckTimeout   *string  `yaml:"check_timeout,omitempty"`

	ReportDir *string `yaml:"report_dir,omitempty"`
	Format    *string `yaml:"format,omitempty"`
	FailOn    *string `yaml:"fail_on,omitempty"`

	LogLevel  *string `yaml:"log_level,omitempty"`
	LogFormat *string `yaml:"log_format,omitempty"`
}

// LocalNames are the repo-local config file names, in search order.
var LocalNames = []string{".nuvai.yml", ".nuvai.yaml", "nuvai.yml", "nuvai.yaml"}

// ErrNotFound is returned when no config file exists at the searched location.
var ErrNotFound = errors.New("no config file")

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if _, err := cfg.CheckTimeoutDuration(); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
func LoadLocal(repoRoot string) (FileConfig, error) {
	for _, name := range LocalNames {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, ErrNotFound
}

// GlobalPath returns $XDG_CONFIG_HOME/nuvai/config.yml, falling back to
// ~/.config.
func GlobalPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return "", errors.New("no config dir")
	}
	return filepath.Join(base, "nuvai", "config.yml"), nil
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	p, err := GlobalPath()
	if err != nil {
		return FileConfig{}, err
	}
	if _, err := os.Stat(p); err != nil {
		return FileConfig{}, ErrNotFound
	}
	return LoadFile(p)
}

// Load resolves the effective file configuration for repoRoot: env overrides
// over the local file over the global file. Missing files are not errors;
// malformed ones are.
func Load(repoRoot, envFile string) (FileConfig, error) {
	global, err := LoadGlobal()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return FileConfig{}, err
	}
	local, err := LoadLocal(repoRoot)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return FileConfig{}, err
	}
	env, err := LoadEnv(envFile)
	if err != nil {
		return FileConfig{}, err
	}
	return Merge(env, local, global), nil
}

// Merge returns a config where each field comes from the first layer that
// sets it.
func Merge(layers ...FileConfig) FileConfig {
	var out FileConfig
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		setIf(&out.Include, l.Include)
		setIf(&out.Exclude, l.Exclude)
		setIf(&out.MaxBytes, l.MaxBytes)
		setIf(&out.Threads, l.Threads)
		setIf(&out.Enable, l.Enable)
		setIf(&out.Disable, l.Disable)
		setIf(&out.NoColor, l.NoColor)
		setIf(&out.DefaultExcludes, l.DefaultExcludes)
		setIf(&out.Gate, l.Gate)
		setIf(&out.CheckTimeout, l.CheckTimeout)
		setIf(&out.ReportDir, l.ReportDir)
		setIf(&out.Format, l.Format)
		setIf(&out.FailOn, l.FailOn)
		setIf(&out.LogLevel, l.LogLevel)
		setIf(&out.LogFormat, l.LogFormat)
		if l.BlocklistExtra != nil {
			out.BlocklistExtra = l.BlocklistExtra
		}
	}
	return out
}

func setIf[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

// CheckTimeoutDuration parses check_timeout. Unset means zero (no bound).
func (fc FileConfig) CheckTimeoutDuration() (time.Duration, error) {
	if fc.CheckTimeout == nil || strings.TrimSpace(*fc.CheckTimeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*fc.CheckTimeout))
	if err != nil {
		return 0, fmt.Errorf("check_timeout: %w", err)
	}
	return d, nil
}

// GateEnabled reports whether input gating is on (default true).
func (fc FileConfig) GateEnabled() bool {
	return fc.Gate == nil || *fc.Gate
}

// Env variable names recognised by LoadEnv.
const (
	EnvReportDir = "NUVAI_REPORT_DIR"
	EnvLogLevel  = "NUVAI_LOG_LEVEL"
	EnvLogFormat = "NUVAI_LOG_FORMAT"
	EnvThreads   = "NUVAI_THREADS"
	EnvFailOn    = "NUVAI_FAIL_ON"
)

// LoadEnv builds an override layer from NUVAI_* variables. Values come from
// the dotenv file at path (when it exists) and are superseded by the process
// environment. The process environment is never modified.
func LoadEnv(path string) (FileConfig, error) {
	vals := map[string]string{}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			m, err := godotenv.Read(path)
			if err != nil {
				return FileConfig{}, fmt.Errorf("read %s: %w", path, err)
			}
			vals = m
		}
	}
	for _, k := range []string{EnvReportDir, EnvLogLevel, EnvLogFormat, EnvThreads, EnvFailOn} {
		if v, ok := os.LookupEnv(k); ok {
			vals[k] = v
		}
	}

	var fc FileConfig
	str := func(k string) *string {
		v := strings.TrimSpace(vals[k])
		if v == "" {
			return nil
		}
		return &v
	}
	fc.ReportDir = str(EnvReportDir)
	fc.LogLevel = str(EnvLogLevel)
	fc.LogFormat = str(EnvLogFormat)
	fc.FailOn = str(EnvFailOn)
	if s := str(EnvThreads); s != nil {
		n, err := strconv.Atoi(*s)
		if err != nil {
			return FileConfig{}, fmt.Errorf("%s: %w", EnvThreads, err)
		}
		fc.Threads = &n
	}
	return fc, nil
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvReportDir, EnvLogLevel, EnvLogFormat, EnvThreads, EnvFailOn} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "nuvai.yaml", "threads: 4\nmax_bytes: 123\ngate: false\ncheck_timeout: 250ms\nblocklist_extra:\n  - nc -e\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 4 {
		t.Fatalf("expected threads=4, got %#v", cfg.Threads)
	}
	if cfg.MaxBytes == nil || *cfg.MaxBytes != 123 {
		t.Fatalf("expected max_bytes=123, got %#v", cfg.MaxBytes)
	}
	if cfg.GateEnabled() {
		t.Fatalf("expected gate disabled")
	}
	d, err := cfg.CheckTimeoutDuration()
	if err != nil || d != 250*time.Millisecond {
		t.Fatalf("expected check_timeout=250ms, got %v (%v)", d, err)
	}
	if len(cfg.BlocklistExtra) != 1 || cfg.BlocklistExtra[0] != "nc -e" {
		t.Fatalf("unexpected blocklist_extra %#v", cfg.BlocklistExtra)
	}
}

func TestLoadFile_BadTimeout(t *testing.T) {
	p := writeTemp(t, t.TempDir(), "nuvai.yaml", "check_timeout: soon\n")
	if _, err := LoadFile(p); err == nil {
		t.Fatal("expected error for malformed check_timeout")
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	// place both, expect the dotfile to be picked first by search order
	writeTemp(t, dir, "nuvai.yaml", "threads: 1\n")
	writeTemp(t, dir, ".nuvai.yaml", "threads: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 7 {
		t.Fatalf("expected threads=7 from .nuvai.yaml, got %#v", cfg.Threads)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	_, err := LoadLocal(t.TempDir())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "nuvai")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTemp(t, cfgDir, "config.yml", "threads: 9\n")
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 9 {
		t.Fatalf("expected threads=9 from global config, got %#v", cfg.Threads)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	xdg := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "nuvai"), 0o755))
	writeTemp(t, filepath.Join(xdg, "nuvai"), "config.yml", "threads: 2\nformat: pdf\nfail_on: medium\n")
	t.Setenv("XDG_CONFIG_HOME", xdg)

	repo := t.TempDir()
	writeTemp(t, repo, ".nuvai.yml", "threads: 3\nformat: html\n")
	envFile := writeTemp(t, repo, ".env", "NUVAI_THREADS=5\nNUVAI_REPORT_DIR=/tmp/out\n")

	cfg, err := Load(repo, envFile)
	require.NoError(t, err)
	require.NotNil(t, cfg.Threads)
	assert.Equal(t, 5, *cfg.Threads)
	assert.Equal(t, "html", *cfg.Format)
	assert.Equal(t, "medium", *cfg.FailOn)
	assert.Equal(t, "/tmp/out", *cfg.ReportDir)
	assert.True(t, cfg.GateEnabled())
}

func TestLoadEnv_ProcessOverridesFile(t *testing.T) {
	clearEnv(t)
	envFile := writeTemp(t, t.TempDir(), ".env", "NUVAI_LOG_LEVEL=debug\nNUVAI_THREADS=2\n")
	t.Setenv(EnvLogLevel, "warn")

	fc, err := LoadEnv(envFile)
	require.NoError(t, err)
	assert.Equal(t, "warn", *fc.LogLevel)
	assert.Equal(t, 2, *fc.Threads)
	_, set := os.LookupEnv(EnvThreads)
	assert.False(t, set, "dotenv values must not leak into the process environment")
}

func TestLoadEnv_BadThreads(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvThreads, "many")
	_, err := LoadEnv("")
	assert.Error(t, err)
}

func TestMerge_FirstLayerWins(t *testing.T) {
	a, b := "a", "b"
	n := 4
	got := Merge(FileConfig{Include: &a}, FileConfig{Include: &b, Threads: &n, BlocklistExtra: []string{"x"}})
	assert.Equal(t, "a", *got.Include)
	assert.Equal(t, 4, *got.Threads)
	assert.Equal(t, []string{"x"}, got.BlocklistExtra)
	assert.Nil(t, got.Exclude)
}

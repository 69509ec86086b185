package nuvai

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nuvai/nuvai/internal/checkers"
	"github.com/nuvai/nuvai/internal/config"
	"github.com/nuvai/nuvai/internal/files"
	"github.com/nuvai/nuvai/internal/types"
)

var (
	cfgPreset    string
	cfgOutput    string
	cfgDisable   string
	cfgThreads   int
	cfgMaxBytes  int64
	cfgFailOn    string
	cfgFormat    string
	cfgReportDir string
	cfgForce     bool
	cfgGitignore bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .nuvai.yml with selected checks and options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgPreset, "preset", "standard", "check preset: minimal (critical and high only) | standard")
	initCmd.Flags().StringVar(&cfgOutput, "output", ".nuvai.yml", "output file path")
	initCmd.Flags().StringVar(&cfgDisable, "disable", "", "comma-separated check IDs to disable")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", 0, "size limit in bytes for scanned files (0: the 2 MB gate limit)")
	initCmd.Flags().StringVar(&cfgFailOn, "fail-on", "high", "fail threshold severity")
	initCmd.Flags().StringVar(&cfgFormat, "format", "", "default export format")
	initCmd.Flags().StringVar(&cfgReportDir, "report-dir", "", "default report directory")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&cfgGitignore, "gitignore", false, "add nuvai state files to .gitignore next to the config")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(cfgOutput); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	}
	var enable string
	switch strings.ToLower(cfgPreset) {
	case "minimal":
		var ids []string
		for _, e := range checkers.Catalog() {
			if e.Severity.Rank() >= types.SevHigh.Rank() {
				ids = append(ids, e.ID)
			}
		}
		sort.Strings(ids)
		enable = strings.Join(ids, ",")
	case "standard", "":
	default:
		return fmt.Errorf("unknown preset %q (minimal | standard)", cfgPreset)
	}

	fc := config.FileConfig{
		MaxBytes:  int64Ptr(cfgMaxBytes),
		Enable:    optStrPtr(enable),
		Disable:   optStrPtr(cfgDisable),
		Threads:   intPtr(cfgThreads),
		FailOn:    optStrPtr(cfgFailOn),
		Format:    optStrPtr(cfgFormat),
		ReportDir: optStrPtr(cfgReportDir),
	}
	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
	if cfgGitignore {
		added, err := files.AppendIgnore(filepath.Dir(cfgOutput), files.StatePatterns()...)
		if err != nil {
			return err
		}
		if len(added) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Added to .gitignore: %s\n", strings.Join(added, ", "))
		}
	}
	return nil
}

func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func int64Ptr(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

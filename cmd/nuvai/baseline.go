package nuvai

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nuvai/nuvai/internal/engine"
	"github.com/nuvai/nuvai/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	var file string
	update := &cobra.Command{
		Use:   "update [path]",
		Short: "Update baseline from current scan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			abs, err := filepath.Abs(target)
			if err != nil {
				return err
			}
			fc, err := loadConfig(abs)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			log := newLogger(fc)
			cfg, err := engineConfig(abs, fc, &log, nil)
			if err != nil {
				return err
			}
			res, err := engine.ScanPaths(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			findings := report.Actionable(res.Findings())
			if err := report.SaveBaseline(file, findings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated: %d findings recorded in %s\n", len(findings), file)
			return nil
		},
	}
	update.Flags().StringVar(&file, "file", defaultBaselineFile, "baseline file to write")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}

package nuvai

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nuvai/nuvai/internal/cache"
	"github.com/nuvai/nuvai/internal/report"
)

func init() {
	var (
		format string
		dir    string
	)
	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export the results of the last scan as a report",
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
			root := scanDir(abs)
			results, err := cache.LoadResults(root)
			if err != nil {
				return fmt.Errorf("%w (run 'nuvai scan' first)", err)
			}
			fc, err := loadConfig(root)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			exp, err := report.NewExporter(pickString(dir, fc.ReportDir, ""))
			if err != nil {
				return err
			}
			path, err := exp.Save(report.Report{
				Root:         results.Root,
				FilesScanned: results.Files,
				Findings:     results.Findings,
			}, pickString(format, fc.Format, "json"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "report format: json|txt|html|pdf|sarif")
	cmd.Flags().StringVar(&dir, "report-dir", "", "directory for the report (default ~/security_reports)")
	rootCmd.AddCommand(cmd)
}

package nuvai

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/nuvai/nuvai/internal/audit"
)

func init() {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show recent scans from the audit log",
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
			records, err := audit.NewAuditLog(abs).LoadHistory()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No scans recorded yet.")
				return nil
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			table := tablewriter.NewWriter(out)
			table.Header("TIME", "SCAN ID", "COMMIT", "FILES", "FINDINGS", "NEW", "DURATION")
			for _, r := range records {
				id := r.ScanID
				if len(id) > 8 {
					id = id[:8]
				}
				row := []string{
					r.Timestamp.Local().Format("2006-01-02 15:04:05"),
					id,
					r.Git.Commit,
					strconv.Itoa(r.FilesScanned),
					strconv.Itoa(r.TotalFindings),
					strconv.Itoa(r.NewFindings),
					r.Duration,
				}
				if err := table.Append(row); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "show at most this many scans (0 = all)")
	rootCmd.AddCommand(cmd)
}

package nuvai

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/nuvai/nuvai/internal/checkers"
	"github.com/nuvai/nuvai/internal/language"
	"github.com/nuvai/nuvai/internal/report"
	"github.com/nuvai/nuvai/internal/types"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "languages",
		Short: "List supported languages and file extensions",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, l := range types.Supported {
				fmt.Fprintf(cmd.OutOrStdout(), "%-11s %s\n", l, strings.Join(language.ExtensionsFor(l), " "))
			}
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "checks [language]",
		Short: "List available checks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter types.Language
			if len(args) == 1 {
				l, ok := types.ParseLanguage(args[0])
				if !ok {
					return fmt.Errorf("unsupported language %q (supported: %s)", args[0], types.SupportedNames())
				}
				filter = l
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("LANGUAGE", "ID", "SEVERITY", "CATEGORY")
			for _, e := range checkers.Catalog() {
				if filter != "" && e.Language != filter {
					continue
				}
				if err := table.Append([]string{string(e.Language), e.ID, string(e.Severity), e.Category}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	})

	testCheck := &cobra.Command{
		Use:   "test-check <language> <check-id>",
		Short: "Run a single check against code read from stdin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, ok := types.ParseLanguage(args[0])
			if !ok {
				return fmt.Errorf("unsupported language %q (supported: %s)", args[0], types.SupportedNames())
			}
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			fs, err := checkers.RunCheck(lang, args[1], string(data))
			if err != nil {
				var ids []string
				for _, c := range checkers.Checks(lang) {
					ids = append(ids, c.ID)
				}
				return fmt.Errorf("%w; available: %s", err, strings.Join(ids, ", "))
			}
			report.PrintTable(cmd.OutOrStdout(), fs, report.PrintOptions{NoColor: flagNoColor})
			return nil
		},
	}
	rootCmd.AddCommand(testCheck)
}

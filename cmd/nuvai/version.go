package nuvai

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuvai/nuvai/internal/update"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the nuvai version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nuvai v%s\n", version)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Update nuvai to the latest release",
		RunE: func(cmd *cobra.Command, _ []string) error {
			installed, err := update.SelfUpdate(version)
			if err != nil {
				return err
			}
			if !update.Newer(installed, version) {
				fmt.Fprintf(cmd.OutOrStdout(), "nuvai v%s is already the latest version\n", version)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated to v%s\n", installed)
			return nil
		},
	})
}

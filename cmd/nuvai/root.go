package nuvai

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nuvai/nuvai/internal/report"
)

var (
	flagThreads       int
	flagFailOn        string
	flagNoColor       bool
	flagNoCache       bool
	flagNoGate        bool
	flagNoUpdateCheck bool
	flagLogLevel      string
	flagLogFormat     string
	flagEnvFile       string

	version = "0.1.0"
)

// errThreshold signals that findings reached the fail-on severity. Execute
// maps it to exit code 1 without printing an error.
var errThreshold = errors.New("findings at or above fail-on threshold")

// rootCmd is the base Cobra command for the Nuvai CLI.
var rootCmd = &cobra.Command{
	Use:           "nuvai",
	Short:         "Scan source code for security issues",
	Long:          "Nuvai detects the language of each source file and runs pattern-based security checks for Python, JavaScript, TypeScript, JSX, PHP, HTML and C++.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the Nuvai CLI. It should be called by the main package.
func Execute() {
	report.ToolVersion = version
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errThreshold) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().StringVar(&flagFailOn, "fail-on", "", "exit 1 when a finding reaches this severity (info|warning|medium|high|critical)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable incremental scan cache")
	rootCmd.PersistentFlags().BoolVar(&flagNoGate, "no-gate", false, "skip input gating (size, binary, blocklist checks)")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error|disabled")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: auto|console|json")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file with NUVAI_* overrides")
}

package nuvai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nuvai/nuvai/internal/audit"
	"github.com/nuvai/nuvai/internal/cache"
	"github.com/nuvai/nuvai/internal/config"
	"github.com/nuvai/nuvai/internal/engine"
	"github.com/nuvai/nuvai/internal/git"
	"github.com/nuvai/nuvai/internal/metrics"
	"github.com/nuvai/nuvai/internal/report"
	"github.com/nuvai/nuvai/internal/tui"
	"github.com/nuvai/nuvai/internal/types"
	"github.com/nuvai/nuvai/internal/update"
	"github.com/nuvai/nuvai/internal/watch"
)

const defaultBaselineFile = "nuvai.baseline.json"

var (
	flagInclude      string
	flagExclude      string
	flagMaxBytes     int64
	flagMaxBytesSet  bool
	flagEnable       string
	flagDisable      string
	flagJSON         bool
	flagText         bool
	flagInteractive  bool
	flagFormat       string
	flagNoExport     bool
	flagReportDir    string
	flagBaseline     string
	flagDiff         string
	flagWatch        bool
	flagUploadURL    string
	flagUploadToken  string
	flagNoUploadMeta bool
	flagCopyPath     bool
	flagMetricsFile  string
	flagNoAudit      bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a file or directory for security issues",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "report files larger than this as too large without scanning them (0: the 2 MB gate limit)")
	cmd.Flags().StringVar(&flagEnable, "enable", "", "only run these checks (comma-separated IDs)")
	cmd.Flags().StringVar(&flagDisable, "disable", "", "disable these checks (comma-separated IDs)")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "emit the report as JSON on stdout")
	cmd.Flags().BoolVar(&flagText, "text", false, "print findings as text blocks with improvement tips")
	cmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "browse findings in a terminal UI")
	cmd.Flags().StringVar(&flagFormat, "format", "", "export a report: json|txt|html|pdf|sarif")
	cmd.Flags().BoolVar(&flagNoExport, "no-export", false, "do not export or prompt for a report")
	cmd.Flags().StringVar(&flagReportDir, "report-dir", "", "directory for exported reports (default ~/security_reports)")
	cmd.Flags().StringVar(&flagBaseline, "baseline", defaultBaselineFile, "baseline file; findings in it are not reported")
	cmd.Flags().StringVar(&flagDiff, "diff", "", "only scan files changed since this git revision (e.g. main)")
	cmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "rescan when source files change")
	cmd.Flags().StringVar(&flagUploadURL, "upload", "", "POST findings (JSON) to this URL after scan")
	cmd.Flags().StringVar(&flagUploadToken, "upload-token", "", "Bearer token for upload auth")
	cmd.Flags().BoolVar(&flagNoUploadMeta, "no-upload-metadata", false, "do not include repo/commit/branch in upload envelope")
	cmd.Flags().BoolVar(&flagCopyPath, "copy-path", false, "copy the exported report path to the clipboard")
	cmd.Flags().StringVar(&flagMetricsFile, "metrics-file", "", "write Prometheus metrics in textfile format to this path")
	cmd.Flags().BoolVar(&flagNoAudit, "no-audit", false, "do not append the scan to the audit log")
}

// scanOutcome is one completed scan with baseline filtering applied.
type scanOutcome struct {
	root      string
	result    engine.Result
	findings  []types.Finding
	fresh     []types.Finding
	languages map[string]int
}

func runScan(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("scan target: %w", err)
	}
	flagMaxBytesSet = cmd.Flags().Changed("max-bytes")

	fc, err := loadConfig(abs)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := newLogger(fc)
	var rec *metrics.Recorder
	if flagMetricsFile != "" {
		rec = metrics.New()
	}
	cfg, err := engineConfig(abs, fc, &log, rec)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg.KeepSources = flagInteractive || flagFormat == "html" || pickString("", fc.Format, "") == "html"

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	quiet := flagJSON
	noColor := flagNoColor || pickBool(false, fc.NoColor)

	if !quiet && !flagNoUpdateCheck {
		if latest, newer, _ := update.Check(version, false); newer && latest != "" {
			fmt.Fprintf(errOut, "(new version available: v%s)  run 'nuvai update' to upgrade\n", latest)
		}
	}

	if flagDiff != "" {
		paths, err := git.ChangedFiles(scanDir(abs), flagDiff)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			if !quiet {
				fmt.Fprintf(errOut, "No files changed since %s\n", flagDiff)
			}
			return nil
		}
		cfg.Paths = paths
	}

	o, err := scanOnce(ctx, cfg, quiet, errOut)
	if err != nil {
		return err
	}
	log.Debug().Int("files", o.result.FilesScanned).Int("findings", len(o.findings)).Dur("took", o.result.Duration).Msg("scan finished")

	if flagInteractive {
		return browse(ctx, cfg, fc, o)
	}
	render(out, o, noColor)

	reportPath, err := exportReport(cmd, fc, o)
	if err != nil {
		return err
	}
	if reportPath != "" && flagCopyPath {
		if err := clipboard.WriteAll(reportPath); err != nil {
			fmt.Fprintln(errOut, "clipboard warning:", err)
		} else if !quiet {
			fmt.Fprintln(errOut, "Report path copied to clipboard")
		}
	}

	recordScan(log, o, reportPath)
	if rec != nil {
		if err := rec.WriteTextfile(flagMetricsFile); err != nil {
			fmt.Fprintln(errOut, "metrics warning:", err)
		}
	}
	if flagUploadURL != "" {
		if err := uploadFindings(o.root, flagUploadURL, flagUploadToken, flagNoUploadMeta, report.Actionable(o.fresh)); err != nil {
			fmt.Fprintln(errOut, "upload warning:", err)
		}
	}

	if flagWatch {
		return watchAndRescan(ctx, cfg, log, out, errOut, noColor)
	}

	if report.ShouldFail(o.fresh, pickString(flagFailOn, fc.FailOn, string(report.DefaultFailOn))) {
		return errThreshold
	}
	return nil
}

func scanOnce(ctx context.Context, cfg engine.Config, quiet bool, errOut io.Writer) (scanOutcome, error) {
	var o scanOutcome
	o.root = scanDir(cfg.Root)

	showProgress := !quiet && isTerminal(os.Stderr)
	if showProgress {
		if total, err := engine.CountTargets(cfg); err == nil && total > 0 {
			var done atomic.Int64
			cfg.Progress = func() {
				n := done.Add(1)
				if n%10 == 0 || int(n) == total {
					fmt.Fprintf(errOut, "\r[%d/%d] %.0f%%", n, total, float64(n)/float64(total)*100)
				}
			}
		}
	}
	res, err := engine.ScanPaths(ctx, cfg)
	if showProgress && cfg.Progress != nil {
		fmt.Fprintln(errOut)
	}
	if err != nil {
		return o, fmt.Errorf("scan error: %w", err)
	}
	o.result = res
	o.findings = res.Findings()

	base, err := report.LoadBaseline(flagBaseline)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return o, err
	}
	o.fresh = report.FilterNewFindings(o.findings, base)
	if o.fresh == nil {
		o.fresh = []types.Finding{}
	}

	langs := map[string]int{}
	for _, f := range res.Files {
		langs[string(f.Language)]++
	}
	saved := cache.ScanResults{
		Files:     res.FilesScanned,
		Languages: langs,
		Duration:  res.Duration.String(),
		Findings:  o.findings,
	}
	o.languages = langs
	if err := cache.SaveResults(o.root, saved); err != nil {
		fmt.Fprintln(errOut, "warning: could not cache scan results:", err)
	}
	return o, nil
}

func render(w io.Writer, o scanOutcome, noColor bool) {
	opts := report.PrintOptions{NoColor: noColor, Duration: o.result.Duration, FilesScanned: o.result.FilesScanned}
	switch {
	case flagJSON:
		_ = report.WriteJSON(w, report.Report{
			Root:         o.root,
			GeneratedAt:  time.Now().UTC(),
			FilesScanned: o.result.FilesScanned,
			Findings:     o.fresh,
		})
	case flagText:
		report.PrintText(w, o.fresh, opts)
	default:
		report.PrintTable(w, o.fresh, opts)
	}
}

// exportReport saves a report when a format was requested or chosen at the
// prompt. It returns the saved path, or "" when nothing was exported.
func exportReport(cmd *cobra.Command, fc config.FileConfig, o scanOutcome) (string, error) {
	if flagNoExport {
		return "", nil
	}
	errOut := cmd.ErrOrStderr()
	format := pickString(flagFormat, fc.Format, "")
	if format == "" {
		if flagJSON || flagWatch || !isTerminal(os.Stdin) {
			return "", nil
		}
		chosen, err := tui.PickFormat(cmd.InOrStdin(), errOut, isTerminal(os.Stdout), tui.LoadPrefs().LastFormat)
		if errors.Is(err, tui.ErrCancelled) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		format = chosen
		_ = tui.SavePrefs(tui.Prefs{LastFormat: format})
	}
	if !report.ValidFormat(format) {
		return "", fmt.Errorf("%w: %q", report.ErrUnknownFormat, format)
	}

	exp, err := report.NewExporter(pickString(flagReportDir, fc.ReportDir, ""))
	if err != nil {
		return "", err
	}
	r := report.Report{
		Root:         o.root,
		FilesScanned: o.result.FilesScanned,
		Findings:     o.fresh,
		Sources:      o.result.Sources(),
	}
	path, err := exp.Save(r, format)
	if errors.Is(err, report.ErrPDFUnavailable) {
		fmt.Fprintln(errOut, "PDF export unavailable, falling back to txt:", err)
		path, err = exp.Save(r, "txt")
	}
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(errOut, "Report saved to: %s\n", path)
	return path, nil
}

func recordScan(log zerolog.Logger, o scanOutcome, reportPath string) {
	if flagNoAudit {
		return
	}
	rec := audit.CreateScanRecord(audit.ScanSummary{
		Root:         o.root,
		Findings:     o.findings,
		NewFindings:  o.fresh,
		Languages:    o.languages,
		FilesScanned: o.result.FilesScanned,
		Duration:     o.result.Duration,
		BaselineFile: flagBaseline,
		ReportPath:   reportPath,
	})
	if _, err := audit.NewAuditLog(o.root).LogScan(rec); err != nil {
		log.Warn().Err(err).Msg("audit log not written")
	}
}

func browse(ctx context.Context, cfg engine.Config, fc config.FileConfig, o scanOutcome) error {
	base, _ := report.LoadBaseline(flagBaseline)
	return tui.Run(tui.Options{
		Findings: o.fresh,
		Sources:  o.result.Sources(),
		Baseline: base,
		Rescan: func() ([]types.Finding, error) {
			next, err := scanOnce(ctx, cfg, true, io.Discard)
			if err != nil {
				return nil, err
			}
			return next.fresh, nil
		},
		Export: func(findings []types.Finding, format string) (string, error) {
			exp, err := report.NewExporter(pickString(flagReportDir, fc.ReportDir, ""))
			if err != nil {
				return "", err
			}
			return exp.Save(report.Report{
				Root:         o.root,
				FilesScanned: o.result.FilesScanned,
				Findings:     findings,
				Sources:      o.result.Sources(),
			}, format)
		},
		SaveBase: func(findings []types.Finding) error {
			return report.SaveBaseline(flagBaseline, findings)
		},
	})
}

func watchAndRescan(ctx context.Context, cfg engine.Config, log zerolog.Logger, out, errOut io.Writer, noColor bool) error {
	dir := scanDir(cfg.Root)
	fmt.Fprintf(errOut, "Watching %s for changes (Ctrl+C to stop)...\n", dir)
	return watch.Watch(ctx, dir, watch.Options{Logger: log}, func(paths []string) {
		fmt.Fprintf(errOut, "\nChanged: %d file(s), rescanning...\n", len(paths))
		o, err := scanOnce(ctx, cfg, true, errOut)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return
		}
		render(out, o, noColor)
	})
}

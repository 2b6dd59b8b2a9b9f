package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abdidvp/vulnfix/internal/adapters/outbound/config"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/history"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/semgrep"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/trace"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/tui"
	"github.com/abdidvp/vulnfix/internal/application"
	"github.com/abdidvp/vulnfix/internal/domain"
)

func newScanCmd() *cobra.Command {
	var (
		projectPath   string
		semgrepBinary string
		rulesPath     string
		logFormat     string
		fix           bool
		write         bool
		jsonOutput    bool
		quiet         bool
		recordHistory bool
	)

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Run semgrep on a file and optionally fix what it finds",
		Long: `Run semgrep with the project's rules and classify each finding's message.

With --fix every classified category is remediated once and the fixed code is
printed to stdout. --write replaces the file instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if write {
				fix = true
			}

			filePath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			code, err := os.ReadFile(filePath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			absProject, err := filepath.Abs(projectPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			cfg, err := config.New().Load(absProject)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if semgrepBinary != "" {
				cfg.Semgrep.Binary = semgrepBinary
			}
			if rulesPath != "" {
				cfg.Semgrep.Rules = rulesPath
			}

			var logger *logrus.Logger
			if quiet {
				logger = trace.Discard()
			} else if logger, err = trace.New(cmd.ErrOrStderr(), trace.Format(logFormat)); err != nil {
				return err
			}

			scanner := semgrep.New(cfg.Semgrep.Binary, cfg.Semgrep.RulesPath(absProject))
			fixer := application.NewFixService(config.New(), history.New(), gitinfo.New(), logger)
			svc := application.NewScanService(scanner, fixer, logger)

			report, err := svc.Scan(cmd.Context(), filePath, string(code), domain.ScanOptions{
				ProjectPath:   absProject,
				Fix:           fix,
				RecordHistory: recordHistory,
			})
			if err != nil {
				return err
			}

			if write && report.Changed {
				if err := os.WriteFile(filePath, []byte(report.Fixed), 0644); err != nil {
					return fmt.Errorf("writing %s: %w", args[0], err)
				}
			}

			switch {
			case jsonOutput:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case fix && !write:
				fmt.Fprint(cmd.ErrOrStderr(), tui.RenderFindings(report))
				fmt.Fprint(cmd.OutOrStdout(), report.Fixed)
			default:
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderFindings(report))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectPath, "project", ".", "Directory holding .vulnfix.yaml and fix history")
	cmd.Flags().StringVar(&semgrepBinary, "semgrep", "", "semgrep executable (overrides semgrep.binary)")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "semgrep rules file or directory (overrides semgrep.rules)")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "Trace format: text or json")
	cmd.Flags().BoolVar(&fix, "fix", false, "Apply the rule for each classified finding")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write fixes back to the file (implies --fix)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the scan report as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the trace")
	cmd.Flags().BoolVar(&recordHistory, "history", false, "Record applied fixes in the project history")

	return cmd
}

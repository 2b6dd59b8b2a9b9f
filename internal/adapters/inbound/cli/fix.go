package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abdidvp/vulnfix/internal/adapters/outbound/config"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/history"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/trace"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/tui"
	"github.com/abdidvp/vulnfix/internal/application"
	"github.com/abdidvp/vulnfix/internal/domain"
)

func newFixCmd() *cobra.Command {
	var (
		inputPath     string
		projectPath   string
		logFormat     string
		jsonOutput    bool
		pretty        bool
		quiet         bool
		recordHistory bool
	)

	cmd := &cobra.Command{
		Use:   "fix [request-json]",
		Short: "Apply the remediation rule matching a request's issue type",
		Long: `Read a request of the form {"code": "...", "issueType": "..."} and print the rewritten code.

The request is taken from the argument, from --input, or from stdin when the
argument is "-". A trace of the run is written to stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readRequest(cmd, args, inputPath)
			if err != nil {
				return err
			}

			req, err := domain.DecodeFixRequest(data)
			if err != nil {
				return err
			}

			absPath, err := filepath.Abs(projectPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			var logger *logrus.Logger
			if quiet || pretty {
				logger = trace.Discard()
			} else if logger, err = trace.New(cmd.ErrOrStderr(), trace.Format(logFormat)); err != nil {
				return err
			}

			svc := application.NewFixService(config.New(), history.New(), gitinfo.New(), logger)
			result, err := svc.Fix(req, domain.FixOptions{ProjectPath: absPath, RecordHistory: recordHistory})
			if err != nil {
				return err
			}

			if pretty {
				fmt.Fprint(cmd.ErrOrStderr(), tui.RenderResult(result))
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Fixed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Read the request from a file (\"-\" for stdin)")
	cmd.Flags().StringVar(&projectPath, "project", ".", "Directory holding .vulnfix.yaml and fix history")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "Trace format: text or json")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full result as JSON instead of the fixed code")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Print a styled summary and diff to stderr instead of the trace")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the trace")
	cmd.Flags().BoolVar(&recordHistory, "history", false, "Record this fix in the project history")

	return cmd
}

func readRequest(cmd *cobra.Command, args []string, inputPath string) ([]byte, error) {
	switch {
	case inputPath == "-":
		return readAll(cmd.InOrStdin())
	case inputPath != "":
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, fmt.Errorf("reading request: %w", err)
		}
		return data, nil
	case len(args) == 1 && args[0] == "-":
		return readAll(cmd.InOrStdin())
	case len(args) == 1:
		return []byte(args[0]), nil
	default:
		return nil, fmt.Errorf("%w: no request given (pass it as an argument or with --input)", domain.ErrRequestMalformed)
	}
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}

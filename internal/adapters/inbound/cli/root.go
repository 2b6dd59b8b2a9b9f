package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vulnfix",
		Short:         "Rewrite code snippets to remediate detected security issues",
		Long:          "vulnfix classifies an issue label and applies one deterministic rewrite rule: secret redaction, authorization guards, SQL parameterization or output escaping.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newFixCmd())
	cmd.AddCommand(newClassifyCmd())
	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newEnrichCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show vulnfix version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "vulnfix %s (%s)\n", version, commit)
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdidvp/vulnfix/internal/adapters/outbound/config"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/history"
	"github.com/abdidvp/vulnfix/internal/adapters/outbound/tui"
	"github.com/abdidvp/vulnfix/internal/domain"
	"github.com/abdidvp/vulnfix/internal/domain/rewrite"
)

func newClassifyCmd() *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "classify <issue label...>",
		Short: "Show which category an issue label maps to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := strings.Join(args, " ")
			if explain {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderExplanation(domain.Explain(label)))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), domain.Classify(label))
			return nil
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "Show the matching keyword and hints for unclassified labels")

	return cmd
}

func newRulesCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List remediation rules in classification order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New().Load(projectPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRules(domain.ClassificationOrder, rewrite.DefaultRules(cfg), cfg))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectPath, "project", ".", "Directory holding .vulnfix.yaml")

	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		projectPath string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded fixes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be > 0 (got %d)", limit)
			}
			entries, err := history.New().Recent(projectPath, limit)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectPath, "project", ".", "Project directory")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries")

	return cmd
}

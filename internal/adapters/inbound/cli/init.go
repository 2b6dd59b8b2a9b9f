package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdidvp/vulnfix/internal/domain"
)

const configFileName = ".vulnfix.yaml"

func newInitCmd() *cobra.Command {
	var (
		lookback int
		skip     []string
		history  bool
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .vulnfix.yaml configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, configFileName)
			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", configFileName)
				}
			}

			cfg := domain.EngineConfig{LookbackWindow: lookback, SkipCategories: skip, History: history}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := os.WriteFile(dest, []byte(generateConfig(cfg)), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configFileName)
			return nil
		},
	}

	cmd.Flags().IntVar(&lookback, "lookback", domain.DefaultLookbackWindow, "Lines above a route searched for an existing guard")
	cmd.Flags().StringSliceVar(&skip, "skip", nil, "Categories to leave unchanged")
	cmd.Flags().BoolVar(&history, "history", false, "Record every fix in .vulnfix/history")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .vulnfix.yaml")

	return cmd
}

func generateConfig(cfg domain.EngineConfig) string {
	var b strings.Builder
	b.WriteString("# vulnfix configuration\n\n")

	b.WriteString("# Lines above a route declaration searched for an existing guard.\n")
	fmt.Fprintf(&b, "lookback_window: %d\n\n", cfg.EffectiveLookback())

	b.WriteString("# Categories returned unchanged. One of:\n#   ")
	var names []string
	for _, c := range domain.ClassificationOrder {
		names = append(names, string(c.Category))
	}
	b.WriteString(strings.Join(names, ", ") + "\n")
	if len(cfg.SkipCategories) > 0 {
		b.WriteString("skip_categories:\n")
		for _, s := range cfg.SkipCategories {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	} else {
		b.WriteString("# skip_categories:\n#   - xss\n")
	}

	fmt.Fprintf(&b, "\nhistory: %t\n", cfg.History)

	sg := cfg.Semgrep
	if sg.Binary == "" {
		sg.Binary = domain.DefaultSemgrepBinary
	}
	if sg.Rules == "" {
		sg.Rules = domain.DefaultSemgrepRules
	}
	b.WriteString("\n# Used by `vulnfix scan`. A relative rules path is resolved against this directory.\n")
	fmt.Fprintf(&b, "semgrep:\n  binary: %s\n  rules: %s\n", sg.Binary, sg.Rules)
	return b.String()
}

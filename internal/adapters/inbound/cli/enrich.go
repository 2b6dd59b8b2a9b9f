package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdidvp/vulnfix/internal/domain"
)

func newEnrichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enrich [prompt...]",
		Short: "Append security guidelines to a code-generation prompt",
		Long:  `Print the prompt followed by a security addendum. The prompt is read from stdin when no argument or "-" is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			if len(args) == 0 || raw == "-" {
				data, err := readAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				raw = string(data)
			}
			if strings.TrimSpace(raw) == "" {
				return errors.New("empty prompt")
			}
			fmt.Fprintln(cmd.OutOrStdout(), domain.EnrichPrompt(raw))
			return nil
		},
	}
}

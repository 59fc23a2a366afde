package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmath/internal/logging"
	"github.com/yaklabco/gomdmath/pkg/document"
)

const formatJSON = "json"

func newRulesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the diagnostics check can report",
		Long: `List every diagnostic rule with its severity and description.

Warnings fail a check run. Informational diagnostics fail it only with --strict.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules := document.Rules()

			switch format {
			case formatJSON:
				return outputRulesJSON(cmd.OutOrStdout(), rules)
			case "text", "":
			default:
				return fmt.Errorf("invalid format %q: must be text or json", format)
			}

			logger := logging.NewInteractive(cmd.OutOrStdout())
			logger.Info("available rules")

			for _, rule := range rules {
				logger.Info(rule.Name,
					logging.FieldSeverity, rule.Severity,
					logging.FieldDescription, rule.Description,
				)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

// outputRulesJSON writes rules as an indented JSON array.
func outputRulesJSON(w io.Writer, rules []document.RuleInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rules); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}

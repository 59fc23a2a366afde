package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmath/internal/configloader"
	"github.com/yaklabco/gomdmath/internal/ui/pretty"
	"github.com/yaklabco/gomdmath/pkg/document"
)

// flagGap is the minimum run of spaces pflag puts between a flag and its
// description.
const flagGap = "  "

// HelpFormatter renders Cobra help with Lipgloss styles. The root command
// also lists the environment variables the config loader reads, and the
// check command lists the rules it reports.
type HelpFormatter struct {
	command lipgloss.Style
	heading lipgloss.Style
	name    lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer))
	return &HelpFormatter{
		command: styles.InlineSpan.Bold(true),
		heading: styles.Warning,
		name:    styles.Success.UnsetBold(),
		flag:    styles.Info.UnsetBold(),
		dim:     styles.Dim,
	}
}

const helpTemplate = `{{ styleCommand .CommandPath }}{{if .Version}} {{ styleDim .Version }}{{end}}
{{with (or .Long .Short)}}
{{ trimTrailing . }}
{{end}}
{{ styleHeading "Usage:" }}{{if .Runnable}}
  {{ styleCommand .UseLine }}{{end}}{{if .HasAvailableSubCommands}}
  {{ styleCommand .CommandPath }} [command]{{end}}
{{- if .HasAvailableSubCommands}}

{{ styleHeading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleName (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ styleFlags .LocalFlags }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ styleFlags .InheritedFlags }}
{{- end}}
{{- with (rulesFor .)}}

{{ styleHeading "Rules:" }}{{range .}}
  {{ styleName (rpad .Name 20) }} {{ styleDim (print .Severity) }}  {{ .Description }}{{end}}
{{- end}}
{{- with (envFor .)}}

{{ styleHeading "Environment:" }}{{range .}}
  {{ styleFlag (rpad (index . 0) 28) }} {{ index . 1 }}{{end}}
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"styleCommand": h.command.Render,
		"styleHeading": h.heading.Render,
		"styleName":    h.name.Render,
		"styleFlag":    h.flag.Render,
		"styleDim":     h.dim.Render,
		"styleFlags":   h.styleFlags,
		"rpad":         rpad,
		"trimTrailing": trimTrailingWhitespaces,
		"rulesFor":     rulesFor,
		"envFor":       envFor,
	}
}

// ApplyToCommand installs the styled help and usage output on cmd. Cobra
// hands both functions down to subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	tmpl := template.Must(template.New("help").Funcs(h.funcs()).Parse(helpTemplate))

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := tmpl.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		if err := tmpl.Execute(command.OutOrStderr(), command); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})
}

// styleFlags colors the flag names of a pflag usage block and dims the
// value type, leaving descriptions alone.
func (h *HelpFormatter) styleFlags(flags interface{ FlagUsages() string }) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	flagPart, desc, ok := strings.Cut(trimmed, flagGap)
	if !ok {
		return line
	}

	tokens := strings.Fields(flagPart)
	for i, token := range tokens {
		if !strings.HasPrefix(token, "-") {
			tokens[i] = h.dim.Render(token)
			continue
		}
		name, comma := strings.CutSuffix(token, ",")
		tokens[i] = h.flag.Render(name)
		if comma {
			tokens[i] += ","
		}
	}

	return indent + strings.Join(tokens, " ") + flagGap + strings.TrimLeft(desc, " ")
}

func rulesFor(cmd *cobra.Command) []document.RuleInfo {
	if cmd.Name() != "check" {
		return nil
	}
	return document.Rules()
}

func envFor(cmd *cobra.Command) [][2]string {
	if cmd.HasParent() {
		return nil
	}
	return configloader.ListEnvVars()
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/gomdmath/internal/logging"
	"github.com/yaklabco/gomdmath/pkg/config"
	"github.com/yaklabco/gomdmath/pkg/fsutil"
)

// defaultConfigFile is the file init writes when --output is not given.
const defaultConfigFile = ".gomdmath.yml"

// ErrConfigExists is returned when init would overwrite a file without
// permission.
var ErrConfigExists = errors.New("configuration file already exists")

type initFlags struct {
	force    bool
	resolved bool
	output   string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a gomdmath configuration file",
		Long: `Create a commented .gomdmath.yml configuration file in the current
directory.

Examples:
  gomdmath init                      Write the default configuration
  gomdmath init --resolved           Write the configuration currently in effect
  gomdmath init --output docs.yml    Write to a custom file path
  gomdmath init --force              Overwrite an existing file without asking`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.resolved, "resolved", false,
		"write the configuration resolved from files and environment instead of defaults")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive(cmd.ErrOrStderr())

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		overwrite, err := confirmOverwrite(cmd, flags.output)
		if err != nil {
			return err
		}
		if !overwrite {
			return fmt.Errorf("%w: %s; use --force to overwrite", ErrConfigExists, flags.output)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	var cfg *config.Config
	if flags.resolved {
		cfg, _, err = loadConfig(cmd, &config.Config{})
		if err != nil {
			return err
		}
	}

	content, err := config.GenerateTemplate(cfg)
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := fsutil.WriteAtomic(commandContext(cmd), absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'gomdmath rules' to see the diagnostics check reports")

	return nil
}

// confirmOverwrite asks before replacing an existing file. Without a
// terminal on stdin it answers no.
func confirmOverwrite(cmd *cobra.Command, path string) (bool, error) {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return false, nil
	}

	if _, err := io.WriteString(cmd.ErrOrStderr(), path+" already exists. Overwrite? [y/N] "); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

package typeset

import (
	"bytes"
	"context"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout bounds a single Command invocation when none is set.
const DefaultTimeout = 10 * time.Second

// Command typesets by running an external program, katex by default.
// The math source is written to stdin and the markup read from stdout.
type Command struct {
	// Path is the executable to run.
	Path string

	// Args are passed on every invocation.
	Args []string

	// DisplayArgs are appended for display-mode math.
	DisplayArgs []string

	// Timeout bounds one invocation. Zero means DefaultTimeout.
	Timeout time.Duration

	// Fallback renders content when the command fails. Nil means Escaped.
	Fallback Engine

	// Logger receives a warning for each failed invocation.
	Logger *log.Logger
}

// NewCommand returns a Command for the katex CLI conventions. An empty
// path selects "katex"; with no args, errors are rendered inline instead
// of aborting.
func NewCommand(path string, args ...string) *Command {
	if path == "" {
		path = "katex"
	}
	if len(args) == 0 {
		args = []string{"--no-throw-on-error"}
	}
	return &Command{
		Path:        path,
		Args:        args,
		DisplayArgs: []string{"--display-mode"},
	}
}

// Render runs the command. Any failure is logged and the fallback markup
// is returned instead.
func (c *Command) Render(content string, displayMode bool) string {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	args := slices.Clone(c.Args)
	if displayMode {
		args = append(args, c.DisplayArgs...)
	}

	var stdout, stderr bytes.Buffer
	//nolint:gosec // The command is configured by the user, not by document content.
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		c.logger().Warn("typesetting failed, using fallback",
			"command", c.Path,
			"display", displayMode,
			"error", err,
			"stderr", strings.TrimSpace(stderr.String()),
		)
		return c.fallback().Render(content, displayMode)
	}

	return strings.TrimRight(stdout.String(), "\r\n")
}

func (c *Command) fallback() Engine {
	if c.Fallback == nil {
		return Escaped{}
	}
	return c.Fallback
}

func (c *Command) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// defaultLogger is the package-level default logger instance.
//
//nolint:gochecknoglobals // Package-level logger is intentional for convenience
var defaultLogger = sync.OnceValue(func() *log.Logger {
	return New("info")
})

// New creates a new stderr logger with the specified level.
// Valid levels: "debug", "info", "warn", "error".
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger writing to w with the specified level.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})

	logger.SetLevel(ParseLevel(level))

	return logger
}

// NewInteractive creates an info-level logger for user-facing command
// output, such as the init and rules commands.
func NewInteractive(w io.Writer) *log.Logger {
	return NewWithWriter(w, "info")
}

// ParseLevel converts a level name to a log.Level. Unknown names map to
// info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Default returns the package-level default logger.
func Default() *log.Logger {
	return defaultLogger()
}

// SetLevel updates the log level of the default logger.
func SetLevel(level string) {
	defaultLogger().SetLevel(ParseLevel(level))
}

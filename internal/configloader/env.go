package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/gomdmath/pkg/config"
)

// envVarPrefix is the prefix for all gomdmath environment variables.
const envVarPrefix = "GOMDMATH_"

// envVar binds one environment variable (without prefix) to a config field.
type envVar struct {
	suffix      string
	description string
	apply       func(cfg *config.Config, value string) error
}

// envVars lists the supported environment variables.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []envVar{
	{"FLAVOR", "Markdown flavor: commonmark or gfm", func(cfg *config.Config, v string) error {
		cfg.Flavor = config.Flavor(v)
		return nil
	}},
	{"DELIMITER", "Math delimiter character (default $)", func(cfg *config.Config, v string) error {
		cfg.Delimiter = v
		return nil
	}},
	{"ENGINE", "Typesetting engine: katex or plain", func(cfg *config.Config, v string) error {
		cfg.Engine.Name = config.EngineName(v)
		return nil
	}},
	{"ENGINE_COMMAND", "Executable run by the katex engine", func(cfg *config.Config, v string) error {
		cfg.Engine.Command = v
		return nil
	}},
	{"ENGINE_ARGS", "Comma-separated extra engine arguments", func(cfg *config.Config, v string) error {
		cfg.Engine.Args = parseSliceValue(v)
		return nil
	}},
	{"ENGINE_TIMEOUT", "Per-formula engine timeout (e.g. 5s)", func(cfg *config.Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("expected a duration such as 5s: %w", err)
		}
		cfg.Engine.Timeout = d
		return nil
	}},
	{"ENGINE_CACHE", "Memoize rendered formulas: true or false", func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("expected true/false/1/0: %w", err)
		}
		cfg.Engine.Cache = &b
		return nil
	}},
	{"POLICY", "Normalize policy: inline-style or utility-class", func(cfg *config.Config, v string) error {
		cfg.Normalize.Policy = v
		return nil
	}},
	{"INLINE_CLASS", "Marker class removed from hidden elements", func(cfg *config.Config, v string) error {
		cfg.Normalize.InlineClass = v
		return nil
	}},
	{"UTILITY_CLASS", "Class added under the utility-class policy", func(cfg *config.Config, v string) error {
		cfg.Normalize.UtilityClass = v
		return nil
	}},
	{"OUT_DIR", "Directory for rendered HTML", func(cfg *config.Config, v string) error {
		cfg.Output.Dir = v
		return nil
	}},
	{"OUT_EXT", "Extension of rendered files (default .html)", func(cfg *config.Config, v string) error {
		cfg.Output.Extension = v
		return nil
	}},
	{"IGNORE", "Comma-separated list of ignore patterns", func(cfg *config.Config, v string) error {
		cfg.Ignore = parseSliceValue(v)
		return nil
	}},
	{"JOBS", "Number of parallel workers (0 = auto)", func(cfg *config.Config, v string) error {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("expected an integer: %w", err)
		}
		cfg.Jobs = i
		return nil
	}},
	{"FORMAT", "Check output format: text, json or summary", func(cfg *config.Config, v string) error {
		cfg.Format = config.OutputFormat(v)
		return nil
	}},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with GOMDMATH_ (e.g., GOMDMATH_FLAVOR).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, ev := range envVars {
		name := envVarPrefix + ev.suffix
		value := os.Getenv(name)
		if value == "" {
			continue
		}

		if err := ev.apply(cfg, value); err != nil {
			return fmt.Errorf("invalid value for %s: %q: %w", name, value, err)
		}
	}

	return nil
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ListEnvVars returns the supported environment variables with their
// descriptions, sorted by name.
func ListEnvVars() [][2]string {
	vars := make([][2]string, 0, len(envVars))
	for _, ev := range envVars {
		vars = append(vars, [2]string{envVarPrefix + ev.suffix, ev.description})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i][0] < vars[j][0] })
	return vars
}

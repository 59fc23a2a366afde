package configloader

import (
	"slices"

	"github.com/yaklabco/gomdmath/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointers: override overwrites base if non-nil
//   - Slices: override replaces base entirely if override is non-nil
//   - Booleans: only true in override is visible, so override can set but
//     never clear a flag
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	setIf(&result.Flavor, override.Flavor)
	setIf(&result.Delimiter, override.Delimiter)
	setIf(&result.Format, override.Format)
	setIf(&result.Jobs, override.Jobs)

	mergeEngine(&result.Engine, override.Engine)

	setIf(&result.Normalize.Policy, override.Normalize.Policy)
	setIf(&result.Normalize.InlineClass, override.Normalize.InlineClass)
	setIf(&result.Normalize.UtilityClass, override.Normalize.UtilityClass)

	setIf(&result.Output.Dir, override.Output.Dir)
	setIf(&result.Output.Extension, override.Output.Extension)

	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	result.Stdout = result.Stdout || override.Stdout
	result.DryRun = result.DryRun || override.DryRun
	result.Strict = result.Strict || override.Strict

	return result
}

func mergeEngine(base *config.EngineConfig, override config.EngineConfig) {
	setIf(&base.Name, override.Name)
	setIf(&base.Command, override.Command)
	setIf(&base.Timeout, override.Timeout)

	if override.Args != nil {
		base.Args = slices.Clone(override.Args)
	}
	if override.Cache != nil {
		cache := *override.Cache
		base.Cache = &cache
	}
}

// setIf assigns value to *dst unless value is the zero value.
func setIf[T comparable](dst *T, value T) {
	var zero T
	if value != zero {
		*dst = value
	}
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}

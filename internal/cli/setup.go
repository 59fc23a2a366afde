package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gomdmath/internal/configloader"
	"github.com/yaklabco/gomdmath/internal/logging"
	"github.com/yaklabco/gomdmath/pkg/config"
	"github.com/yaklabco/gomdmath/pkg/document"
	"github.com/yaklabco/gomdmath/pkg/goldmath"
	"github.com/yaklabco/gomdmath/pkg/normalize"
	"github.com/yaklabco/gomdmath/pkg/typeset"
)

// sharedFlags are the flags render and check have in common. String flags
// are copied into the CLI config only when set, so file and environment
// values are not clobbered by flag defaults.
type sharedFlags struct {
	flavor        string
	delimiter     string
	engine        string
	engineCommand string
	engineTimeout time.Duration
	noCache       bool
	policy        string
	ignore        []string
	jobs          int
}

func addSharedFlags(cmd *cobra.Command, flags *sharedFlags) {
	cmd.Flags().StringVar(&flags.flavor, "flavor", "commonmark", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringVar(&flags.delimiter, "delimiter", config.DefaultDelimiter, "math delimiter character")
	cmd.Flags().StringVar(&flags.engine, "engine", string(config.EngineKaTeX), "typesetting engine: katex, plain")
	cmd.Flags().StringVar(&flags.engineCommand, "engine-command", config.DefaultKaTeXCommand,
		"executable run by the katex engine")
	cmd.Flags().DurationVar(&flags.engineTimeout, "engine-timeout", config.DefaultEngineTimeout,
		"time limit for a single typesetting call")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable memoization of rendered formulas")
	cmd.Flags().StringVar(&flags.policy, "policy", config.DefaultPolicy,
		"hidden element policy: inline-style, utility-class")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
}

// apply copies explicitly set flags into cfg.
func (f *sharedFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed

	if changed("flavor") {
		cfg.Flavor = config.Flavor(f.flavor)
	}
	if changed("delimiter") {
		cfg.Delimiter = f.delimiter
	}
	if changed("engine") {
		cfg.Engine.Name = config.EngineName(f.engine)
	}
	if changed("engine-command") {
		cfg.Engine.Command = f.engineCommand
	}
	if changed("engine-timeout") {
		cfg.Engine.Timeout = f.engineTimeout
	}
	if f.noCache {
		disabled := false
		cfg.Engine.Cache = &disabled
	}
	if changed("policy") {
		cfg.Normalize.Policy = f.policy
	}
	cfg.Ignore = f.ignore
	cfg.Jobs = f.jobs
}

// loadConfig resolves the effective configuration from config files, the
// environment and cliCfg, and returns it with the working directory used for
// discovery.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.Default()

	ctx := commandContext(cmd)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldDelimiter, cfg.Delimiter,
		logging.FieldEngine, cfg.Engine.Name,
		logging.FieldPolicy, cfg.Normalize.Policy,
		logging.FieldJobs, cfg.Jobs,
	)

	return cfg, workDir, nil
}

// pipeline is everything needed to convert documents under one
// configuration.
type pipeline struct {
	engine    typeset.Engine
	converter *document.Converter
}

// newPipeline builds the typesetting engine, the math extension and the
// document converter for cfg.
func newPipeline(cfg *config.Config, logger *log.Logger) (*pipeline, error) {
	engine, err := typeset.New(cfg.Engine, logger)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	policy, err := normalize.ParsePolicy(cfg.Normalize.Policy)
	if err != nil {
		return nil, fmt.Errorf("create normalizer: %w", err)
	}

	ext, err := goldmath.New(
		goldmath.WithDelimiter(cfg.Delimiter),
		goldmath.WithEngine(engine),
		goldmath.WithNormalizeOptions(normalize.Options{
			Policy:       policy,
			InlineClass:  cfg.Normalize.InlineClass,
			UtilityClass: cfg.Normalize.UtilityClass,
		}),
		goldmath.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &pipeline{
		engine:    engine,
		converter: document.New(cfg.Flavor, ext),
	}, nil
}

// logCacheStats reports memo hit rates when the engine is memoized.
func (p *pipeline) logCacheStats(logger *log.Logger) {
	memo, ok := p.engine.(*typeset.Memo)
	if !ok {
		return
	}
	hits, misses := memo.Stats()
	logger.Debug("typesetting cache",
		logging.FieldCacheHits, hits,
		logging.FieldCacheMisses, misses,
	)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

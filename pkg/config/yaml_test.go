package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmath/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies slices and pointers", func(t *testing.T) {
		cache := false
		original := &config.Config{
			Ignore: []string{"vendor/**"},
			Engine: config.EngineConfig{
				Args:  []string{"--strict"},
				Cache: &cache,
			},
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)

		clone.Ignore[0] = "changed"
		clone.Engine.Args[0] = "changed"
		*clone.Engine.Cache = true

		assert.Equal(t, "vendor/**", original.Ignore[0])
		assert.Equal(t, "--strict", original.Engine.Args[0])
		assert.False(t, *original.Engine.Cache)
	})

	t.Run("preserves CLI-only fields", func(t *testing.T) {
		original := config.NewConfig()
		original.Jobs = 4
		original.Stdout = true
		original.Strict = true

		clone := original.Clone()
		assert.Equal(t, 4, clone.Jobs)
		assert.True(t, clone.Stdout)
		assert.True(t, clone.Strict)
	})
}

func TestFromYAML(t *testing.T) {
	data := []byte(`
flavor: gfm
delimiter: "%"
engine:
  name: plain
  timeout: 2s
  cache: false
normalize:
  policy: utility-class
  utility_class: sr-only
output:
  dir: public
ignore:
  - drafts/**
`)

	cfg, err := config.FromYAML(data)
	require.NoError(t, err)

	assert.Equal(t, config.FlavorGFM, cfg.Flavor)
	assert.Equal(t, "%", cfg.Delimiter)
	assert.Equal(t, config.EnginePlain, cfg.Engine.Name)
	assert.Equal(t, 2*time.Second, cfg.Engine.Timeout)
	assert.False(t, cfg.Engine.CacheEnabled())
	assert.Equal(t, "utility-class", cfg.Normalize.Policy)
	assert.Equal(t, "sr-only", cfg.Normalize.UtilityClass)
	assert.Equal(t, "public", cfg.Output.Dir)
	assert.Equal(t, []string{"drafts/**"}, cfg.Ignore)
}

func TestFromYAML_Invalid(t *testing.T) {
	_, err := config.FromYAML([]byte("flavor: [unterminated"))
	require.Error(t, err)
}

func TestToYAML_RoundTrip(t *testing.T) {
	original := config.NewConfig()
	original.Ignore = []string{"a/**"}

	data, err := original.ToYAML()
	require.NoError(t, err)

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)

	assert.Equal(t, original.Flavor, parsed.Flavor)
	assert.Equal(t, original.Delimiter, parsed.Delimiter)
	assert.Equal(t, original.Engine.Timeout, parsed.Engine.Timeout)
	assert.Equal(t, original.Normalize, parsed.Normalize)
	assert.Equal(t, original.Ignore, parsed.Ignore)
}

func TestToYAMLWithHeader(t *testing.T) {
	cfg := config.NewConfig()

	data, err := cfg.ToYAMLWithHeader("# header")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# header\n\n"))
}

func TestEngineConfig_CacheEnabled(t *testing.T) {
	enabled, disabled := true, false

	assert.True(t, config.EngineConfig{}.CacheEnabled())
	assert.True(t, config.EngineConfig{Cache: &enabled}.CacheEnabled())
	assert.False(t, config.EngineConfig{Cache: &disabled}.CacheEnabled())
}

func TestGenerateTemplate(t *testing.T) {
	data, err := config.GenerateTemplate(nil)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "# gomdmath configuration")
	assert.Contains(t, text, "# Math delimiter character.")
	assert.Contains(t, text, "delimiter:")
	assert.True(t, strings.HasPrefix(text, "# gomdmath configuration\n"))
	assert.NotContains(t, text, "\n\n\n")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDelimiter, parsed.Delimiter)
	assert.Equal(t, config.EngineKaTeX, parsed.Engine.Name)
}

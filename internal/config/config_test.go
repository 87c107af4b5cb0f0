package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/shapedup/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, domain.DefaultMass, cfg.Analysis.Mass)
	assert.Equal(t, 0, cfg.Analysis.Fuzzy)
	assert.False(t, cfg.Analysis.Liberal)
	assert.Equal(t, 10*time.Second, cfg.Analysis.Timeout())
	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Output.Number)
	assert.True(t, cfg.Input.Recursive)
	assert.Empty(t, cfg.Input.IncludePatterns)
	assert.Equal(t, 0, cfg.Check.MaxTotal)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero mass", func(c *Config) { c.Analysis.Mass = 0 }},
		{"negative fuzzy", func(c *Config) { c.Analysis.Fuzzy = -1 }},
		{"zero timeout", func(c *Config) { c.Analysis.TimeoutSeconds = 0 }},
		{"negative goroutines", func(c *Config) { c.Analysis.MaxGoroutines = -2 }},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }},
		{"malformed filter", func(c *Config) { c.Analysis.Filters = []string{"(call"} }},
		{"negative max total", func(c *Config) { c.Check.MaxTotal = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, domain.ErrCodeConfigError, domain.ErrorCode(err))
		})
	}
}

func TestConfig_ValidateAcceptsBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Analysis.Mass = 1
	cfg.Analysis.Fuzzy = 3
	cfg.Analysis.Filters = []string{"(call nil puts ___)", "if"}
	cfg.Output.Format = "table"
	assert.NoError(t, cfg.Validate())
}

func TestAnalysisConfig_Patterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Analysis.Filters = []string{"(call nil puts ___)", "if"}

	patterns, err := cfg.Analysis.Patterns()
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, "(call nil puts ___)", patterns[0].String())

	cfg.Analysis.Filters = []string{"()"}
	_, err = cfg.Analysis.Patterns()
	assert.ErrorContains(t, err, `"()"`)
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "shapedup.yaml", `
analysis:
  mass: 32
  fuzzy: 1
  liberal: true
  filters: ["if"]
output:
  format: json
  diff: true
check:
  max_total: 100
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Analysis.Mass)
	assert.Equal(t, 1, cfg.Analysis.Fuzzy)
	assert.True(t, cfg.Analysis.Liberal)
	assert.Equal(t, []string{"if"}, cfg.Analysis.Filters)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Output.Diff)
	assert.Equal(t, 100, cfg.Check.MaxTotal)
	// untouched keys keep their defaults
	assert.True(t, cfg.Output.Number)
	assert.Equal(t, 10, cfg.Analysis.TimeoutSeconds)
}

func TestLoadConfig_TOMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.toml", `
[analysis]
mass = 20
`)
	t.Setenv("SHAPEDUP_ANALYSIS_MASS", "24")
	t.Setenv("SHAPEDUP_OUTPUT_SUMMARY", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Analysis.Mass)
	assert.True(t, cfg.Output.Summary)
}

func TestLoadConfig_PyprojectPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "pyproject.toml", `
[project]
name = "demo"

[tool.shapedup.analysis]
mass = 12
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Analysis.Mass)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeConfigError, domain.ErrorCode(err))

	invalid := writeFile(t, dir, "bad.yaml", "analysis:\n  mass: 0\n")
	_, err = LoadConfig(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis.mass")
}

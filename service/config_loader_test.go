package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/shapedup/domain"
)

func TestConfigLoader_LoadDefaultConfig(t *testing.T) {
	dir := t.TempDir()

	req := NewDuplicationConfigurationLoader().LoadDefaultConfig(dir)
	require.NotNil(t, req)

	assert.Equal(t, domain.DefaultMass, req.Mass)
	assert.Equal(t, 0, req.Fuzzy)
	assert.Equal(t, 10*time.Second, req.Timeout)
	assert.Equal(t, domain.OutputFormatText, req.OutputFormat)
	assert.True(t, req.Number)
	assert.True(t, req.Recursive)
	assert.Contains(t, req.ExcludePatterns, "**/vendor/**")
	assert.Equal(t, os.Stdout, req.OutputWriter)
}

func TestConfigLoader_DiscoversProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, ".shapedup.toml", `
[analysis]
mass = 24
fuzzy = 1
filters = ["(call _ puts ___)"]

[output]
format = "json"
directory = "out"

[check]
max_total = 100
`)
	sub := filepath.Join(dir, "src", "lib")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	loader := NewDuplicationConfigurationLoader()
	assert.Equal(t, filepath.Join(dir, ".shapedup.toml"), loader.FindConfigFile(sub))

	req := loader.LoadDefaultConfig(sub)
	assert.Equal(t, 24, req.Mass)
	assert.Equal(t, 1, req.Fuzzy)
	assert.Equal(t, []string{"(call _ puts ___)"}, req.Filters)
	assert.Equal(t, domain.OutputFormatJSON, req.OutputFormat)
	assert.Equal(t, "out", req.OutputDir)
	assert.Equal(t, 100, req.MaxTotal)
}

func TestConfigLoader_InvalidFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, ".shapedup.toml", "[analysis\nmass = ")

	req := NewDuplicationConfigurationLoader().LoadDefaultConfig(dir)
	assert.Equal(t, domain.DefaultMass, req.Mass)
}

func TestConfigLoader_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "custom.toml", "[analysis]\nmass = 30\nliberal = true\n")

	loader := NewDuplicationConfigurationLoader()
	req, err := loader.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30, req.Mass)
	assert.True(t, req.Liberal)
	assert.Equal(t, path, req.ConfigPath)

	_, err = loader.LoadConfig(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeConfigError, domain.ErrorCode(err))
}

func TestConfigLoader_MergeConfig(t *testing.T) {
	loader := NewDuplicationConfigurationLoader()

	base := &domain.DuplicationRequest{
		Paths:           []string{"base"},
		Mass:            24,
		Fuzzy:           1,
		Timeout:         5 * time.Second,
		OutputFormat:    domain.OutputFormatJSON,
		OutputDir:       "reports",
		Number:          true,
		Recursive:       true,
		ExcludePatterns: []string{"**/gen/**"},
		MaxTotal:        50,
	}

	t.Run("only explicit flags override", func(t *testing.T) {
		override := &domain.DuplicationRequest{
			Paths:         []string{"src"},
			Mass:          16,
			Fuzzy:         0,
			Liberal:       true,
			OutputFormat:  domain.OutputFormatText,
			Verbose:       true,
			ExplicitFlags: map[string]bool{domain.FlagLiberal: true},
		}

		merged := loader.MergeConfig(base, override)
		assert.Equal(t, []string{"src"}, merged.Paths)
		assert.Equal(t, 24, merged.Mass)
		assert.Equal(t, 1, merged.Fuzzy)
		assert.True(t, merged.Liberal)
		assert.Equal(t, domain.OutputFormatJSON, merged.OutputFormat)
		assert.Equal(t, "reports", merged.OutputDir)
		assert.Equal(t, 5*time.Second, merged.Timeout)
		assert.True(t, merged.Verbose)
		assert.Equal(t, []string{"**/gen/**"}, merged.ExcludePatterns)
		assert.Equal(t, 50, merged.MaxTotal)
	})

	t.Run("explicit zero values win", func(t *testing.T) {
		override := &domain.DuplicationRequest{
			Fuzzy:        0,
			Number:       false,
			Timeout:      time.Second,
			OutputFormat: domain.OutputFormatCSV,
			MaxTotal:     0,
			ExplicitFlags: map[string]bool{
				domain.FlagFuzzy:    true,
				domain.FlagNumber:   true,
				domain.FlagTimeout:  true,
				domain.FlagFormat:   true,
				domain.FlagMaxTotal: true,
			},
		}

		merged := loader.MergeConfig(base, override)
		assert.Equal(t, []string{"base"}, merged.Paths)
		assert.Equal(t, 0, merged.Fuzzy)
		assert.False(t, merged.Number)
		assert.Equal(t, time.Second, merged.Timeout)
		assert.Equal(t, domain.OutputFormatCSV, merged.OutputFormat)
		assert.Equal(t, 0, merged.MaxTotal)
	})

	t.Run("nil sides", func(t *testing.T) {
		assert.Same(t, base, loader.MergeConfig(base, nil))
		assert.Same(t, base, loader.MergeConfig(nil, base))
	})
}

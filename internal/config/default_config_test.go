package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDefaultConfigTOML(t *testing.T) {
	out, err := GenerateDefaultConfigTOML()
	require.NoError(t, err)

	assert.Contains(t, out, "[analysis]")
	assert.Contains(t, out, "mass = 16")
	assert.Contains(t, out, "timeout_seconds = 10")
	assert.Contains(t, out, `format = "text"`)
	assert.Contains(t, out, `"**/vendor/**", "**/node_modules/**"`)
	assert.NotContains(t, out, "{{")
}

func TestLoadDefaultConfigFromTOML_MatchesDefaults(t *testing.T) {
	cfg, err := LoadDefaultConfigFromTOML()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/pelletier/go-toml/v2"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds all values used to render the default config template.
// They are taken from DefaultConfig so the file written by init never drifts.
type DefaultConfigValues struct {
	Mass            int
	Fuzzy           int
	TimeoutSeconds  int
	MaxGoroutines   int
	Format          string
	ExcludePatterns []string
}

func newDefaultConfigValues() DefaultConfigValues {
	d := DefaultConfig()
	return DefaultConfigValues{
		Mass:            d.Analysis.Mass,
		Fuzzy:           d.Analysis.Fuzzy,
		TimeoutSeconds:  d.Analysis.TimeoutSeconds,
		MaxGoroutines:   d.Analysis.MaxGoroutines,
		Format:          d.Output.Format,
		ExcludePatterns: d.Input.ExcludePatterns,
	}
}

// GenerateDefaultConfigTOML renders the commented default .shapedup.toml
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	return buf.String(), nil
}

// LoadDefaultConfigFromTOML parses the rendered default file back into a Config
func LoadDefaultConfigFromTOML() (*Config, error) {
	configTOML, err := GenerateDefaultConfigTOML()
	if err != nil {
		return nil, err
	}

	var tomlCfg ShapedupTomlConfig
	if err := toml.Unmarshal([]byte(configTOML), &tomlCfg); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	mergeTomlConfig(cfg, &tomlCfg)
	return cfg, nil
}

package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ludo-technologies/shapedup/domain"
)

// ConfigFileName is the dedicated configuration file
const ConfigFileName = ".shapedup.toml"

// ShapedupTomlConfig represents the structure of .shapedup.toml. Scalars are
// pointers so that an explicit zero or false is distinguishable from unset.
type ShapedupTomlConfig struct {
	Analysis TomlAnalysisConfig `toml:"analysis"`
	Output   TomlOutputConfig   `toml:"output"`
	Input    TomlInputConfig    `toml:"input"`
	Check    TomlCheckConfig    `toml:"check"`
}

type TomlAnalysisConfig struct {
	Mass           *int     `toml:"mass"`
	Fuzzy          *int     `toml:"fuzzy"`
	Liberal        *bool    `toml:"liberal"`
	Only           *string  `toml:"only"`
	Filters        []string `toml:"filters"`
	TimeoutSeconds *int     `toml:"timeout_seconds"`
	MaxGoroutines  *int     `toml:"max_goroutines"`
}

type TomlOutputConfig struct {
	Format    *string `toml:"format"`
	Diff      *bool   `toml:"diff"`
	Summary   *bool   `toml:"summary"`
	Number    *bool   `toml:"number"`
	Directory *string `toml:"directory"`
}

type TomlInputConfig struct {
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	Recursive       *bool    `toml:"recursive"`
}

type TomlCheckConfig struct {
	MaxTotal          *int  `toml:"max_total"`
	FailOnDiagnostics *bool `toml:"fail_on_diagnostics"`
}

// TomlConfigLoader handles TOML configuration discovery and loading
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration with the following priority:
// 1. .shapedup.toml (dedicated config file)
// 2. pyproject.toml (with [tool.shapedup] section)
// 3. defaults
//
// Both files are searched from startDir up to the filesystem root.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	if path, err := findUpwards(startDir, ConfigFileName); err == nil {
		return l.LoadFile(path)
	}

	if path, err := findUpwards(startDir, PyprojectFileName); err == nil {
		return LoadPyprojectFile(path)
	}

	return DefaultConfig(), nil
}

// LoadFile reads one .shapedup.toml and merges it onto the defaults
func (l *TomlConfigLoader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to read "+path, err)
	}

	var tomlCfg ShapedupTomlConfig
	if err := toml.Unmarshal(data, &tomlCfg); err != nil {
		return nil, domain.NewConfigError("failed to parse "+path, err)
	}

	config := DefaultConfig()
	mergeTomlConfig(config, &tomlCfg)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// FindConfigFile returns the nearest configuration file above startDir, or ""
func (l *TomlConfigLoader) FindConfigFile(startDir string) string {
	if path, err := findUpwards(startDir, ConfigFileName); err == nil {
		return path
	}
	if path, err := findUpwards(startDir, PyprojectFileName); err == nil && hasToolSection(path) {
		return path
	}
	return ""
}

// findUpwards walks up the directory tree looking for name
func findUpwards(startDir, name string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		dir = startDir
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

// mergeTomlConfig copies every set value onto defaults
func mergeTomlConfig(defaults *Config, t *ShapedupTomlConfig) {
	a := t.Analysis
	setInt(&defaults.Analysis.Mass, a.Mass)
	setInt(&defaults.Analysis.Fuzzy, a.Fuzzy)
	setBool(&defaults.Analysis.Liberal, a.Liberal)
	setString(&defaults.Analysis.Only, a.Only)
	setInt(&defaults.Analysis.TimeoutSeconds, a.TimeoutSeconds)
	setInt(&defaults.Analysis.MaxGoroutines, a.MaxGoroutines)
	if a.Filters != nil {
		defaults.Analysis.Filters = a.Filters
	}

	o := t.Output
	setString(&defaults.Output.Format, o.Format)
	setBool(&defaults.Output.Diff, o.Diff)
	setBool(&defaults.Output.Summary, o.Summary)
	setBool(&defaults.Output.Number, o.Number)
	setString(&defaults.Output.Directory, o.Directory)

	in := t.Input
	if in.IncludePatterns != nil {
		defaults.Input.IncludePatterns = in.IncludePatterns
	}
	if in.ExcludePatterns != nil {
		defaults.Input.ExcludePatterns = in.ExcludePatterns
	}
	setBool(&defaults.Input.Recursive, in.Recursive)

	setInt(&defaults.Check.MaxTotal, t.Check.MaxTotal)
	setBool(&defaults.Check.FailOnDiagnostics, t.Check.FailOnDiagnostics)
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

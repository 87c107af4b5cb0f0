package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/shapedup/domain"
	"github.com/ludo-technologies/shapedup/internal/analyzer"
)

// EnvPrefix is the prefix of environment variables overriding file settings,
// e.g. SHAPEDUP_ANALYSIS_MASS=24
const EnvPrefix = "SHAPEDUP"

// Config represents the main configuration structure
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis" toml:"analysis"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" toml:"output"`
	Input    InputConfig    `mapstructure:"input" yaml:"input" toml:"input"`
	Check    CheckConfig    `mapstructure:"check" yaml:"check" toml:"check"`
}

// AnalysisConfig holds the detector tunables
type AnalysisConfig struct {
	// Mass is the minimum subtree mass considered for matching
	Mass int `mapstructure:"mass" yaml:"mass" toml:"mass"`

	// Fuzzy is the number of statements a variant may omit (0 = off)
	Fuzzy int `mapstructure:"fuzzy" yaml:"fuzzy" toml:"fuzzy"`

	// Liberal selects liberal pruning of nested matches
	Liberal bool `mapstructure:"liberal" yaml:"liberal" toml:"liberal"`

	// Only restricts the report to one node type
	Only string `mapstructure:"only" yaml:"only" toml:"only"`

	// Filters are structural patterns; matching buckets are dropped
	Filters []string `mapstructure:"filters" yaml:"filters" toml:"filters"`

	// TimeoutSeconds bounds the parse of a single file
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`

	// MaxGoroutines bounds parallel parsing (0 = number of CPUs)
	MaxGoroutines int `mapstructure:"max_goroutines" yaml:"max_goroutines" toml:"max_goroutines"`
}

// OutputConfig holds output settings
type OutputConfig struct {
	Format    string `mapstructure:"format" yaml:"format" toml:"format"`
	Diff      bool   `mapstructure:"diff" yaml:"diff" toml:"diff"`
	Summary   bool   `mapstructure:"summary" yaml:"summary" toml:"summary"`
	Number    bool   `mapstructure:"number" yaml:"number" toml:"number"`
	Directory string `mapstructure:"directory" yaml:"directory" toml:"directory"`
}

// InputConfig holds file selection settings
type InputConfig struct {
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" toml:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" toml:"exclude_patterns"`
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive" toml:"recursive"`
}

// CheckConfig holds CI gate settings
type CheckConfig struct {
	// MaxTotal fails the run when the total score exceeds it (0 = no limit)
	MaxTotal int `mapstructure:"max_total" yaml:"max_total" toml:"max_total"`

	// FailOnDiagnostics fails the run when any file was skipped
	FailOnDiagnostics bool `mapstructure:"fail_on_diagnostics" yaml:"fail_on_diagnostics" toml:"fail_on_diagnostics"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Mass:           domain.DefaultMass,
			Fuzzy:          0,
			Liberal:        false,
			TimeoutSeconds: int(domain.DefaultParseTimeout / time.Second),
			MaxGoroutines:  domain.DefaultMaxGoroutines,
		},
		Output: OutputConfig{
			Format: string(domain.OutputFormatText),
			Number: true,
		},
		Input: InputConfig{
			ExcludePatterns: []string{"**/vendor/**", "**/node_modules/**", "**/.git/**"},
			Recursive:       true,
		},
	}
}

// Timeout returns the per-file parse timeout as a duration
func (c *AnalysisConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Patterns parses the configured filters
func (c *AnalysisConfig) Patterns() ([]*analyzer.Pattern, error) {
	patterns := make([]*analyzer.Pattern, 0, len(c.Filters))
	for _, src := range c.Filters {
		p, err := analyzer.ParsePattern(src)
		if err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", src, err)
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// LoadConfig loads configuration from an explicit file. Any format viper
// understands is accepted; SHAPEDUP_* environment variables override file
// values. An empty path discovers the configuration from the working directory.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return DefaultConfig(), nil
		}
		return NewTomlConfigLoader().LoadConfig(wd)
	}

	config := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(configPath)
	if isPyproject(configPath) {
		v.SetConfigType("toml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", configPath), err)
	}

	sub := v
	if isPyproject(configPath) {
		sub = v.Sub("tool.shapedup")
		if sub == nil {
			return config, nil
		}
	}

	if err := sub.Unmarshal(config); err != nil {
		return nil, domain.NewConfigError("failed to unmarshal config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// bindEnvKeys registers every known key so AutomaticEnv applies during Unmarshal
// even when the file does not mention the key.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"analysis.mass", "analysis.fuzzy", "analysis.liberal", "analysis.only",
		"analysis.filters", "analysis.timeout_seconds", "analysis.max_goroutines",
		"output.format", "output.diff", "output.summary", "output.number", "output.directory",
		"input.include_patterns", "input.exclude_patterns", "input.recursive",
		"check.max_total", "check.fail_on_diagnostics",
	} {
		_ = v.BindEnv(key)
	}
}

func isPyproject(path string) bool {
	return filepath.Base(path) == PyprojectFileName
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Analysis.Mass < 1 {
		return domain.NewConfigError(fmt.Sprintf("analysis.mass must be >= 1, got %d", c.Analysis.Mass), nil)
	}

	if c.Analysis.Fuzzy < 0 {
		return domain.NewConfigError(fmt.Sprintf("analysis.fuzzy must be >= 0, got %d", c.Analysis.Fuzzy), nil)
	}

	if c.Analysis.TimeoutSeconds <= 0 {
		return domain.NewConfigError(fmt.Sprintf("analysis.timeout_seconds must be > 0, got %d", c.Analysis.TimeoutSeconds), nil)
	}

	if c.Analysis.MaxGoroutines < 0 {
		return domain.NewConfigError(fmt.Sprintf("analysis.max_goroutines must be >= 0, got %d", c.Analysis.MaxGoroutines), nil)
	}

	if _, err := c.Analysis.Patterns(); err != nil {
		return domain.NewConfigError("analysis.filters", err)
	}

	if !domain.OutputFormat(c.Output.Format).IsValid() {
		return domain.NewConfigError(fmt.Sprintf("invalid output.format '%s', must be one of: %s",
			c.Output.Format, strings.Join(formatNames(), ", ")), nil)
	}

	if c.Check.MaxTotal < 0 {
		return domain.NewConfigError(fmt.Sprintf("check.max_total must be >= 0, got %d", c.Check.MaxTotal), nil)
	}

	return nil
}

func formatNames() []string {
	formats := domain.SupportedOutputFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

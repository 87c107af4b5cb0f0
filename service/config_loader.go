package service

import (
	"os"

	"github.com/ludo-technologies/shapedup/domain"
	"github.com/ludo-technologies/shapedup/internal/config"
)

// DuplicationConfigurationLoaderImpl implements domain.DuplicationConfigurationLoader
type DuplicationConfigurationLoaderImpl struct{}

// NewDuplicationConfigurationLoader creates a new configuration loader
func NewDuplicationConfigurationLoader() *DuplicationConfigurationLoaderImpl {
	return &DuplicationConfigurationLoaderImpl{}
}

// LoadConfig loads an explicit configuration file
func (l *DuplicationConfigurationLoaderImpl) LoadConfig(path string) (*domain.DuplicationRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	req := ConfigToRequest(cfg)
	req.ConfigPath = path
	return req, nil
}

// LoadDefaultConfig discovers .shapedup.toml or pyproject.toml from the
// target path upwards. An unreadable or invalid file falls back to defaults.
func (l *DuplicationConfigurationLoaderImpl) LoadDefaultConfig(targetPath string) *domain.DuplicationRequest {
	if targetPath == "" {
		if wd, err := os.Getwd(); err == nil {
			targetPath = wd
		}
	}

	cfg, err := config.NewTomlConfigLoader().LoadConfig(targetPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return ConfigToRequest(cfg)
}

// FindConfigFile reports the configuration file LoadDefaultConfig would use, or ""
func (l *DuplicationConfigurationLoaderImpl) FindConfigFile(targetPath string) string {
	return config.NewTomlConfigLoader().FindConfigFile(targetPath)
}

// MergeConfig overlays the explicitly set options of override onto base.
// Paths, writers and output destinations always come from override.
func (l *DuplicationConfigurationLoaderImpl) MergeConfig(base *domain.DuplicationRequest, override *domain.DuplicationRequest) *domain.DuplicationRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	flags := override.ExplicitFlags

	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	if override.OutputDir != "" {
		merged.OutputDir = override.OutputDir
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}
	merged.NoOpen = override.NoOpen
	merged.Verbose = override.Verbose
	merged.ShowProgress = override.ShowProgress
	merged.ExplicitFlags = flags

	merged.Mass = config.MergeInt(base.Mass, override.Mass, domain.FlagMass, flags)
	merged.Fuzzy = config.MergeInt(base.Fuzzy, override.Fuzzy, domain.FlagFuzzy, flags)
	merged.Liberal = config.MergeBool(base.Liberal, override.Liberal, domain.FlagLiberal, flags)
	merged.Only = config.MergeString(base.Only, override.Only, domain.FlagOnly, flags)
	merged.Filters = config.MergeStringSlice(base.Filters, override.Filters, domain.FlagFilter, flags)
	merged.Timeout = config.Merge(base.Timeout, override.Timeout, domain.FlagTimeout, flags)
	merged.MaxGoroutines = config.MergeInt(base.MaxGoroutines, override.MaxGoroutines, domain.FlagMaxGoroutines, flags)

	merged.OutputFormat = config.Merge(base.OutputFormat, override.OutputFormat, domain.FlagFormat, flags)
	merged.Diff = config.MergeBool(base.Diff, override.Diff, domain.FlagDiff, flags)
	merged.Summary = config.MergeBool(base.Summary, override.Summary, domain.FlagSummary, flags)
	merged.Number = config.MergeBool(base.Number, override.Number, domain.FlagNumber, flags)

	merged.Recursive = config.MergeBool(base.Recursive, override.Recursive, domain.FlagRecursive, flags)
	merged.IncludePatterns = config.MergeStringSlice(base.IncludePatterns, override.IncludePatterns, domain.FlagInclude, flags)
	merged.ExcludePatterns = config.MergeStringSlice(base.ExcludePatterns, override.ExcludePatterns, domain.FlagExclude, flags)

	merged.MaxTotal = config.MergeInt(base.MaxTotal, override.MaxTotal, domain.FlagMaxTotal, flags)
	merged.FailOnDiagnostics = config.MergeBool(base.FailOnDiagnostics, override.FailOnDiagnostics, domain.FlagFailOnDiagnostics, flags)

	return &merged
}

// ConfigToRequest converts a loaded configuration into a request with no paths
func ConfigToRequest(cfg *config.Config) *domain.DuplicationRequest {
	return &domain.DuplicationRequest{
		Recursive:         cfg.Input.Recursive,
		IncludePatterns:   cfg.Input.IncludePatterns,
		ExcludePatterns:   cfg.Input.ExcludePatterns,
		Mass:              cfg.Analysis.Mass,
		Fuzzy:             cfg.Analysis.Fuzzy,
		Liberal:           cfg.Analysis.Liberal,
		Only:              cfg.Analysis.Only,
		Filters:           cfg.Analysis.Filters,
		Timeout:           cfg.Analysis.Timeout(),
		MaxGoroutines:     cfg.Analysis.MaxGoroutines,
		OutputFormat:      domain.OutputFormat(cfg.Output.Format),
		OutputDir:         cfg.Output.Directory,
		Diff:              cfg.Output.Diff,
		Summary:           cfg.Output.Summary,
		Number:            cfg.Output.Number,
		MaxTotal:          cfg.Check.MaxTotal,
		FailOnDiagnostics: cfg.Check.FailOnDiagnostics,
		OutputWriter:      os.Stdout,
	}
}

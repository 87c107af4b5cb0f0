package mcp

import (
	"github.com/ludo-technologies/shapedup/app"
	"github.com/ludo-technologies/shapedup/domain"
	"github.com/ludo-technologies/shapedup/internal/parser"
	"github.com/ludo-technologies/shapedup/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	fileReader domain.FileReader
	registry   *parser.Registry
	configPath string
}

// NewDependencies constructs the dependency set with sane defaults. An empty
// configPath discovers .shapedup.toml from each scanned path.
func NewDependencies(configPath string) *Dependencies {
	registry := parser.DefaultRegistry()
	return &Dependencies{
		fileReader: service.NewFileReader(registry),
		registry:   registry,
		configPath: configPath,
	}
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// Registry returns the language registry shared by every tool
func (d *Dependencies) Registry() *parser.Registry {
	return d.registry
}

// BuildScanUseCase assembles a fresh ScanUseCase. Progress output is disabled;
// stdout belongs to the JSON-RPC stream.
func (d *Dependencies) BuildScanUseCase() (*app.ScanUseCase, error) {
	return app.NewScanUseCaseBuilder().
		WithService(service.NewDuplicationService(d.registry, nil)).
		WithFileReader(d.fileReader).
		WithFormatter(service.NewDuplicationFormatter()).
		WithConfigLoader(service.NewDuplicationConfigurationLoader()).
		Build()
}

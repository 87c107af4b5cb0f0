package mcp

import (
	"github.com/ludo-technologies/shapedup/domain"
	"github.com/ludo-technologies/shapedup/internal/parser"
)

func NewTestDependencies(fr domain.FileReader, registry *parser.Registry, path string) *Dependencies {
	if registry == nil {
		registry = parser.DefaultRegistry()
	}
	return &Dependencies{
		fileReader: fr,
		registry:   registry,
		configPath: path,
	}
}

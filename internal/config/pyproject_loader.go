package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/ludo-technologies/shapedup/domain"
)

// PyprojectFileName is the shared Python project file consulted as a fallback
const PyprojectFileName = "pyproject.toml"

// PyprojectToml represents the structure of pyproject.toml
type PyprojectToml struct {
	Tool ToolConfig `toml:"tool"`
}

// ToolConfig represents the [tool] section
type ToolConfig struct {
	Shapedup *ShapedupTomlConfig `toml:"shapedup"`
}

// LoadPyprojectConfig loads configuration from the nearest pyproject.toml
// above startDir. Defaults are returned when none exists.
func LoadPyprojectConfig(startDir string) (*Config, error) {
	path, err := findUpwards(startDir, PyprojectFileName)
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadPyprojectFile(path)
}

// LoadPyprojectFile reads the [tool.shapedup] section of one pyproject.toml
func LoadPyprojectFile(path string) (*Config, error) {
	pyproject, err := readPyproject(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if pyproject.Tool.Shapedup == nil {
		return config, nil
	}
	mergeTomlConfig(config, pyproject.Tool.Shapedup)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func readPyproject(path string) (*PyprojectToml, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to read "+path, err)
	}

	var pyproject PyprojectToml
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return nil, domain.NewConfigError("failed to parse "+path, err)
	}
	return &pyproject, nil
}

// hasToolSection reports whether a pyproject.toml carries [tool.shapedup]
func hasToolSection(path string) bool {
	pyproject, err := readPyproject(path)
	return err == nil && pyproject.Tool.Shapedup != nil
}

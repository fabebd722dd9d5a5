package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hompulse/console/internal/model"
)

// hierarchyFile is the YAML layout of a hierarchy definition file:
//
//	levels:
//	  - key: zone
//	    display_name: Zone
//	    child_level_key: state
//	    list_endpoint_template: /geo/zones
//	    child_list_endpoint_template: /geo/zones/{id}/states
type hierarchyFile struct {
	Levels []model.LevelDefinition `yaml:"levels"`
}

// LoadHierarchy reads a level chain from a YAML file.
// An empty path returns nil so the caller can fall back to the built-in chain.
// The chain itself is validated by the navigator.
func LoadHierarchy(path string) ([]model.LevelDefinition, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hierarchy file: %w", err)
	}
	var hf hierarchyFile
	if err := yaml.Unmarshal(data, &hf); err != nil {
		return nil, fmt.Errorf("failed to parse hierarchy file: %w", err)
	}
	if len(hf.Levels) == 0 {
		return nil, fmt.Errorf("hierarchy file %s defines no levels", path)
	}
	return hf.Levels, nil
}

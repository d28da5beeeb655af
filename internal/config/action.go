package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// actionFile is the part of an action.yml that carries input defaults.
type actionFile struct {
	Inputs map[string]struct {
		Default *yaml.Node `yaml:"default"`
	} `yaml:"inputs"`
}

// LoadActionDefaults reads the input defaults of an action.yml. Inputs
// without a default are skipped. Scalar defaults are returned as written.
func LoadActionDefaults(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseActionDefaults(data, path)
}

// ParseActionDefaults is LoadActionDefaults for in-memory content.
func ParseActionDefaults(data []byte, path string) (map[string]string, error) {
	if err := ValidateYAMLSyntaxFromBytes(data, path); err != nil {
		return nil, err
	}

	var af actionFile
	if err := yaml.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	defaults := make(map[string]string, len(af.Inputs))
	for name, input := range af.Inputs {
		if input.Default == nil || input.Default.Kind != yaml.ScalarNode {
			continue
		}
		defaults[name] = input.Default.Value
	}
	return defaults, nil
}

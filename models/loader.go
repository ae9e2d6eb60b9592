package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// modelFile is the on-disk layout of an explicit model declaration file.
//
//	models:
//	  - type: article
//	    attributes: [title, body]
//	    relationships:
//	      author: {type: one, entity: people}
type modelFile struct {
	Models []Definition `yaml:"models"`
}

// LoadFile reads model definitions from a YAML file.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var file modelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse model file %s: %w", path, err)
	}

	return file.Models, nil
}

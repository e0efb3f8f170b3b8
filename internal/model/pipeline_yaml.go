// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file parses pipeline definitions written in YAML or JSON. Both a bare
// list of connections and a mapping with `name`, `recipe`, and `connections`
// keys are accepted.
package model

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/nfcompose/internal/config"
	"gopkg.in/yaml.v3"
)

type yamlPipeline struct {
	Name        string              `yaml:"name"`
	Recipe      string              `yaml:"recipe"`
	Connections []config.Connection `yaml:"connections"`
}

// ParsePipelineYAML decodes a YAML or JSON pipeline document.
func ParsePipelineYAML(src []byte, filePath string) (*config.Pipeline, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("failed to parse %s: document is empty", filePath)
	}

	doc := root.Content[0]
	pipeline := &config.Pipeline{Source: filePath}

	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&pipeline.Connections); err != nil {
			return nil, fmt.Errorf("failed to decode connections in %s: %w", filePath, err)
		}
	case yaml.MappingNode:
		var raw yamlPipeline
		if err := doc.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode pipeline in %s: %w", filePath, err)
		}
		if raw.Recipe != "" && len(raw.Connections) > 0 {
			return nil, fmt.Errorf("%s: a pipeline may set either 'recipe' or 'connections', not both", filePath)
		}
		pipeline.Name = raw.Name
		pipeline.Connections = raw.Connections
		if raw.Recipe != "" {
			conns, err := ParseRecipe(raw.Recipe)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", filePath, err)
			}
			pipeline.Connections = conns
		}
	default:
		return nil, fmt.Errorf("failed to parse %s: expected a list of connections or a mapping", filePath)
	}

	if err := validateEndpoints(pipeline.Connections); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return pipeline, nil
}

func validateEndpoints(conns []config.Connection) error {
	var errs []error
	for i, c := range conns {
		if c.Input.Process == "" {
			errs = append(errs, fmt.Errorf("connection %d: input process is empty", i))
		}
		if c.Output.Process == "" {
			errs = append(errs, fmt.Errorf("connection %d: output process is empty", i))
		}
	}
	return errors.Join(errs...)
}

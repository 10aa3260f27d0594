package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParsePipeline parses YAML content into a Pipeline and validates it.
func ParsePipeline(data []byte) (*Pipeline, error) {
	var pipeline Pipeline
	if err := yaml.Unmarshal(data, &pipeline); err != nil {
		return nil, fmt.Errorf("parse pipeline: %w", err)
	}
	if err := pipeline.Validate(); err != nil {
		return nil, err
	}
	return &pipeline, nil
}

// LoadPipeline reads a pipeline YAML file and returns a Pipeline.
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline file: %w", err)
	}
	return ParsePipeline(data)
}

// Validate checks the structural rules a pipeline must satisfy before it
// can run. A pipeline with zero steps is valid.
func (p *Pipeline) Validate() error {
	for i, step := range p.Steps {
		if step.Run == "" && step.Command == "" {
			return fmt.Errorf("step %d (%s): one of run or command is required", i, step.Name)
		}
		if step.Run != "" && step.Command != "" {
			return fmt.Errorf("step %d (%s): run and command are mutually exclusive", i, step.DisplayName())
		}
		if step.Run != "" && len(step.Args) > 0 {
			return fmt.Errorf("step %d (%s): args are only valid with command", i, step.DisplayName())
		}
		for k := range step.Env {
			if k == "" {
				return fmt.Errorf("step %d (%s): empty env variable name", i, step.DisplayName())
			}
		}
	}
	for k := range p.Env {
		if k == "" {
			return fmt.Errorf("pipeline %s: empty env variable name", p.Name)
		}
	}
	return nil
}

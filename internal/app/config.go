package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PipelinePath string // .hcl, .yaml, .yml or .json pipeline file
	Recipe       string // inline recipe, used instead of PipelinePath
	OutputPath   string // destination .nf file
	CatalogDirs  []string

	LogFormat string
	LogLevel  string

	AutoStatus bool
	NoConfigs  bool
	NoExport   bool

	BroadcastURL     string
	BroadcastTimeout time.Duration
}

// NewConfig validates cfg and returns a copy. A pipeline source is only
// required by operations that compile; see ValidateBuild.
func NewConfig(cfg Config) (*Config, error) {
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: use text or json", cfg.LogFormat)
	}
	return &cfg, nil
}

// ValidateBuild checks the fields a build needs.
func (c *Config) ValidateBuild() error {
	if err := c.ValidateSource(); err != nil {
		return err
	}
	if c.OutputPath == "" {
		return errors.New("an output file is required")
	}
	if filepath.Ext(c.OutputPath) != ".nf" {
		return fmt.Errorf("output file %q must have the .nf extension", c.OutputPath)
	}
	return nil
}

// ValidateSource checks that exactly one pipeline source is set.
func (c *Config) ValidateSource() error {
	switch {
	case c.PipelinePath == "" && c.Recipe == "":
		return errors.New("a pipeline file or a recipe is required")
	case c.PipelinePath != "" && c.Recipe != "":
		return errors.New("a pipeline file and a recipe cannot be used together")
	}
	return nil
}

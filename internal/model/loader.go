// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file implements config.Loader, picking the pipeline format from the
// file extension.
package model

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/nfcompose/internal/config"
	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/spf13/afero"
)

// Loader reads pipeline files from a filesystem.
type Loader struct {
	fs afero.Fs
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a Loader backed by the given filesystem.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// Load reads and parses the pipeline at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading pipeline...", "path", path)

	src, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline: %w", err)
	}

	var pipeline *config.Pipeline
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		p, diags := ParsePipelineHCL(ctx, src, path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
		}
		pipeline = p
	case ".yaml", ".yml", ".json":
		pipeline, err = ParsePipelineYAML(src, path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported pipeline format %q: use .hcl, .yaml, .yml or .json", ext)
	}

	if pipeline.Name == "" {
		pipeline.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	logger.Info("Pipeline loaded.", "name", pipeline.Name, "connections", len(pipeline.Connections))
	return pipeline, nil
}

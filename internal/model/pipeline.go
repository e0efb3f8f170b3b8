// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file parses pipeline definitions written in HCL. A pipeline is either
// an ordered list of `connection` blocks or a single `recipe` string:
//
//	name = "assembly"
//
//	connection {
//	  input {
//	    process = "__init__"
//	    lane    = 1
//	  }
//	  output {
//	    process = "integrity_coverage"
//	    lane    = 1
//	  }
//	}
package model

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/nfcompose/internal/config"
	"github.com/specialistvlad/nfcompose/internal/ctxlog"
)

// pipelineRootSchema defines the top-level structure of a pipeline file.
type pipelineRootSchema struct {
	Name        string           `hcl:"name,optional"`
	Recipe      string           `hcl:"recipe,optional"`
	Connections []*hclConnection `hcl:"connection,block"`
}

type hclConnection struct {
	Input  hclEndpoint `hcl:"input,block"`
	Output hclEndpoint `hcl:"output,block"`
}

type hclEndpoint struct {
	Process string `hcl:"process"`
	Lane    int    `hcl:"lane"`
}

// ParsePipelineHCL decodes a pipeline file written in HCL.
func ParsePipelineHCL(ctx context.Context, src []byte, filePath string) (*config.Pipeline, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing HCL pipeline", "file_path", filePath)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filePath)
	if diags.HasErrors() {
		return nil, diags
	}

	schema := &pipelineRootSchema{}
	decodeDiags := gohcl.DecodeBody(hclFile.Body, nil, schema)
	diags = append(diags, decodeDiags...)
	if decodeDiags.HasErrors() {
		return nil, diags
	}

	pipeline := &config.Pipeline{Name: schema.Name, Source: filePath}

	switch {
	case schema.Recipe != "" && len(schema.Connections) > 0:
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Conflicting pipeline definitions",
			Detail:   "A pipeline file may set either 'recipe' or 'connection' blocks, not both.",
		})
		return nil, diags
	case schema.Recipe != "":
		conns, err := ParseRecipe(schema.Recipe)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid recipe",
				Detail:   err.Error(),
			})
			return nil, diags
		}
		pipeline.Connections = conns
	default:
		pipeline.Connections = make([]config.Connection, 0, len(schema.Connections))
		for _, c := range schema.Connections {
			pipeline.Connections = append(pipeline.Connections, config.Connection{
				Input:  config.Endpoint{Process: c.Input.Process, Lane: c.Input.Lane},
				Output: config.Endpoint{Process: c.Output.Process, Lane: c.Output.Lane},
			})
		}
	}

	logger.Debug("Successfully parsed HCL pipeline", "connections", len(pipeline.Connections))
	return pipeline, diags
}

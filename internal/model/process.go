// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Process, the catalog definition of one pipeline step,
// and the logic for parsing it from HCL manifests.
//
// A manifest may hold any number of `process` and `raw_input` blocks:
//
//	process "integrity_coverage" {
//	  input_type      = "fastq"
//	  output_type     = "fastq"
//	  link_start      = ["SIDE_phred", "SIDE_max_len"]
//	  status_channels = ["integrity_coverage"]
//	  fragment_file   = "integrity_coverage.nf"
//
//	  secondary_input "genomeSize" {
//	    channel = "IN_genome_size = Channel.value(params.genomeSize)"
//	  }
//	}
//
// Inline `fragment` strings are HCL templates, so Groovy interpolation must be
// escaped as `$${...}`. Fragment files are read verbatim.
package model

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/specialistvlad/nfcompose/internal/process"
)

// Process is the catalog definition of a pipeline step.
type Process struct {
	Name            string
	Description     string
	InputType       string
	OutputType      string
	IgnoreType      bool
	PType           string
	Dependencies    []string
	LinkStart       []string
	LinkEnd         []process.LinkEnd
	StatusChannels  []string
	SecondaryInputs []process.SecondaryInput
	Params          []process.Param
	Directives      []process.Directive

	// Fragment is the inline fragment source. FragmentFile, when set, is a
	// path relative to the manifest that the catalog reads instead.
	Fragment     string
	FragmentFile string

	FSInformation *FSInfo
}

// File is everything declared in one manifest file.
type File struct {
	Processes []*Process
	RawInputs []*RawInput
}

// fileRootSchema defines the top-level structure of a manifest file.
type fileRootSchema struct {
	Processes []*hclLabeled `hcl:"process,block"`
	RawInputs []*hclLabeled `hcl:"raw_input,block"`
}

// hclLabeled is a single labeled block whose body is decoded in a second pass.
type hclLabeled struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// processBodySchema is the HCL schema for the body of a `process` block.
var processBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "input_type"},
		{Name: "output_type"},
		{Name: "ignore_type"},
		{Name: "ptype"},
		{Name: "dependencies"},
		{Name: "link_start"},
		{Name: "status_channels"},
		{Name: "fragment"},
		{Name: "fragment_file"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "link_end"},
		{Type: "secondary_input", LabelNames: []string{"param"}},
		{Type: "param", LabelNames: []string{"name"}},
		{Type: "directive", LabelNames: []string{"process"}},
	},
}

// ParseFile decodes an HCL manifest that contains `process` and `raw_input`
// blocks.
func ParseFile(ctx context.Context, hclFile *hcl.File, filePath string) (*File, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing manifest definitions from file", "file_path", filePath)

	var allDiags hcl.Diagnostics
	if hclFile == nil {
		allDiags = append(allDiags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "HCL file is nil",
		})
		return nil, allDiags
	}

	schema := &fileRootSchema{}
	diags := gohcl.DecodeBody(hclFile.Body, nil, schema)
	allDiags = append(allDiags, diags...)
	if diags.HasErrors() {
		return nil, allDiags
	}

	out := &File{
		Processes: make([]*Process, 0, len(schema.Processes)),
		RawInputs: make([]*RawInput, 0, len(schema.RawInputs)),
	}

	for _, parsed := range schema.Processes {
		def, defDiags := parseProcess(parsed, filePath)
		allDiags = append(allDiags, defDiags...)
		if def != nil {
			out.Processes = append(out.Processes, def)
		}
	}

	for _, parsed := range schema.RawInputs {
		def, defDiags := parseRawInput(parsed, filePath)
		allDiags = append(allDiags, defDiags...)
		if def != nil {
			out.RawInputs = append(out.RawInputs, def)
		}
	}

	if allDiags.HasErrors() {
		return nil, allDiags
	}

	logger.Debug("Successfully parsed manifest definitions",
		"processes", len(out.Processes), "raw_inputs", len(out.RawInputs))
	return out, allDiags
}

func parseProcess(parsed *hclLabeled, filePath string) (*Process, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	bodyContent, contentDiags := parsed.Body.Content(processBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	def := &Process{
		Name:          parsed.Name,
		FSInformation: NewFSInfo(filePath),
	}

	// Parse simple attributes
	targets := map[string]any{
		"description":     &def.Description,
		"input_type":      &def.InputType,
		"output_type":     &def.OutputType,
		"ignore_type":     &def.IgnoreType,
		"ptype":           &def.PType,
		"dependencies":    &def.Dependencies,
		"link_start":      &def.LinkStart,
		"status_channels": &def.StatusChannels,
		"fragment":        &def.Fragment,
		"fragment_file":   &def.FragmentFile,
	}
	for _, attrSchema := range processBodySchema.Attributes {
		attr, exists := bodyContent.Attributes[attrSchema.Name]
		if !exists {
			continue
		}
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, targets[attrSchema.Name])...)
	}

	if def.Fragment != "" && def.FragmentFile != "" {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Conflicting fragment attributes",
			Detail:   fmt.Sprintf("Process '%s' sets both 'fragment' and 'fragment_file'; only one is allowed.", def.Name),
			Subject:  bodyContent.Attributes["fragment_file"].Range.Ptr(),
		})
	}

	// Parse nested blocks
	var blockDiags hcl.Diagnostics
	def.LinkEnd, blockDiags = parseLinkEnds(bodyContent.Blocks)
	diags = append(diags, blockDiags...)

	def.SecondaryInputs, blockDiags = parseSecondaryInputs(bodyContent.Blocks)
	diags = append(diags, blockDiags...)

	def.Params, blockDiags = parseParams(bodyContent.Blocks)
	diags = append(diags, blockDiags...)

	def.Directives, blockDiags = parseDirectives(bodyContent.Blocks)
	diags = append(diags, blockDiags...)

	if diags.HasErrors() {
		return nil, diags
	}
	return def, diags
}

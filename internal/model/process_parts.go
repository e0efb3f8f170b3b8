// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the parsers for the nested blocks of a `process`
// definition: secondary link ends, secondary inputs, parameters, and
// resource directives.
package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/nfcompose/internal/process"
	"github.com/zclconf/go-cty/cty"
)

type hclLinkEnd struct {
	Link  string `hcl:"link"`
	Alias string `hcl:"alias"`
}

type hclSecondaryInput struct {
	Channel string `hcl:"channel"`
}

type hclDirective struct {
	CPUs      int    `hcl:"cpus,optional"`
	Memory    string `hcl:"memory,optional"`
	Container string `hcl:"container,optional"`
	Version   string `hcl:"version,optional"`
}

// paramBodySchema is the HCL schema for the body of a `param` block.
var paramBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "default"},
		{Name: "description"},
	},
}

func parseLinkEnds(blocks hcl.Blocks) ([]process.LinkEnd, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var ends []process.LinkEnd

	for _, block := range blocks.OfType("link_end") {
		var raw hclLinkEnd
		blockDiags := gohcl.DecodeBody(block.Body, nil, &raw)
		diags = append(diags, blockDiags...)
		if blockDiags.HasErrors() {
			continue
		}
		ends = append(ends, process.LinkEnd{Link: raw.Link, Alias: raw.Alias})
	}

	return ends, diags
}

func parseSecondaryInputs(blocks hcl.Blocks) ([]process.SecondaryInput, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var inputs []process.SecondaryInput
	seen := make(map[string]struct{})

	for _, block := range blocks.OfType("secondary_input") {
		// The schema guarantees us one label.
		param := block.Labels[0]
		if _, exists := seen[param]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate secondary input",
				Detail:   fmt.Sprintf("A secondary input for parameter '%s' has already been declared.", param),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[param] = struct{}{}

		var raw hclSecondaryInput
		blockDiags := gohcl.DecodeBody(block.Body, nil, &raw)
		diags = append(diags, blockDiags...)
		if blockDiags.HasErrors() {
			continue
		}
		inputs = append(inputs, process.SecondaryInput{Param: param, Channel: raw.Channel})
	}

	return inputs, diags
}

func parseParams(blocks hcl.Blocks) ([]process.Param, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var params []process.Param
	seen := make(map[string]struct{})

	for _, block := range blocks.OfType("param") {
		name := block.Labels[0]
		if _, exists := seen[name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate param definition",
				Detail:   fmt.Sprintf("A param named '%s' has already been defined.", name),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[name] = struct{}{}

		bodyContent, contentDiags := block.Body.Content(paramBodySchema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		param := process.Param{Name: name, Default: cty.NullVal(cty.DynamicPseudoType)}

		if descAttr, exists := bodyContent.Attributes["description"]; exists {
			diags = append(diags, gohcl.DecodeExpression(descAttr.Expr, nil, &param.Description)...)
		}

		if defaultAttr, exists := bodyContent.Attributes["default"]; exists {
			// A nil eval context is used because defaults must be literal values.
			val, valDiags := defaultAttr.Expr.Value(nil)
			diags = append(diags, valDiags...)
			if valDiags.HasErrors() {
				continue
			}
			param.Default = val
		}

		params = append(params, param)
	}

	return params, diags
}

func parseDirectives(blocks hcl.Blocks) ([]process.Directive, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var directives []process.Directive

	for _, block := range blocks.OfType("directive") {
		var raw hclDirective
		blockDiags := gohcl.DecodeBody(block.Body, nil, &raw)
		diags = append(diags, blockDiags...)
		if blockDiags.HasErrors() {
			continue
		}
		if raw.CPUs < 0 {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid cpus value",
				Detail:   fmt.Sprintf("Directive '%s' requests %d cpus; the value must not be negative.", block.Labels[0], raw.CPUs),
				Subject:  &block.DefRange,
			})
			continue
		}
		directives = append(directives, process.Directive{
			Process:   block.Labels[0],
			CPUs:      raw.CPUs,
			Memory:    raw.Memory,
			Container: raw.Container,
			Version:   raw.Version,
		})
	}

	return directives, diags
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines RawInput, the definition of a shared channel built from
// external user data of one input type.
package model

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/nfcompose/internal/process"
)

// RawInput declares how user data of one type enters the pipeline.
type RawInput struct {
	// Type is the input type origin processes declare, e.g. "fastq".
	Type string
	// Channel is the Nextflow expression building the channel.
	Channel string
	// Params are the user parameters the expression reads.
	Params []process.Param

	FSInformation *FSInfo
}

var rawInputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "channel", Required: true},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "param", LabelNames: []string{"name"}},
	},
}

func parseRawInput(parsed *hclLabeled, filePath string) (*RawInput, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	bodyContent, contentDiags := parsed.Body.Content(rawInputBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	def := &RawInput{
		Type:          parsed.Name,
		FSInformation: NewFSInfo(filePath),
	}

	diags = append(diags, gohcl.DecodeExpression(bodyContent.Attributes["channel"].Expr, nil, &def.Channel)...)

	var paramDiags hcl.Diagnostics
	def.Params, paramDiags = parseParams(bodyContent.Blocks)
	diags = append(diags, paramDiags...)

	if diags.HasErrors() {
		return nil, diags
	}
	return def, diags
}

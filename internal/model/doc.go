// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go struct representation of nfcompose's input
// files. It parses HCL process manifests into strongly-typed catalog
// definitions, and pipeline definitions written in HCL, YAML, JSON, or the
// compact recipe syntax into the format-agnostic `config.Pipeline`.
//
// # Core Concepts
//
//   - Process: the catalog definition of a pipeline step. It declares the
//     main input and output types, the secondary channels it starts and
//     consumes, the status channels it reports on, its parameters, resource
//     directives, and the Nextflow fragment it contributes.
//
//   - RawInput: the definition of a channel built from external user data of
//     one input type, e.g. paired-end fastq files.
//
//   - Pipeline: the ordered connection list that places processes on lanes.
//
//   - FSInfo: metadata that links every definition back to its source file,
//     so that errors can name the file the problem came from.
package model

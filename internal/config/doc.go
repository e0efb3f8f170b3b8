// Package config defines the format-agnostic pipeline model consumed by the
// compiler, along with the Loader interface for reading it from various
// sources.
//
// The `config.Pipeline` is the single source of truth for the `compiler`
// package. Concrete implementations of the interface, such as for HCL or
// YAML, are provided by the `model` package.
package config

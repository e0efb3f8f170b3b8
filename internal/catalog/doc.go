// Package catalog is the registry of process definitions the compiler draws
// its nodes from.
//
// Definitions are read from HCL manifests: the built-in set shipped inside
// the binary, optionally extended or overridden by user directories. Each
// lookup returns a fresh process.Node, so one catalog can serve any number of
// concurrent compilations.
package catalog

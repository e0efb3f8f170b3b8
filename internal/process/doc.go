// Package process defines the Node, the per-connection unit the compiler
// works on, together with the operations that mutate its channel wiring and
// render its Nextflow fragment.
//
// A Node is created from a catalog entry, receives its main channel names
// while the connection graph is built, collects broadcast targets from forks
// and secondary links, and is finally rendered once every name is settled.
package process

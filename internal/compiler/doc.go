// Package compiler turns an ordered list of pipeline connections into a
// Nextflow workflow script.
//
// A Compilation runs a fixed sequence of passes over one node list: the
// builder creates nodes and the fork tree, the namer binds pids and gathers
// raw and parameter inputs, the resolver wires secondary channels across
// lanes, the status pass fills in the status aggregators, and the emitter
// renders the result. Nothing is written until every pass has succeeded.
package compiler

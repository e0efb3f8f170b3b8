// Package forktree records how pipeline lanes branch off each other.
//
// A lane is an integer tag for one parallel branch of the pipeline. Whenever a
// connection moves from one lane to another, the output lane becomes a child
// of the input lane. The resulting structure is a forest keyed by parent
// lane; both the parent keys and each child list keep insertion order, so
// every walk over the tree is deterministic.
package forktree

// Package export derives machine and human readable views of a compiled
// pipeline: the node DAG and fork tree as JSON, and a printable lane tree.
package export

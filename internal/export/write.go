package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/specialistvlad/nfcompose/internal/forktree"
	"github.com/specialistvlad/nfcompose/internal/process"
	"github.com/spf13/afero"
)

const (
	// DagFile and ForkTreeFile are written next to the workflow.
	DagFile      = ".treeDag.json"
	ForkTreeFile = ".forkTree.json"
)

// Paths returns the DAG and fork tree file paths for a workflow path.
func Paths(workflowPath string) (dagPath, forkPath string) {
	dir := filepath.Dir(workflowPath)
	return filepath.Join(dir, DagFile), filepath.Join(dir, ForkTreeFile)
}

// Encode renders the DAG export as indented JSON.
func Encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return append(data, '\n'), nil
}

// Write stores the DAG and fork tree exports next to workflowPath.
func Write(ctx context.Context, fsys afero.Fs, workflowPath string, nodes []*process.Node, tree *forktree.Tree) error {
	logger := ctxlog.FromContext(ctx)

	dag, err := BuildDag(nodes)
	if err != nil {
		return err
	}
	dagPath, forkPath := Paths(workflowPath)

	files := []struct {
		path  string
		value any
	}{
		{dagPath, dag},
		{forkPath, ForkMap(tree)},
	}
	for _, f := range files {
		data, err := Encode(f.value)
		if err != nil {
			return err
		}
		if err := afero.WriteFile(fsys, f.path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		logger.Debug("Export written.", "path", f.path)
	}
	return nil
}

// ReadDag loads a DAG export written by Write.
func ReadDag(fsys afero.Fs, path string) (*DagNode, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var dag DagNode
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dag); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &dag, nil
}

// Package inspect reads the logs Nextflow leaves behind after running a
// generated workflow.
package inspect

import (
	"bufio"
	"context"
	"fmt"
	"regexp"

	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/spf13/afero"
)

// DefaultLogFile is the log Nextflow writes in its launch directory.
const DefaultLogFile = ".nextflow.log"

// workflowPathPattern matches a whitespace-preceded, absolute or relative
// path ending in ".nf". The greedy prefix makes it pick the last such path
// on a line.
var workflowPathPattern = regexp.MustCompile(`.*\s([/\w]*\w*\.nf).*`)

// InspectionError reports a log that does not name a workflow file.
type InspectionError struct {
	Path    string
	Message string
}

func (e *InspectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// WorkflowPath returns the first workflow file path mentioned in the log at
// path.
func WorkflowPath(ctx context.Context, fsys afero.Fs, path string) (string, error) {
	logger := ctxlog.FromContext(ctx).With("log", path)

	f, err := fsys.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open nextflow log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lines := 0
	for scanner.Scan() {
		lines++
		m := workflowPathPattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		logger.Debug("Found workflow path.", "line", lines, "workflow", m[1])
		return m[1], nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read nextflow log: %w", err)
	}

	if lines == 0 {
		return "", &InspectionError{Path: path, Message: "nextflow command path could not be found; is the log empty?"}
	}
	return "", &InspectionError{Path: path, Message: fmt.Sprintf("no workflow path found in %d lines", lines)}
}

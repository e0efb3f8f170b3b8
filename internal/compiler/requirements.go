package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/nfcompose/internal/ctxlog"
)

// checkRequirements verifies pipeline-wide constraints: at least one node
// consumes a raw input type, and every declared dependency is present.
func (c *Compilation) checkRequirements(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("pass", "requirements")

	present := make(map[string]struct{}, len(c.nodes))
	var names []string
	for _, n := range c.nodes[1:] {
		present[n.Template] = struct{}{}
		names = append(names, n.Template)
	}
	logger.Debug("Checking pipeline requirements.", "templates", names)

	hasRaw := false
	for _, n := range c.nodes[1:] {
		if n.InputType == "" {
			continue
		}
		if _, ok := c.catalog.RawChannel(n.InputType); ok {
			hasRaw = true
			break
		}
	}
	if !hasRaw {
		return &ProcessError{Message: "at least one process with a raw input type must be specified; check that the pipeline starts with an appropriate process"}
	}

	var result *multierror.Error
	for _, n := range c.nodes[1:] {
		var missing []string
		for _, dep := range n.Dependencies {
			if _, ok := present[dep]; !ok {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			result = multierror.Append(result, fmt.Errorf("process %s requires %s", n, strings.Join(missing, ", ")))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return &ConfigurationError{Message: "missing dependencies", Err: err}
	}
	return nil
}

package catalog

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/specialistvlad/nfcompose/internal/process"
)

// Validate checks that every definition can be turned into a renderable
// node: fragments compile, links are named, dependencies exist, and raw
// inputs build a channel.
func Validate(ctx context.Context, c *Catalog) error {
	logger := ctxlog.FromContext(ctx)
	var result *multierror.Error

	for _, name := range c.Names() {
		e := c.entries[name]
		def := e.Definition

		if e.Fragment == "" {
			result = multierror.Append(result, fmt.Errorf("process %q: no fragment defined", name))
		} else if _, err := process.ParseFragment(name, e.Fragment); err != nil {
			result = multierror.Append(result, fmt.Errorf("process %q: %w", name, err))
		}

		for i, end := range def.LinkEnd {
			if end.Link == "" || end.Alias == "" {
				result = multierror.Append(result, fmt.Errorf("process %q: link_end %d needs both link and alias", name, i))
			}
		}

		for _, dep := range def.Dependencies {
			if !c.Has(dep) {
				result = multierror.Append(result, fmt.Errorf("process %q: dependency %q is not in the catalog", name, dep))
			}
		}

		if def.PType == process.StatusPType && len(def.StatusChannels) > 0 {
			logger.Warn("Status process declares its own status channels; they are never aggregated.", "process", name)
		}
	}

	for _, t := range c.RawInputTypes() {
		if c.rawInputs[t].Channel == "" {
			result = multierror.Append(result, fmt.Errorf("raw input %q: channel expression is empty", t))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("catalog validation failed: %w", err)
	}
	logger.Debug("Catalog validation passed.", "processes", len(c.entries))
	return nil
}

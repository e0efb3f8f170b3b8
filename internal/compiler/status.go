package compiler

import (
	"context"

	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/specialistvlad/nfcompose/internal/process"
)

// setStatusChannels gathers the status channels of every regular node and
// delivers them to the status nodes. Status names must be unique across the
// pipeline.
func (c *Compilation) setStatusChannels(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("pass", "status")

	var all []string
	for _, n := range c.nodes {
		if n.PType == process.StatusPType {
			continue
		}
		all = append(all, n.StatusStrings...)
	}
	logger.Debug("Setting status channels.", "channels", all)

	seen := make(map[string]struct{}, len(all))
	for _, name := range all {
		if _, dup := seen[name]; dup {
			return &ProcessError{
				Message:  "duplicate status channels detected; ensure that the status_channels of each process are unique",
				Channels: all,
			}
		}
		seen[name] = struct{}{}
	}

	for _, n := range c.nodes {
		if n.PType == process.StatusPType {
			n.SetStatusChannels(all)
		}
	}
	return nil
}

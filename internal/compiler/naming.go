package compiler

import (
	"context"

	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/specialistvlad/nfcompose/internal/process"
)

// setChannels binds every node to its pid in creation order, collects raw
// and parameter inputs, and resolves secondary link starts and ends.
func (c *Compilation) setChannels(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("pass", "channels")

	for pid, n := range c.nodes {
		logger.Debug("Setting main channels.", "node", n.Template, "pid", pid)
		n.SetChannels(pid)

		if n.IsOrigin() {
			if err := c.addRawInput(n); err != nil {
				return err
			}
		}
		c.addSecondaryInputs(ctx, n)
		c.resolveSecondary(ctx, n)
	}
	return nil
}

// addRawInput merges an origin node into the raw input entry of its type.
func (c *Compilation) addRawInput(n *process.Node) error {
	if i, ok := c.rawIndex[n.InputType]; ok {
		c.rawInputs[i].Forks = append(c.rawInputs[i].Forks, n.InputChannel)
		return nil
	}

	expr, ok := c.catalog.RawChannel(n.InputType)
	if !ok {
		return configErrorf("process %s starts from raw input of type %q, which has no raw_input definition", n, n.InputType)
	}
	c.rawIndex[n.InputType] = len(c.rawInputs)
	c.rawInputs = append(c.rawInputs, process.RawInput{
		Type:    n.InputType,
		Channel: expr,
		Forks:   []string{n.InputChannel},
	})
	return nil
}

// addSecondaryInputs registers parameter channels; the first declaration of
// a parameter wins.
func (c *Compilation) addSecondaryInputs(ctx context.Context, n *process.Node) {
	logger := ctxlog.FromContext(ctx)
	for _, in := range n.SecondaryInputs {
		if _, ok := c.seenParams[in.Param]; ok {
			continue
		}
		c.seenParams[in.Param] = struct{}{}
		c.secondaryInputs = append(c.secondaryInputs, in)
		logger.Debug("Added secondary input.", "node", n.Template, "param", in.Param)
	}
}

// setRootInputs hands the collected raw and parameter inputs to the root.
func (c *Compilation) setRootInputs(ctx context.Context) {
	ctxlog.FromContext(ctx).Debug("Setting root inputs.",
		"raw_inputs", len(c.rawInputs), "secondary_inputs", len(c.secondaryInputs))
	root := c.nodes[0]
	root.SetRawInputs(c.rawInputs)
	root.SetSecondaryInputs(c.secondaryInputs)
}

// appendStatusCompiler adds a status aggregator at the end of the pipeline
// when nodes report status but none collects it.
func (c *Compilation) appendStatusCompiler(ctx context.Context, position int) error {
	hasStatus := false
	for _, n := range c.nodes {
		if n.PType == process.StatusPType {
			return nil
		}
		if len(n.StatusChannels) > 0 {
			hasStatus = true
		}
	}
	if !hasStatus {
		return nil
	}

	node, err := c.catalog.Lookup(StatusCompilerTemplate)
	if err != nil {
		return &ConfigurationError{Message: "automatic status compiler", Err: err}
	}
	last := c.nodes[len(c.nodes)-1]
	lane := last.Lane
	node.SetMainChannelNames(lane, lane, position)
	node.ParentLane = &lane
	c.nodes = append(c.nodes, node)

	ctxlog.FromContext(ctx).Debug("Appended automatic status compiler.", "lane", lane, "pid", len(c.nodes)-1)
	return nil
}

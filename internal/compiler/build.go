package compiler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/nfcompose/internal/config"
	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/specialistvlad/nfcompose/internal/process"
)

// checkNames verifies that every template on either side of every
// connection exists before any node is created.
func (c *Compilation) checkNames(ctx context.Context, conns []config.Connection) error {
	logger := ctxlog.FromContext(ctx).With("pass", "names")

	if len(conns) == 0 {
		return configErrorf("pipeline has no connections")
	}

	seen := make(map[string]struct{})
	var unknown []string
	for _, conn := range conns {
		for _, ep := range []config.Endpoint{conn.Input, conn.Output} {
			if ep.IsRoot() {
				continue
			}
			if _, ok := seen[ep.Process]; ok {
				continue
			}
			seen[ep.Process] = struct{}{}
			if _, err := c.catalog.Lookup(ep.Process); err != nil {
				logger.Debug("Template lookup failed.", "template", ep.Process, "error", err)
				unknown = append(unknown, ep.Process)
			}
		}
	}

	if len(unknown) > 0 {
		return configErrorf("unknown process template(s): %s", strings.Join(unknown, ", "))
	}
	for _, conn := range conns {
		if conn.Output.IsRoot() {
			return configErrorf("connection %s: %q cannot be a connection target", conn, config.RootProcess)
		}
	}
	return nil
}

// build creates one node per connection, links each node to its predecessor
// and records lane forks.
func (c *Compilation) build(ctx context.Context, conns []config.Connection) error {
	logger := ctxlog.FromContext(ctx).With("pass", "build")
	c.nodes = []*process.Node{process.NewRoot()}

	for p, conn := range conns {
		inLane, outLane := conn.Input.Lane, conn.Output.Lane
		logger.Debug("Processing connection.", "position", p, "connection", conn.String())

		node, err := c.catalog.Lookup(conn.Output.Process)
		if err != nil {
			return &ConfigurationError{Message: fmt.Sprintf("connection %s", conn), Err: err}
		}
		node.SetMainChannelNames(inLane, outLane, p)
		node.PID = len(c.nodes)

		if conn.Input.IsRoot() {
			node.ParentLane = nil
		} else {
			parent, err := c.catalog.Lookup(conn.Input.Process)
			if err != nil {
				return &ConfigurationError{Message: fmt.Sprintf("connection %s", conn), Err: err}
			}
			if err := checkTypes(parent, node); err != nil {
				return err
			}
			lane := inLane
			node.ParentLane = &lane
		}

		if conn.IsFork() {
			if err := c.forkTree.AddFork(inLane, outLane); err != nil {
				return &ConfigurationError{Message: fmt.Sprintf("connection %s", conn), Err: err}
			}
			if parent := c.lastOnLane(inLane, conn.Input.Process); parent != nil {
				logger.Debug("Updating main forks of parent.", "parent", parent.String(), "sink", node.InputChannel)
				parent.UpdateMainForks(node.InputChannel)
			}
		} else if prev := c.nodes[len(c.nodes)-1]; prev.OutputChannel != "" {
			node.InputChannel = prev.OutputChannel
		}

		c.nodes = append(c.nodes, node)
	}
	return nil
}

// lastOnLane returns the most recently created node of the given template on
// lane. The root never acts as a fork parent; raw inputs fan out instead.
func (c *Compilation) lastOnLane(lane int, template string) *process.Node {
	for i := len(c.nodes) - 1; i > 0; i-- {
		n := c.nodes[i]
		if n.Lane == lane && n.Template == template {
			return n
		}
	}
	return nil
}

func checkTypes(parent, child *process.Node) error {
	if parent.IgnoreType || child.IgnoreType {
		return nil
	}
	if parent.OutputType != child.InputType {
		return &ConfigurationError{
			Message: fmt.Sprintf("the output of the %q process (%s) cannot link with the input of the %q process (%s)",
				parent.Template, typeName(parent.OutputType), child.Template, typeName(child.InputType)),
			Err: errTypeMismatch,
		}
	}
	return nil
}

var errTypeMismatch = errors.New("incompatible process types")

func typeName(t string) string {
	if t == "" {
		return "none"
	}
	return t
}

package compiler

import (
	"context"
	"strings"

	"github.com/specialistvlad/nfcompose/internal/channel"
	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/specialistvlad/nfcompose/internal/process"
)

// registration is one start of a secondary channel and the aliases of the
// consumers bound to it.
type registration struct {
	owner *process.Node
	ends  []string
}

// registry holds secondary channel starts keyed by link name and lane. Both
// levels keep first-insertion order so that rendering is deterministic.
type registry struct {
	names   []string
	lanes   map[string][]int
	entries map[string]map[int]*registration
}

func newRegistry() *registry {
	return &registry{
		lanes:   make(map[string][]int),
		entries: make(map[string]map[int]*registration),
	}
}

// start registers owner as the source of link on its lane and returns the
// node it replaced, if any.
func (r *registry) start(link string, owner *process.Node) *process.Node {
	byLane, ok := r.entries[link]
	if !ok {
		byLane = make(map[int]*registration)
		r.entries[link] = byLane
		r.names = append(r.names, link)
	}

	prev, ok := byLane[owner.Lane]
	if !ok {
		r.lanes[link] = append(r.lanes[link], owner.Lane)
	}
	byLane[owner.Lane] = &registration{owner: owner}
	if ok {
		return prev.owner
	}
	return nil
}

func (r *registry) get(link string, lane int) (*registration, bool) {
	reg, ok := r.entries[link][lane]
	return reg, ok
}

// endsOf returns the consumer aliases bound to the start of link on lane.
func (r *registry) endsOf(link string, lane int) []string {
	reg, ok := r.get(link, lane)
	if !ok {
		return nil
	}
	return reg.ends
}

func (r *registry) each(fn func(link string, reg *registration)) {
	for _, link := range r.names {
		for _, lane := range r.lanes[link] {
			fn(link, r.entries[link][lane])
		}
	}
}

// resolveSecondary records the link starts of n and binds each of its link
// ends to the matching starts on n's ancestor lanes.
func (c *Compilation) resolveSecondary(ctx context.Context, n *process.Node) {
	logger := ctxlog.FromContext(ctx).With("pass", "secondary", "node", n.String())

	for _, link := range n.LinkStart {
		logger.Debug("Found secondary link start.", "link", link)
		if prev := c.secondary.start(link, n); prev != nil {
			logger.Warn("Secondary link start replaces an earlier one on the same lane.",
				"link", link, "lane", n.Lane, "replaced", prev.String())
		}
	}

	if len(n.LinkEnd) == 0 {
		return
	}

	chain := c.forkTree.Ancestors(n.Lane)
	inChain := make(map[int]struct{}, len(chain))
	for _, lane := range chain {
		inChain[lane] = struct{}{}
	}

	for _, end := range n.LinkEnd {
		alias := channel.Alias(end.Alias, n.PID)

		if end.IsImplicit() {
			outputType := strings.TrimLeft(end.Link, "_")
			if src := c.lastOfType(outputType, inChain); src != nil {
				src.UpdateMainForks(alias)
				logger.Debug("Linked implicit secondary channel.", "link", end.Link, "alias", alias, "source", src.String())
			} else {
				logger.Warn("No upstream process matches implicit link; it stays unwired.", "link", end.Link)
			}
			continue
		}

		// The nearest start up the chain is the only source of the end.
		bound := false
		for _, lane := range chain {
			if reg, ok := c.secondary.get(end.Link, lane); ok {
				reg.ends = append(reg.ends, alias)
				bound = true
				logger.Debug("Linked secondary channel.", "link", end.Link, "alias", alias, "source", reg.owner.String())
				break
			}
		}
		if !bound {
			logger.Debug("No start found for secondary link end.", "link", end.Link)
		}
	}
}

// lastOfType scans every node in reverse creation order and returns the
// first one on a lane in lanes whose output type matches. An empty type
// matches nothing.
func (c *Compilation) lastOfType(outputType string, lanes map[int]struct{}) *process.Node {
	if outputType == "" {
		return nil
	}
	for i := len(c.nodes) - 1; i > 0; i-- {
		n := c.nodes[i]
		if _, ok := lanes[n.Lane]; !ok {
			continue
		}
		if n.OutputType == outputType {
			return n
		}
	}
	return nil
}

// setSecondaryChannels renders the broadcast of every start that gained at
// least one consumer.
func (c *Compilation) setSecondaryChannels(ctx context.Context) {
	logger := ctxlog.FromContext(ctx).With("pass", "secondary")
	c.secondary.each(func(link string, reg *registration) {
		if len(reg.ends) == 0 {
			logger.Debug("No secondary links to set up.", "link", link, "node", reg.owner.String())
			return
		}
		logger.Debug("Setting secondary links.", "link", link, "node", reg.owner.String(), "ends", reg.ends)
		reg.owner.SetSecondaryChannel(link, reg.ends)
	})
}

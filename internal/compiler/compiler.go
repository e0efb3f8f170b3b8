package compiler

import (
	"context"
	"strings"

	"github.com/specialistvlad/nfcompose/internal/config"
	"github.com/specialistvlad/nfcompose/internal/ctxlog"
	"github.com/specialistvlad/nfcompose/internal/forktree"
	"github.com/specialistvlad/nfcompose/internal/process"
)

// StatusCompilerTemplate is the catalog template appended by AutoStatus.
const StatusCompilerTemplate = "status_compiler"

// Catalog is the subset of the process catalog the compiler depends on.
type Catalog interface {
	// Lookup returns a fresh node for a template name.
	Lookup(name string) (*process.Node, error)
	// RawChannel returns the channel expression for a raw input type.
	RawChannel(inputType string) (string, bool)
}

// Options tune a compilation.
type Options struct {
	// AutoStatus appends a status_compiler node when the pipeline reports
	// status channels but has no status node of its own.
	AutoStatus bool
	// Header and Footer wrap the rendered fragments. Empty values use
	// DefaultHeader and DefaultFooter.
	Header string
	Footer string
}

// Result is a finished compilation.
type Result struct {
	// Text is the complete workflow script.
	Text string
	// Nodes lists every node by pid, root first.
	Nodes []*process.Node
	// ForkTree maps each parent lane to the lanes forked from it.
	ForkTree *forktree.Tree
	// RawInputs and SecondaryInputs are the channels declared by the root.
	RawInputs       []process.RawInput
	SecondaryInputs []process.SecondaryInput
}

// Compilation owns every piece of state of a single compile run.
type Compilation struct {
	catalog Catalog
	opts    Options

	nodes     []*process.Node
	forkTree  *forktree.Tree
	secondary *registry

	rawInputs []process.RawInput
	rawIndex  map[string]int

	secondaryInputs []process.SecondaryInput
	seenParams      map[string]struct{}
}

// New creates a Compilation that reads templates from cat.
func New(cat Catalog, opts Options) *Compilation {
	if opts.Header == "" {
		opts.Header = DefaultHeader
	}
	if opts.Footer == "" {
		opts.Footer = DefaultFooter
	}
	return &Compilation{
		catalog:    cat,
		opts:       opts,
		forkTree:   forktree.New(),
		secondary:  newRegistry(),
		rawIndex:   make(map[string]int),
		seenParams: make(map[string]struct{}),
	}
}

// Compile runs every pass over conns and returns the rendered workflow. A
// Compilation is single use.
func (c *Compilation) Compile(ctx context.Context, conns []config.Connection) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting compilation.", "connections", len(conns))

	if err := c.checkNames(ctx, conns); err != nil {
		return nil, err
	}
	if err := c.build(ctx, conns); err != nil {
		return nil, err
	}
	if err := c.forkTree.DetectCycles(); err != nil {
		return nil, &ConfigurationError{Message: "invalid fork tree", Err: err}
	}
	if err := c.checkRequirements(ctx); err != nil {
		return nil, err
	}
	if c.opts.AutoStatus {
		if err := c.appendStatusCompiler(ctx, len(conns)); err != nil {
			return nil, err
		}
	}
	if err := c.setChannels(ctx); err != nil {
		return nil, err
	}
	c.setRootInputs(ctx)
	c.setSecondaryChannels(ctx)
	if err := c.setStatusChannels(ctx); err != nil {
		return nil, err
	}

	text, err := c.render()
	if err != nil {
		return nil, err
	}

	logger.Info("Compilation finished.", "nodes", len(c.nodes), "forks", c.forkTree.Len())
	return &Result{
		Text:            text,
		Nodes:           c.nodes,
		ForkTree:        c.forkTree,
		RawInputs:       c.rawInputs,
		SecondaryInputs: c.secondaryInputs,
	}, nil
}

// Compile is a shorthand for New(cat, opts).Compile(ctx, conns).
func Compile(ctx context.Context, cat Catalog, opts Options, conns []config.Connection) (*Result, error) {
	return New(cat, opts).Compile(ctx, conns)
}

func (c *Compilation) render() (string, error) {
	var b strings.Builder
	b.WriteString(c.opts.Header)
	for _, n := range c.nodes {
		out, err := n.Render()
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	b.WriteString(c.opts.Footer)
	return b.String(), nil
}

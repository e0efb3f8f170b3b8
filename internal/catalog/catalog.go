package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/nfcompose/internal/model"
	"github.com/specialistvlad/nfcompose/internal/process"
)

// ErrUnknownProcess is returned by Lookup for names the catalog lacks.
var ErrUnknownProcess = errors.New("unknown process")

// Entry is a process definition together with its resolved fragment.
type Entry struct {
	Definition *model.Process
	Fragment   string
}

// Catalog holds process and raw input definitions for one application
// instance. It is safe for concurrent reads once populated.
type Catalog struct {
	entries   map[string]*Entry
	rawInputs map[string]*model.RawInput
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{
		entries:   make(map[string]*Entry),
		rawInputs: make(map[string]*model.RawInput),
	}
}

// Put adds or replaces a process definition.
func (c *Catalog) Put(def *model.Process, fragment string) {
	c.entries[def.Name] = &Entry{Definition: def, Fragment: fragment}
}

// PutRawInput adds or replaces a raw input definition.
func (c *Catalog) PutRawInput(def *model.RawInput) {
	c.rawInputs[def.Type] = def
}

// Merge copies every definition of `other` into c, replacing clashes.
func (c *Catalog) Merge(other *Catalog) {
	for name, e := range other.entries {
		c.entries[name] = e
	}
	for name, r := range other.rawInputs {
		c.rawInputs[name] = r
	}
}

// Has reports whether a process definition exists.
func (c *Catalog) Has(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Get returns the entry for a process name.
func (c *Catalog) Get(name string) (*Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Names returns every process name in lexical order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RawInputTypes returns every raw input type in lexical order.
func (c *Catalog) RawInputTypes() []string {
	types := make([]string, 0, len(c.rawInputs))
	for t := range c.rawInputs {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// RawInput returns the definition for an input type.
func (c *Catalog) RawInput(inputType string) (*model.RawInput, bool) {
	r, ok := c.rawInputs[inputType]
	return r, ok
}

// RawChannel returns the channel expression for an input type.
func (c *Catalog) RawChannel(inputType string) (string, bool) {
	r, ok := c.rawInputs[inputType]
	if !ok {
		return "", false
	}
	return r.Channel, true
}

// Lookup creates a new node from the named definition.
func (c *Catalog) Lookup(name string) (*process.Node, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProcess, name)
	}
	return e.newNode(), nil
}

// newNode returns a node holding copies of every slice of the definition.
func (e *Entry) newNode() *process.Node {
	def := e.Definition
	return &process.Node{
		Template:        def.Name,
		Description:     def.Description,
		InputType:       def.InputType,
		OutputType:      def.OutputType,
		IgnoreType:      def.IgnoreType,
		PType:           def.PType,
		Dependencies:    append([]string(nil), def.Dependencies...),
		LinkStart:       append([]string(nil), def.LinkStart...),
		LinkEnd:         append([]process.LinkEnd(nil), def.LinkEnd...),
		StatusChannels:  append([]string(nil), def.StatusChannels...),
		SecondaryInputs: append([]process.SecondaryInput(nil), def.SecondaryInputs...),
		Params:          append([]process.Param(nil), def.Params...),
		Directives:      append([]process.Directive(nil), def.Directives...),
		Fragment:        e.Fragment,
	}
}

package config

import "fmt"

// RootProcess is the process name that marks the synthetic pipeline root.
const RootProcess = "__init__"

// Pipeline is the unified, format-agnostic representation of a pipeline
// definition.
type Pipeline struct {
	// Name is optional and only used for logging and exports.
	Name string
	// Source is the file the pipeline was loaded from, if any.
	Source string
	// Connections is the ordered connection list. Order is significant.
	Connections []Connection
}

// Connection is one directed edge between two processes.
type Connection struct {
	Input  Endpoint `json:"input" yaml:"input"`
	Output Endpoint `json:"output" yaml:"output"`
}

// Endpoint places a process on a lane.
type Endpoint struct {
	Process string `json:"process" yaml:"process"`
	Lane    int    `json:"lane" yaml:"lane"`
}

// IsRoot reports whether the endpoint is the synthetic root.
func (e Endpoint) IsRoot() bool {
	return e.Process == RootProcess
}

// IsFork reports whether the connection moves to another lane.
func (c Connection) IsFork() bool {
	return c.Input.Lane != c.Output.Lane
}

// String implements fmt.Stringer for log output.
func (c Connection) String() string {
	return fmt.Sprintf("%s(%d) -> %s(%d)", c.Input.Process, c.Input.Lane, c.Output.Process, c.Output.Lane)
}

// Templates returns every non-root process name referenced by the pipeline,
// in order of first appearance.
func (p *Pipeline) Templates() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		if name == RootProcess {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, c := range p.Connections {
		add(c.Input.Process)
		add(c.Output.Process)
	}
	return out
}

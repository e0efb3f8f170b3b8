package process

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// rootFragment is rendered by the synthetic root node. It declares the raw
// and secondary input channels and fans the raw inputs out to the origins.
const rootFragment = `
// Main raw inputs
{{.MainInputs}}

// Secondary inputs
{{.SecondaryInputs}}
{{.Forks}}
`

// RenderData is the value a fragment template is executed against.
type RenderData struct {
	Template        string
	PID             int
	Lane            int
	InputChannel    string
	OutputChannel   string
	Forks           string
	StatusChannels  string
	MainInputs      string
	SecondaryInputs string
}

// ParseFragment compiles a fragment so that template errors surface when a
// catalog is loaded rather than when a pipeline is emitted.
func ParseFragment(name, fragment string) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(fragment)
	if err != nil {
		return nil, fmt.Errorf("invalid fragment for %q: %w", name, err)
	}
	return tmpl, nil
}

// Data returns the values the node's fragment is rendered with.
func (n *Node) Data() RenderData {
	return RenderData{
		Template:        n.Template,
		PID:             n.PID,
		Lane:            n.Lane,
		InputChannel:    n.InputChannel,
		OutputChannel:   n.OutputChannel,
		Forks:           strings.Join(n.Forks, "\n"),
		StatusChannels:  n.statusChannels,
		MainInputs:      n.mainInputs,
		SecondaryInputs: n.secondaryInputs,
	}
}

// Render returns the node's Nextflow fragment. SetChannels must have been
// called first.
func (n *Node) Render() (string, error) {
	if !n.channelsSet {
		return "", fmt.Errorf("node %s rendered before its channels were set", n)
	}

	fragment := n.Fragment
	if n.IsRoot() {
		fragment = rootFragment
	}

	tmpl, err := ParseFragment(n.Template, fragment)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, n.Data()); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", n, err)
	}
	return buf.String(), nil
}

// NewRoot returns the synthetic root node.
func NewRoot() *Node {
	return &Node{Template: RootTemplate}
}

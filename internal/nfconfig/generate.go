package nfconfig

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/nfcompose/internal/process"
)

// File names written next to the workflow.
const (
	ParamsFile     = "params.config"
	ResourcesFile  = "resources.config"
	ContainersFile = "containers.config"
)

// Files holds the rendered configuration files.
type Files struct {
	Params     string
	Resources  string
	Containers string
}

// Generate renders the configuration of a compiled pipeline. rawParams are
// the parameters of the raw inputs the pipeline reads; they are declared
// first. A parameter is declared once, by the first node that lists it.
func Generate(nodes []*process.Node, rawParams []process.Param) (*Files, error) {
	params, err := renderParams(nodes, rawParams)
	if err != nil {
		return nil, err
	}
	return &Files{
		Params:     params,
		Resources:  renderResources(nodes),
		Containers: renderContainers(nodes),
	}, nil
}

func renderParams(nodes []*process.Node, rawParams []process.Param) (string, error) {
	var b strings.Builder
	seen := make(map[string]struct{})
	b.WriteString("params {\n")

	write := func(heading string, list []process.Param) error {
		var lines []string
		for _, p := range list {
			if _, dup := seen[p.Name]; dup {
				continue
			}
			seen[p.Name] = struct{}{}

			val, err := groovyLiteral(p.Default)
			if err != nil {
				return fmt.Errorf("param %q: %w", p.Name, err)
			}
			if p.Description != "" {
				lines = append(lines, fmt.Sprintf("    // %s", p.Description))
			}
			lines = append(lines, fmt.Sprintf("    %s = %s", p.Name, val))
		}
		if len(lines) == 0 {
			return nil
		}
		fmt.Fprintf(&b, "\n    /*\n    %s\n    %s\n    */\n", heading, strings.Repeat("-", len(heading)))
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
		return nil
	}

	if err := write("Raw inputs", rawParams); err != nil {
		return "", err
	}
	for _, n := range nodes {
		if n.IsRoot() {
			continue
		}
		if err := write(fmt.Sprintf("Component '%s_%d'", n.Template, n.PID), n.Params); err != nil {
			return "", err
		}
	}

	b.WriteString("\n}\n")
	return b.String(), nil
}

func renderResources(nodes []*process.Node) string {
	return renderProcessScopes(nodes, func(d process.Directive) []string {
		var lines []string
		if d.CPUs > 0 {
			lines = append(lines, fmt.Sprintf("cpus = %d", d.CPUs))
		}
		if d.Memory != "" {
			lines = append(lines, fmt.Sprintf("memory = %s", closureOrString(d.Memory)))
		}
		return lines
	})
}

func renderContainers(nodes []*process.Node) string {
	return renderProcessScopes(nodes, func(d process.Directive) []string {
		if d.Container == "" {
			return nil
		}
		image := d.Container
		if d.Version != "" {
			image = fmt.Sprintf("%s:%s", d.Container, d.Version)
		}
		return []string{fmt.Sprintf("container = %q", image)}
	})
}

// renderProcessScopes renders one withName selector per directive that
// yields at least one setting. Nextflow process names carry the node pid.
func renderProcessScopes(nodes []*process.Node, settings func(process.Directive) []string) string {
	var b strings.Builder
	b.WriteString("process {\n")
	for _, n := range nodes {
		for _, d := range n.Directives {
			lines := settings(d)
			if len(lines) == 0 {
				continue
			}
			fmt.Fprintf(&b, "\n    withName:%s_%d {\n", d.Process, n.PID)
			for _, l := range lines {
				fmt.Fprintf(&b, "        %s\n", l)
			}
			b.WriteString("    }\n")
		}
	}
	b.WriteString("\n}\n")
	return b.String()
}

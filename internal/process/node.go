package process

import (
	"fmt"

	"github.com/specialistvlad/nfcompose/internal/channel"
)

// Node is one instance of a catalog template placed on a lane of the
// pipeline. The same template may appear many times as distinct nodes.
type Node struct {
	// Template is the catalog name this node was created from.
	Template string
	// Description is the catalog description, used for listings only.
	Description string
	// Lane is the lane the node sits on.
	Lane int
	// PID is the zero-based creation position. The root is always 0.
	PID int
	// ParentLane is the lane of the direct predecessor, or nil when the node
	// forks directly off the root.
	ParentLane *int

	// InputChannel and OutputChannel are the main channel names.
	InputChannel  string
	OutputChannel string
	// MainForks lists every channel the main output is broadcast into. When
	// non-empty, its first element is the node's own original output name.
	MainForks []string
	// Forks holds rendered broadcast statements, main fork first.
	Forks []string

	InputType  string
	OutputType string
	IgnoreType bool
	PType      string

	// Dependencies are template names that must appear in the pipeline.
	Dependencies []string
	// LinkStart names the secondary channels this node produces.
	LinkStart []string
	// LinkEnd lists the secondary channels this node consumes.
	LinkEnd []LinkEnd
	// StatusChannels are the bare status names this node reports on.
	StatusChannels []string
	// StatusStrings are the full status channel names, set by SetChannels.
	StatusStrings []string

	SecondaryInputs []SecondaryInput
	Params          []Param
	Directives      []Directive

	// Fragment is the text/template source of the node's Nextflow code.
	Fragment string

	// render-time values that only the root or status nodes use.
	mainInputs      string
	secondaryInputs string
	statusChannels  string
	channelsSet     bool
}

// IsRoot reports whether the node is the synthetic root of the pipeline.
func (n *Node) IsRoot() bool {
	return n.Template == RootTemplate
}

// IsOrigin reports whether the node receives its main input from raw user
// data rather than from another node.
func (n *Node) IsOrigin() bool {
	return !n.IsRoot() && n.ParentLane == nil && n.InputType != ""
}

// SetMainChannelNames places the node on outLane and names its main input
// and output channels after the connection at position.
func (n *Node) SetMainChannelNames(inLane, outLane, position int) {
	n.InputChannel = channel.NewInput(n.Template, inLane, position).String()
	n.OutputChannel = channel.NewOutput(n.Template, outLane, position).String()
	n.Lane = outLane
}

// UpdateMainForks adds `sink` as a broadcast target of the node's main
// output. The first call renames the output channel so that the original
// name becomes the first broadcast target.
func (n *Node) UpdateMainForks(sink string) {
	if len(n.MainForks) == 0 {
		n.MainForks = []string{n.OutputChannel}
		n.OutputChannel = channel.Forked(n.OutputChannel)
	}
	n.MainForks = append(n.MainForks, sink)

	stmt := forkStatement(n.OutputChannel, n.MainForks)
	if len(n.Forks) == 0 {
		n.Forks = []string{stmt}
		return
	}
	n.Forks[0] = stmt
}

// SetSecondaryChannel renders a broadcast of the secondary channel `link`,
// started by this node, into every end alias. Duplicate ends are removed and
// the remainder sorted.
func (n *Node) SetSecondaryChannel(link string, ends []string) {
	if len(ends) == 0 {
		return
	}
	source := channel.Source(link, n.PID)
	n.Forks = append(n.Forks, forkStatement(source, uniqueSorted(ends)))
}

// SetChannels binds the node's pid and derives its status channel names.
// It must run once, after the main channel names are final.
func (n *Node) SetChannels(pid int) {
	n.PID = pid
	n.StatusStrings = make([]string, 0, len(n.StatusChannels))
	for _, name := range n.StatusChannels {
		n.StatusStrings = append(n.StatusStrings, channel.Status(name, pid))
	}
	n.channelsSet = true
}

// SetStatusChannels gives a status node the full, ordered list of status
// channels to combine.
func (n *Node) SetStatusChannels(names []string) {
	n.statusChannels = mixStatement(names)
}

// SetRawInputs gives the root node the raw input channels to declare and
// fan out. Entries are rendered in the given order.
func (n *Node) SetRawInputs(inputs []RawInput) {
	defs := make([]string, 0, len(inputs))
	forks := make([]string, 0, len(inputs))
	for _, in := range inputs {
		name := channel.RawInput(in.Type)
		defs = append(defs, fmt.Sprintf("%s = %s", name, in.Channel))
		forks = append(forks, forkStatement(name, in.Forks))
	}
	n.mainInputs = joinLines(defs)
	n.Forks = forks
}

// SetSecondaryInputs gives the root node the parameter channels to declare.
func (n *Node) SetSecondaryInputs(inputs []SecondaryInput) {
	defs := make([]string, 0, len(inputs))
	for _, in := range inputs {
		defs = append(defs, in.Channel)
	}
	n.secondaryInputs = joinLines(defs)
}

// StatusMix returns the combination expression set by SetStatusChannels.
func (n *Node) StatusMix() string {
	return n.statusChannels
}

// MainInputs returns the raw input declarations set by SetRawInputs.
func (n *Node) MainInputs() string {
	return n.mainInputs
}

// SecondaryInputDefs returns the declarations set by SetSecondaryInputs.
func (n *Node) SecondaryInputDefs() string {
	return n.secondaryInputs
}

// String implements fmt.Stringer for log output.
func (n *Node) String() string {
	return fmt.Sprintf("%s[pid=%d lane=%d]", n.Template, n.PID, n.Lane)
}

package channel

// Direction tells whether a main channel feeds a node or leaves it.
type Direction string

const (
	In  Direction = "in"
	Out Direction = "out"
)

// Name is the structured form of a main channel identifier.
type Name struct {
	Template  string
	Direction Direction
	Lane      int
	Position  int
}

// NewInput returns the structured name of a node's main input channel.
func NewInput(template string, lane, position int) Name {
	return Name{Template: template, Direction: In, Lane: lane, Position: position}
}

// NewOutput returns the structured name of a node's main output channel.
func NewOutput(template string, lane, position int) Name {
	return Name{Template: template, Direction: Out, Lane: lane, Position: position}
}

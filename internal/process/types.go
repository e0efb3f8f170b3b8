package process

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// RootTemplate is the sentinel template name of the synthetic root node.
const RootTemplate = "__init__"

// StatusPType is the category of nodes that aggregate status channels.
const StatusPType = "status"

// LinkEnd declares that a node consumes a secondary channel.
type LinkEnd struct {
	// Link is the secondary channel name. A leading "__" turns the link into
	// an implicit one that binds to the nearest upstream main output of the
	// type that follows the underscores.
	Link string
	// Alias is the channel name the node's fragment reads from.
	Alias string
}

// IsImplicit reports whether the link binds to a main output type instead of
// a named secondary channel.
func (l LinkEnd) IsImplicit() bool {
	return strings.HasPrefix(l.Link, "__")
}

// SecondaryInput is a channel built from a user parameter, declared once in
// the pipeline header and shared by every node that needs it.
type SecondaryInput struct {
	Param   string
	Channel string
}

// Param is a user-facing pipeline parameter contributed by a node.
type Param struct {
	Name        string
	Default     cty.Value
	Description string
}

// Directive holds resource and container settings for one Nextflow process
// emitted by a node.
type Directive struct {
	Process   string
	CPUs      int
	Memory    string
	Container string
	Version   string
}

// RawInput is a shared channel created from external user data of one type.
type RawInput struct {
	// Type is the input type, e.g. "fastq".
	Type string
	// Channel is the Nextflow expression that builds the channel.
	Channel string
	// Forks lists the input channels of every origin node of this type, in
	// creation order.
	Forks []string
}

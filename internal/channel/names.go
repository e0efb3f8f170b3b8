package channel

import (
	"fmt"
	"strings"
)

// ForkPrefix marks the renamed output of a node that broadcasts into more
// than one channel.
const ForkPrefix = "_"

// String serializes the Name into its canonical channel identifier.
func (n Name) String() string {
	return fmt.Sprintf("%s_%s_%d_%d", n.Template, n.Direction, n.Lane, n.Position)
}

// Alias names the consumer side of a secondary channel.
func Alias(alias string, pid int) string {
	return fmt.Sprintf("%s_%d", alias, pid)
}

// Source names the producer side of a secondary channel.
func Source(link string, pid int) string {
	return fmt.Sprintf("%s_%d", link, pid)
}

// Status names a status channel contributed by the node with the given pid.
func Status(name string, pid int) string {
	return fmt.Sprintf("STATUS_%s_%d", name, pid)
}

// RawInput names the shared channel created from user data of a given type.
func RawInput(inputType string) string {
	return fmt.Sprintf("IN_%s_raw", inputType)
}

// Forked returns the identifier a node renders as its output once it starts
// broadcasting. It is idempotent.
func Forked(output string) string {
	if strings.HasPrefix(output, ForkPrefix) {
		return output
	}
	return ForkPrefix + output
}

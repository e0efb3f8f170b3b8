package process

import (
	"fmt"
	"sort"
	"strings"
)

// forkStatement renders a Nextflow channel broadcast. A single target uses
// the `set` operator, several use `into`.
func forkStatement(source string, targets []string) string {
	op := "set"
	if len(targets) > 1 {
		op = "into"
	}
	return fmt.Sprintf("\n%s.%s{ %s }\n", source, op, strings.Join(targets, ";"))
}

// mixStatement renders `first.mix(rest...)`, or the single name.
func mixStatement(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return fmt.Sprintf("%s.mix(%s)", names[0], strings.Join(names[1:], ","))
	}
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

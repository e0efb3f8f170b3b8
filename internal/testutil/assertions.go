package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertPassLogged checks that a compiler pass logged at least one decision
// about the given node, e.g. AssertPassLogged(t, res, "build", "spades[pid=2 lane=1]").
func AssertPassLogged(t *testing.T, result *HarnessResult, pass, node string) {
	t.Helper()

	passAttr := fmt.Sprintf("pass=%s", pass)
	nodeAttr := fmt.Sprintf("node=%q", node)
	for _, line := range strings.Split(result.LogOutput, "\n") {
		if strings.Contains(line, passAttr) && strings.Contains(line, nodeAttr) {
			return
		}
	}
	require.Failf(t, "pass not logged", "expected a %q log line for node %q", pass, node)
}

package export

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/nfcompose/internal/forktree"
	"github.com/specialistvlad/nfcompose/internal/process"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lane(l int) *int { return &l }

// forkedPipeline mirrors integrity_coverage(1) forking into spades(2) and
// skesa(3), with pilon following spades on lane 2.
func forkedPipeline(t *testing.T) ([]*process.Node, *forktree.Tree) {
	t.Helper()
	nodes := []*process.Node{
		process.NewRoot(),
		{Template: "integrity_coverage", PID: 1, Lane: 1, StatusStrings: []string{"STATUS_integrity_coverage_1"}},
		{Template: "spades", PID: 2, Lane: 2, ParentLane: lane(1)},
		{Template: "skesa", PID: 3, Lane: 3, ParentLane: lane(1)},
		{Template: "pilon", PID: 4, Lane: 2, ParentLane: lane(2)},
	}
	tree := forktree.New()
	require.NoError(t, tree.AddFork(1, 2))
	require.NoError(t, tree.AddFork(1, 3))
	return nodes, tree
}

func childNames(n *DagNode) []string {
	var out []string
	for _, c := range n.Children {
		out = append(out, c.Name)
	}
	return out
}

func TestBuildDag(t *testing.T) {
	nodes, _ := forkedPipeline(t)

	dag, err := BuildDag(nodes)
	require.NoError(t, err)

	assert.Equal(t, "root", dag.Name)
	require.Equal(t, []string{"integrity_coverage_1"}, childNames(dag))
	ic := dag.Children[0]
	assert.Equal(t, []string{"spades_2", "skesa_3"}, childNames(ic))
	assert.Equal(t, []string{"pilon_4"}, childNames(ic.Children[0]))
	assert.Equal(t, []string{"STATUS_integrity_coverage_1"}, ic.Process.Status)

	t.Run("requires a root", func(t *testing.T) {
		_, err := BuildDag(nodes[1:])
		require.Error(t, err)
	})
}

func TestForkMap(t *testing.T) {
	_, tree := forkedPipeline(t)

	want := map[string][]int{"1": {2, 3}}
	if diff := cmp.Diff(want, ForkMap(tree)); diff != "" {
		t.Errorf("fork map mismatch (-want +got):\n%s", diff)
	}
}

func TestLanes(t *testing.T) {
	nodes, _ := forkedPipeline(t)
	assert.Equal(t, []int{1, 2, 3}, Lanes(nodes))
}

func TestWriteAndReadDag(t *testing.T) {
	nodes, tree := forkedPipeline(t)
	fsys := afero.NewMemMapFs()

	require.NoError(t, Write(context.Background(), fsys, "/out/pipeline.nf", nodes, tree))

	forkData, err := afero.ReadFile(fsys, "/out/.forkTree.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"1": [2, 3]}`, string(forkData))

	dag, err := ReadDag(fsys, "/out/.treeDag.json")
	require.NoError(t, err)
	want, err := BuildDag(nodes)
	require.NoError(t, err)
	if diff := cmp.Diff(want, dag); diff != "" {
		t.Errorf("dag mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestTree(t *testing.T) {
	nodes, _ := forkedPipeline(t)
	dag, err := BuildDag(nodes)
	require.NoError(t, err)

	out := Tree(dag)

	assert.Contains(t, out, "root")
	assert.Contains(t, out, "[lane 1]  integrity_coverage_1 [STATUS_integrity_coverage_1]")
	assert.Contains(t, out, "[lane 2]  pilon_4")
	assert.Less(t, strings.Index(out, "spades_2"), strings.Index(out, "pilon_4"))
	assert.Less(t, strings.Index(out, "pilon_4"), strings.Index(out, "skesa_3"))
}

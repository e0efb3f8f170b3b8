package export

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

// Tree renders the DAG as an indented tree, one branch per node with its
// lane and main channels.
func Tree(dag *DagNode) string {
	tree := treeprint.NewWithRoot(dag.Name)
	for _, child := range dag.Children {
		addBranch(tree, child)
	}
	return tree.String()
}

func addBranch(parent treeprint.Tree, n *DagNode) {
	meta := fmt.Sprintf("lane %d", n.Process.Lane)
	label := n.Name
	if len(n.Process.Status) > 0 {
		label = fmt.Sprintf("%s [%s]", n.Name, strings.Join(n.Process.Status, ", "))
	}

	if len(n.Children) == 0 {
		parent.AddMetaNode(meta, label)
		return
	}
	branch := parent.AddMetaBranch(meta, label)
	for _, child := range n.Children {
		addBranch(branch, child)
	}
}

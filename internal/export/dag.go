package export

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/specialistvlad/nfcompose/internal/forktree"
	"github.com/specialistvlad/nfcompose/internal/process"
)

// DagNode is one process in the exported tree.
type DagNode struct {
	Name     string     `json:"name"`
	Process  DagProcess `json:"process"`
	Children []*DagNode `json:"children"`
}

// DagProcess carries the compiled attributes of a node.
type DagProcess struct {
	PID           int      `json:"pid"`
	Template      string   `json:"template"`
	Lane          int      `json:"lane"`
	InputChannel  string   `json:"input"`
	OutputChannel string   `json:"output"`
	InputType     string   `json:"inputType,omitempty"`
	OutputType    string   `json:"outputType,omitempty"`
	Status        []string `json:"status,omitempty"`
}

// BuildDag arranges nodes into a tree rooted at the first node. A node hangs
// under the most recent earlier node on its parent lane; origins hang under
// the root.
func BuildDag(nodes []*process.Node) (*DagNode, error) {
	if len(nodes) == 0 || !nodes[0].IsRoot() {
		return nil, fmt.Errorf("node list must start with the root node")
	}

	dag := make([]*DagNode, len(nodes))
	for i, n := range nodes {
		dag[i] = &DagNode{
			Name: nodeName(n),
			Process: DagProcess{
				PID:           n.PID,
				Template:      n.Template,
				Lane:          n.Lane,
				InputChannel:  n.InputChannel,
				OutputChannel: n.OutputChannel,
				InputType:     n.InputType,
				OutputType:    n.OutputType,
				Status:        n.StatusStrings,
			},
			Children: []*DagNode{},
		}
	}

	for i := 1; i < len(nodes); i++ {
		parent := 0
		if lane := nodes[i].ParentLane; lane != nil {
			for j := i - 1; j > 0; j-- {
				if nodes[j].Lane == *lane {
					parent = j
					break
				}
			}
		}
		dag[parent].Children = append(dag[parent].Children, dag[i])
	}
	return dag[0], nil
}

// ForkMap returns the fork tree keyed by the parent lane as a string, the
// shape JSON objects require.
func ForkMap(tree *forktree.Tree) map[string][]int {
	out := make(map[string][]int, tree.Len())
	for parent, children := range tree.Map() {
		out[strconv.Itoa(parent)] = children
	}
	return out
}

// Lanes returns every lane that appears in nodes, sorted.
func Lanes(nodes []*process.Node) []int {
	seen := make(map[int]struct{})
	var lanes []int
	for _, n := range nodes[1:] {
		if _, ok := seen[n.Lane]; ok {
			continue
		}
		seen[n.Lane] = struct{}{}
		lanes = append(lanes, n.Lane)
	}
	sort.Ints(lanes)
	return lanes
}

func nodeName(n *process.Node) string {
	if n.IsRoot() {
		return "root"
	}
	return fmt.Sprintf("%s_%d", n.Template, n.PID)
}

package forktree

import "fmt"

// Tree maps a parent lane to the ordered list of lanes forked from it. It
// is built and read by a single compilation and is not safe for concurrent
// use.
type Tree struct {
	parents  []int
	children map[int][]int
}

// New creates and returns an initialized, empty Tree.
func New() *Tree {
	return &Tree{
		children: make(map[int][]int),
	}
}

// AddFork records that `child` forks off `parent`. Adding the same pair
// twice appends the child twice, mirroring the connection list.
func (t *Tree) AddFork(parent, child int) error {
	if parent == child {
		return fmt.Errorf("self-referential fork not allowed: lane %d -> %d", parent, child)
	}

	if _, ok := t.children[parent]; !ok {
		t.parents = append(t.parents, parent)
	}
	t.children[parent] = append(t.children[parent], child)
	return nil
}

// Len returns the number of parent lanes in the tree.
func (t *Tree) Len() int {
	return len(t.parents)
}

// Parents returns the parent lanes in first-insertion order.
func (t *Tree) Parents() []int {
	out := make([]int, len(t.parents))
	copy(out, t.parents)
	return out
}

// Children returns a copy of the lanes forked from `parent`.
func (t *Tree) Children(parent int) []int {
	kids := t.children[parent]
	out := make([]int, len(kids))
	copy(out, kids)
	return out
}

// Map returns a copy of the whole tree.
func (t *Tree) Map() map[int][]int {
	out := make(map[int][]int, len(t.children))
	for parent, kids := range t.children {
		cp := make([]int, len(kids))
		copy(cp, kids)
		out[parent] = cp
	}
	return out
}

// Ancestors returns the chain of lanes that `lane` descends from, starting
// with `lane` itself and ending with the root-most lane. When a lane is listed
// under more than one parent, the first parent in insertion order is taken.
func (t *Tree) Ancestors(lane int) []int {
	chain := []int{lane}
	visited := map[int]bool{lane: true}

	current := lane
	for {
		parent, ok := t.parentOf(current)
		if !ok || visited[parent] {
			return chain
		}
		visited[parent] = true
		chain = append(chain, parent)
		current = parent
	}
}

// parentOf returns the lane that lane forks off, if any.
func (t *Tree) parentOf(lane int) (int, bool) {
	for _, parent := range t.parents {
		for _, child := range t.children[parent] {
			if child == lane {
				return parent, true
			}
		}
	}
	return 0, false
}

// DetectCycles checks the tree for a lane that is, directly or indirectly,
// its own ancestor. It returns a non-nil error naming the first lane found in
// such a cycle.
func (t *Tree) DetectCycles() error {
	// Classic depth-first search with permanent and temporary marks.
	permanent := make(map[int]bool)
	temporary := make(map[int]bool)

	var visit func(lane int) error
	visit = func(lane int) error {
		if permanent[lane] {
			return nil
		}
		if temporary[lane] {
			return fmt.Errorf("cycle detected involving lane %d", lane)
		}

		temporary[lane] = true
		for _, child := range t.children[lane] {
			if err := visit(child); err != nil {
				return err
			}
		}
		delete(temporary, lane)
		permanent[lane] = true

		return nil
	}

	for _, parent := range t.parents {
		if err := visit(parent); err != nil {
			return err
		}
	}
	return nil
}

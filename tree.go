package i3ipc

import "iter"

// Walk yields n and its descendants depth-first, tiling children before
// floating ones.
func (n *Node) Walk() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, child := range n.Nodes {
		if !child.walk(yield) {
			return false
		}
	}
	for _, child := range n.FloatingNodes {
		if !child.walk(yield) {
			return false
		}
	}
	return true
}

// FindByID returns the descendant (or n itself) with the given id.
func (n *Node) FindByID(id int64) *Node {
	for node := range n.Walk() {
		if node.ID == id {
			return node
		}
	}
	return nil
}

// FindFocused follows the first entry of Focus from n down to the focused
// container. It returns nil if the chain ends before reaching one.
func (n *Node) FindFocused() *Node {
	current := n
	for current != nil {
		if current.Focused {
			return current
		}
		if len(current.Focus) == 0 {
			return nil
		}
		current = current.child(current.Focus[0])
	}
	return nil
}

// child returns the direct child with the given id.
func (n *Node) child(id int64) *Node {
	for _, c := range n.Nodes {
		if c.ID == id {
			return c
		}
	}
	for _, c := range n.FloatingNodes {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Workspaces returns the workspace containers below n, skipping the internal
// scratchpad workspace.
func (n *Node) Workspaces() []*Node {
	var out []*Node
	for node := range n.Walk() {
		if node.Type == NodeWorkspace && node.Name != "__i3_scratch" {
			out = append(out, node)
		}
	}
	return out
}

// Leaves returns the containers below n that hold a window.
func (n *Node) Leaves() []*Node {
	var out []*Node
	for node := range n.Walk() {
		if node.Window != nil {
			out = append(out, node)
		}
	}
	return out
}

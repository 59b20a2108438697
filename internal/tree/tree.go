package tree

import (
	"errors"
	"fmt"
)

// ErrUnknownNode signals that an event referenced an id the mirror does not
// know. The caller is expected to discard the mirror and fetch a fresh
// snapshot rather than attempt a partial repair.
var ErrUnknownNode = errors.New("unknown node")

// Mutation summarizes one applied event.
type Mutation struct {
	Change string
	ID     int64
	// Resync is set when the event cannot be patched in place (the event
	// payload does not carry enough placement information) and the mirror
	// must be rebuilt from a snapshot.
	Resync bool
}

// Tree is the enriched mirror of the compositor tree: the root node plus
// id indexes kept consistent with the tree shape.
type Tree struct {
	Root *Node

	nodes   map[int64]*Node
	parents map[int64]*Node
	focused int64
}

// New builds a tree mirror around a snapshot root and indexes it.
func New(root *Node) *Tree {
	t := &Tree{Root: root}
	t.reindex()
	return t
}

func (t *Tree) reindex() {
	t.nodes = make(map[int64]*Node)
	t.parents = make(map[int64]*Node)
	t.focused = 0
	if t.Root == nil {
		return
	}
	var index func(parent, n *Node)
	index = func(parent, n *Node) {
		t.nodes[n.ID] = n
		if parent != nil {
			t.parents[n.ID] = parent
		}
		if n.Focused {
			t.focused = n.ID
		}
		for _, child := range n.Nodes {
			index(n, child)
		}
		for _, child := range n.FloatingNodes {
			index(n, child)
		}
	}
	index(nil, t.Root)
}

// Get returns the node with the given id.
func (t *Tree) Get(id int64) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Parent returns the parent of the node with the given id.
func (t *Tree) Parent(id int64) (*Node, bool) {
	p, ok := t.parents[id]
	return p, ok
}

// Len returns the number of indexed nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// FocusedID returns the id of the currently focused node, or 0.
func (t *Tree) FocusedID() int64 {
	return t.focused
}

// FocusedWindow returns the focused node if it is a window.
func (t *Tree) FocusedWindow() (*Node, bool) {
	n, ok := t.nodes[t.focused]
	if !ok || !n.IsWindow() {
		return nil, false
	}
	return n, true
}

// WorkspaceOf walks up the parent chain to the workspace containing id.
func (t *Tree) WorkspaceOf(id int64) (*Node, bool) {
	n, ok := t.nodes[id]
	for ok {
		if n.Type == TypeWorkspace {
			return n, true
		}
		n, ok = t.parents[n.ID]
	}
	return nil, false
}

// OutputOf walks up the parent chain to the output containing id.
func (t *Tree) OutputOf(id int64) (*Node, bool) {
	n, ok := t.nodes[id]
	for ok {
		if n.Type == TypeOutput {
			return n, true
		}
		n, ok = t.parents[n.ID]
	}
	return nil, false
}

// Outputs returns the non-scratch outputs in stored order.
func (t *Tree) Outputs() []*Node {
	if t.Root == nil {
		return nil
	}
	var outputs []*Node
	for _, n := range t.Root.Nodes {
		if n.Type == TypeOutput && !n.IsScratchpad() {
			outputs = append(outputs, n)
		}
	}
	return outputs
}

// Workspaces returns the non-scratch workspaces of all outputs.
func (t *Tree) Workspaces() []*Node {
	var workspaces []*Node
	for _, o := range t.Outputs() {
		for _, ws := range o.Nodes {
			if ws.Type == TypeWorkspace && !ws.IsScratchpad() {
				workspaces = append(workspaces, ws)
			}
		}
	}
	return workspaces
}

// IsScratchWindow reports whether the window with the given id currently
// lives on the scratch workspace.
func (t *Tree) IsScratchWindow(id int64) bool {
	ws, ok := t.WorkspaceOf(id)
	return ok && ws.IsScratchpad()
}

// ApplyWindow patches the mirror for one window event. The container is the
// event's snapshot of the affected view. Events whose payload cannot place
// the node (moves, floating toggles) report Resync instead of guessing.
func (t *Tree) ApplyWindow(change string, con *Node) (Mutation, error) {
	if con == nil {
		return Mutation{}, fmt.Errorf("window event %q without container", change)
	}
	mut := Mutation{Change: change, ID: con.ID}
	switch change {
	case "new":
		if _, ok := t.nodes[con.ID]; ok {
			return mut, fmt.Errorf("window %d: %w", con.ID, ErrUnknownNode)
		}
		parent := t.insertionParent()
		if parent == nil {
			mut.Resync = true
			return mut, nil
		}
		if con.Type == TypeFloatingCon {
			parent.FloatingNodes = append(parent.FloatingNodes, con)
		} else {
			parent.Nodes = append(parent.Nodes, con)
		}
		t.indexSubtree(parent, con)
	case "close":
		node, ok := t.nodes[con.ID]
		if !ok {
			return mut, fmt.Errorf("window %d: %w", con.ID, ErrUnknownNode)
		}
		t.detach(node)
	case "focus":
		node, ok := t.nodes[con.ID]
		if !ok {
			return mut, fmt.Errorf("window %d: %w", con.ID, ErrUnknownNode)
		}
		if prev, ok := t.nodes[t.focused]; ok {
			prev.Focused = false
		}
		node.Focused = true
		t.focused = node.ID
		copyAttrs(node, con)
	case "title", "mark", "urgent", "fullscreen_mode":
		node, ok := t.nodes[con.ID]
		if !ok {
			return mut, fmt.Errorf("window %d: %w", con.ID, ErrUnknownNode)
		}
		copyAttrs(node, con)
	case "move", "floating":
		if _, ok := t.nodes[con.ID]; !ok {
			return mut, fmt.Errorf("window %d: %w", con.ID, ErrUnknownNode)
		}
		// The event does not identify the new parent.
		mut.Resync = true
	default:
		// Unknown change kinds are ignored rather than treated as errors;
		// newer compositors add kinds an older daemon has no use for.
	}
	return mut, nil
}

// ApplyWorkspace patches the mirror for one workspace event. Workspace
// init/empty/move events restructure output subtrees in ways the payload
// does not fully describe, so they all request a resync; focus events only
// need the focused-id bookkeeping already done by window focus events.
func (t *Tree) ApplyWorkspace(change string, current *Node) (Mutation, error) {
	mut := Mutation{Change: "workspace:" + change}
	if current != nil {
		mut.ID = current.ID
	}
	switch change {
	case "focus", "urgent":
		if current == nil {
			return mut, nil
		}
		node, ok := t.nodes[current.ID]
		if !ok {
			return mut, fmt.Errorf("workspace %d: %w", current.ID, ErrUnknownNode)
		}
		node.Urgent = current.Urgent
	default:
		mut.Resync = true
	}
	return mut, nil
}

// insertionParent picks the container a freshly created view lands in: the
// parent of the focused view, or the focused container itself.
func (t *Tree) insertionParent() *Node {
	node, ok := t.nodes[t.focused]
	if !ok {
		return nil
	}
	if node.IsWindow() {
		if parent, ok := t.parents[node.ID]; ok {
			return parent
		}
		return nil
	}
	if node.IsContainer() {
		return node
	}
	return nil
}

func (t *Tree) indexSubtree(parent, n *Node) {
	t.nodes[n.ID] = n
	t.parents[n.ID] = parent
	for _, child := range n.Nodes {
		t.indexSubtree(n, child)
	}
	for _, child := range n.FloatingNodes {
		t.indexSubtree(n, child)
	}
}

func (t *Tree) detach(node *Node) {
	parent, ok := t.parents[node.ID]
	if ok {
		parent.Nodes = removeChild(parent.Nodes, node.ID)
		parent.FloatingNodes = removeChild(parent.FloatingNodes, node.ID)
	}
	node.Walk(func(n *Node) {
		delete(t.nodes, n.ID)
		delete(t.parents, n.ID)
		if t.focused == n.ID {
			t.focused = 0
		}
	})
}

func removeChild(children []*Node, id int64) []*Node {
	for i, child := range children {
		if child.ID == id {
			return append(children[:i], children[i+1:]...)
		}
	}
	return children
}

// copyAttrs refreshes a mirrored node's scalar attributes from an event
// snapshot without touching its children or identity.
func copyAttrs(dst, src *Node) {
	dst.Name = src.Name
	dst.Urgent = src.Urgent
	dst.Marks = src.Marks
	dst.Rect = src.Rect
	dst.WindowRect = src.WindowRect
	dst.AppID = src.AppID
	dst.PID = src.PID
	dst.Window = src.Window
	dst.WindowProperties = src.WindowProperties
	dst.FullscreenMode = src.FullscreenMode
	dst.Sticky = src.Sticky
}

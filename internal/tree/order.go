package tree

import (
	"errors"
	"sort"
)

// ErrNoTarget signals that a selection found no eligible window. Callers
// treat it as a no-op rather than a failure.
var ErrNoTarget = errors.New("no eligible target")

// Scope restricts a traversal to all workspaces or the focused one.
type Scope int

const (
	ScopeAllWorkspaces Scope = iota
	ScopeCurrentWorkspace
)

// Direction of a cycle step.
type Direction int

const (
	Next Direction = iota
	Prev
)

// Filter restricts cycling to windows of one tiling kind. FilterSimilar
// resolves to the kind of the window the cycle starts from.
type Filter int

const (
	FilterAny Filter = iota
	FilterTiled
	FilterTabbedOrStacked
	FilterFloating
	FilterSimilar
)

// DepthFirst returns the windows of the tree in preorder, children in
// stored order, tiled before floating. Scratch workspace windows are
// excluded; they are hidden and never valid switch targets.
func (t *Tree) DepthFirst(scope Scope) []*Node {
	if t.Root == nil {
		return nil
	}
	var roots []*Node
	switch scope {
	case ScopeCurrentWorkspace:
		ws, ok := t.WorkspaceOf(t.focused)
		if !ok || ws.IsScratchpad() {
			return nil
		}
		roots = []*Node{ws}
	default:
		for _, ws := range t.Workspaces() {
			roots = append(roots, ws)
		}
	}
	var windows []*Node
	for _, root := range roots {
		windows = append(windows, root.Windows()...)
	}
	return windows
}

// LRUOrder returns all live windows most-recently-focused first: the
// focused window leads, the rest follow by logical clock descending with
// the id as a deterministic tie-break.
func (t *Tree) LRUOrder(ticks map[int64]uint64) []*Node {
	windows := t.DepthFirst(ScopeAllWorkspaces)
	focused := t.focused
	sort.SliceStable(windows, func(i, j int) bool {
		a, b := windows[i], windows[j]
		if (a.ID == focused) != (b.ID == focused) {
			return a.ID == focused
		}
		ta, tb := ticks[a.ID], ticks[b.ID]
		if ta != tb {
			return ta > tb
		}
		return a.ID < b.ID
	})
	return windows
}

// SwitcherOrder returns the windows as presented by the switcher menu:
// urgent windows first (by clock descending), then the rest by LRU, with
// the focused window forced to the end so it is never the first entry.
func (t *Tree) SwitcherOrder(ticks map[int64]uint64) []*Node {
	focused := t.focused
	var urgent, rest []*Node
	for _, w := range t.LRUOrder(ticks) {
		switch {
		case w.ID == focused:
			// appended last
		case w.Urgent:
			urgent = append(urgent, w)
		default:
			rest = append(rest, w)
		}
	}
	ordered := append(urgent, rest...)
	if f, ok := t.Get(focused); ok && f.IsWindow() {
		ordered = append(ordered, f)
	}
	return ordered
}

// matchesFilter reports whether the window satisfies the filter. The
// similar filter must be resolved by the caller first.
func (t *Tree) matchesFilter(w *Node, filter Filter) bool {
	switch filter {
	case FilterTiled:
		return !w.IsFloating() && !t.underTabbedOrStacked(w)
	case FilterTabbedOrStacked:
		return !w.IsFloating() && t.underTabbedOrStacked(w)
	case FilterFloating:
		return w.IsFloating()
	default:
		return true
	}
}

func (t *Tree) underTabbedOrStacked(w *Node) bool {
	parent, ok := t.parents[w.ID]
	if !ok {
		return false
	}
	return parent.Layout == LayoutTabbed || parent.Layout == LayoutStacked
}

// resolveSimilar maps FilterSimilar to the concrete kind of the current
// window, falling back to no filter when the kind matches none.
func (t *Tree) resolveSimilar(currentID int64, filter Filter) Filter {
	if filter != FilterSimilar {
		return filter
	}
	current, ok := t.Get(currentID)
	if !ok || !current.IsWindow() {
		return FilterAny
	}
	switch {
	case current.IsFloating():
		return FilterFloating
	case t.underTabbedOrStacked(current):
		return FilterTabbedOrStacked
	default:
		return FilterTiled
	}
}

// Cycle returns the next or previous window relative to currentID in the
// filtered depth-first sequence, with wraparound. When the current window
// does not satisfy the filter, next starts at the first entry and prev at
// the last.
func (t *Tree) Cycle(currentID int64, dir Direction, scope Scope, filter Filter) (*Node, error) {
	filter = t.resolveSimilar(currentID, filter)
	return t.CyclePred(currentID, dir, scope, func(w *Node) bool {
		return t.matchesFilter(w, filter)
	})
}

// CyclePred cycles within the depth-first windows satisfying pred.
func (t *Tree) CyclePred(currentID int64, dir Direction, scope Scope, pred func(*Node) bool) (*Node, error) {
	var filtered []*Node
	for _, w := range t.DepthFirst(scope) {
		if pred(w) {
			filtered = append(filtered, w)
		}
	}
	if len(filtered) == 0 {
		return nil, ErrNoTarget
	}
	idx := -1
	for i, w := range filtered {
		if w.ID == currentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		if dir == Prev {
			return filtered[len(filtered)-1], nil
		}
		return filtered[0], nil
	}
	if dir == Prev {
		return filtered[(idx-1+len(filtered))%len(filtered)], nil
	}
	return filtered[(idx+1)%len(filtered)], nil
}

// SwitchToUrgentOrLRU picks the switch target when no explicit window is
// named: the most urgent window if one exists besides the focused one,
// else the most recently used window that is not focused.
func (t *Tree) SwitchToUrgentOrLRU(ticks map[int64]uint64) (*Node, error) {
	lru := t.LRUOrder(ticks)
	for _, w := range lru {
		if w.Urgent && w.ID != t.focused {
			return w, nil
		}
	}
	for _, w := range lru {
		if w.ID != t.focused {
			return w, nil
		}
	}
	return nil, ErrNoTarget
}

// SwitchToMatchOrFallback picks the highest-clock window other than the
// focused one satisfying pred, falling back to SwitchToUrgentOrLRU when
// none matches.
func (t *Tree) SwitchToMatchOrFallback(ticks map[int64]uint64, pred func(*Node) bool) (*Node, error) {
	for _, w := range t.LRUOrder(ticks) {
		if w.ID != t.focused && pred(w) {
			return w, nil
		}
	}
	return t.SwitchToUrgentOrLRU(ticks)
}

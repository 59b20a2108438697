package tree

import "testing"

func ids(windows []*Node) []int64 {
	out := make([]int64, len(windows))
	for i, w := range windows {
		out[i] = w.ID
	}
	return out
}

func equalIDs(a []int64, b ...int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDepthFirstExcludesScratch(t *testing.T) {
	tr := fixture()
	got := ids(tr.DepthFirst(ScopeAllWorkspaces))
	if !equalIDs(got, 11, 12, 13, 14, 21) {
		t.Fatalf("depth-first order = %v", got)
	}
}

func TestDepthFirstCurrentWorkspaceScope(t *testing.T) {
	tr := fixture()
	got := ids(tr.DepthFirst(ScopeCurrentWorkspace))
	if !equalIDs(got, 11, 12, 13, 14) {
		t.Fatalf("current-workspace order = %v", got)
	}
}

func TestLRUOrderIsReverseFocusSequence(t *testing.T) {
	tr := fixture()
	ticks := map[int64]uint64{}
	clock := uint64(0)
	for _, id := range []int64{21, 12, 13} {
		clock++
		ticks[id] = clock
	}
	// 11 is focused and always leads regardless of its tick.
	got := ids(tr.LRUOrder(ticks))
	if !equalIDs(got, 11, 13, 12, 21, 14) {
		t.Fatalf("lru order = %v", got)
	}
}

func TestSwitcherOrderUrgentFirstFocusedLast(t *testing.T) {
	tr := fixture()
	mail, _ := tr.Get(21)
	mail.Urgent = true
	ticks := map[int64]uint64{12: 1, 13: 2}
	got := ids(tr.SwitcherOrder(ticks))
	if len(got) == 0 || got[0] != 21 {
		t.Fatalf("switcher order = %v, want urgent 21 first", got)
	}
	if got[len(got)-1] != 11 {
		t.Fatalf("switcher order = %v, want focused 11 last", got)
	}
}

func TestCycleNextIsBijective(t *testing.T) {
	tr := fixture()
	windows := tr.DepthFirst(ScopeAllWorkspaces)
	current := tr.FocusedID()
	for range windows {
		next, err := tr.Cycle(current, Next, ScopeAllWorkspaces, FilterAny)
		if err != nil {
			t.Fatalf("cycle next from %d: %v", current, err)
		}
		current = next.ID
	}
	if current != tr.FocusedID() {
		t.Fatalf("after %d steps ended on %d, want start %d", len(windows), current, tr.FocusedID())
	}
}

func TestCyclePrevUndoesNext(t *testing.T) {
	tr := fixture()
	for _, start := range ids(tr.DepthFirst(ScopeAllWorkspaces)) {
		next, err := tr.Cycle(start, Next, ScopeAllWorkspaces, FilterAny)
		if err != nil {
			t.Fatalf("cycle next from %d: %v", start, err)
		}
		back, err := tr.Cycle(next.ID, Prev, ScopeAllWorkspaces, FilterAny)
		if err != nil {
			t.Fatalf("cycle prev from %d: %v", next.ID, err)
		}
		if back.ID != start {
			t.Fatalf("prev(next(%d)) = %d", start, back.ID)
		}
	}
}

func TestCycleUnmatchedCurrentStartsAtSequenceEdge(t *testing.T) {
	tr := fixture()
	// 14 is floating, so it is not part of the tiled sequence.
	next, err := tr.Cycle(14, Next, ScopeAllWorkspaces, FilterTiled)
	if err != nil {
		t.Fatalf("cycle next: %v", err)
	}
	if next.ID != 11 {
		t.Fatalf("next from unmatched = %d, want first tiled 11", next.ID)
	}
	prev, err := tr.Cycle(14, Prev, ScopeAllWorkspaces, FilterTiled)
	if err != nil {
		t.Fatalf("cycle prev: %v", err)
	}
	if prev.ID != 21 {
		t.Fatalf("prev from unmatched = %d, want last tiled 21", prev.ID)
	}
}

func TestCycleFilters(t *testing.T) {
	tr := fixture()
	next, err := tr.Cycle(12, Next, ScopeAllWorkspaces, FilterTabbedOrStacked)
	if err != nil {
		t.Fatalf("cycle tabbed: %v", err)
	}
	if next.ID != 13 {
		t.Fatalf("tabbed next = %d, want 13", next.ID)
	}
	solo, err := tr.Cycle(14, Next, ScopeAllWorkspaces, FilterFloating)
	if err != nil {
		t.Fatalf("cycle floating: %v", err)
	}
	if solo.ID != 14 {
		t.Fatalf("single floating window should wrap to itself, got %d", solo.ID)
	}
}

func TestCycleSimilarResolvesCurrentKind(t *testing.T) {
	tr := fixture()
	next, err := tr.Cycle(12, Next, ScopeAllWorkspaces, FilterSimilar)
	if err != nil {
		t.Fatalf("cycle similar: %v", err)
	}
	if next.ID != 13 {
		t.Fatalf("similar next from tabbed 12 = %d, want 13", next.ID)
	}
}

func TestCycleNoEligibleWindows(t *testing.T) {
	tr := New(rootNode(output(4, "eDP-1", workspace(2, "1", 1))))
	if _, err := tr.Cycle(0, Next, ScopeAllWorkspaces, FilterAny); err != ErrNoTarget {
		t.Fatalf("err = %v, want ErrNoTarget", err)
	}
}

func TestSwitchToUrgentOrLRU(t *testing.T) {
	tr := fixture()
	ticks := map[int64]uint64{21: 1, 12: 2, 11: 3}
	got, err := tr.SwitchToUrgentOrLRU(ticks)
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if got.ID != 12 {
		t.Fatalf("lru target = %d, want 12", got.ID)
	}
	mail, _ := tr.Get(21)
	mail.Urgent = true
	got, err = tr.SwitchToUrgentOrLRU(ticks)
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if got.ID != 21 {
		t.Fatalf("urgent target = %d, want 21", got.ID)
	}
}

func TestSwitchToMatchOrFallback(t *testing.T) {
	tr := fixture()
	ticks := map[int64]uint64{12: 1, 13: 2}
	got, err := tr.SwitchToMatchOrFallback(ticks, func(w *Node) bool {
		return w.GetName() == "term"
	})
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if got.ID != 12 {
		t.Fatalf("match target = %d, want 12", got.ID)
	}
	got, err = tr.SwitchToMatchOrFallback(ticks, func(w *Node) bool { return false })
	if err != nil {
		t.Fatalf("fallback: %v", err)
	}
	if got.ID != 13 {
		t.Fatalf("fallback target = %d, want lru 13", got.ID)
	}
}

package layout

import (
	"testing"

	"github.com/DevelAngel/swayr/internal/tree"
)

func strp(s string) *string { return &s }

func win(id int64, name string, width int32) *tree.Node {
	return &tree.Node{
		ID: id, Type: tree.TypeCon, Name: strp(name),
		Rect: tree.Rect{Width: width, Height: 1000},
	}
}

func buildTree(outputWidth int32, wsLayout string, children ...*tree.Node) *tree.Tree {
	ws := &tree.Node{
		ID: 2, Type: tree.TypeWorkspace, Name: strp("1"), Layout: wsLayout,
		Rect:  tree.Rect{Width: outputWidth, Height: 1000},
		Nodes: children,
	}
	out := &tree.Node{
		ID: 4, Type: tree.TypeOutput, Name: strp("eDP-1"),
		Rect:  tree.Rect{Width: outputWidth, Height: 1100},
		Nodes: []*tree.Node{ws},
	}
	return tree.New(&tree.Node{ID: 1, Type: tree.TypeRoot, Name: strp("root"), Nodes: []*tree.Node{out}})
}

func tableOf(pairs ...[2]int32) WidthTable {
	return func(outputWidth int32) (int32, bool) {
		for _, p := range pairs {
			if p[0] == outputWidth {
				return p[1], true
			}
		}
		return 0, false
	}
}

func TestAutoTileFlipsCrowdedHorizontalSplit(t *testing.T) {
	// 2000px wide, two children: a third window would get 666px < 900.
	tr := buildTree(2000, tree.LayoutSplitH, win(11, "a", 1000), win(12, "b", 1000))
	got := AutoTilePass(tr, tableOf([2]int32{2000, 900}))
	if len(got) != 1 || got[0] != "[con_id=2] split vertical" {
		t.Fatalf("commands = %v", got)
	}
}

func TestAutoTileFlipsRoomyVerticalSplit(t *testing.T) {
	// One child on 2000px: per-window width 2000 >= 900, go horizontal.
	tr := buildTree(2000, tree.LayoutSplitV, win(11, "a", 2000))
	got := AutoTilePass(tr, tableOf([2]int32{2000, 900}))
	if len(got) != 1 || got[0] != "[con_id=2] split horizontal" {
		t.Fatalf("commands = %v", got)
	}
}

func TestAutoTileIsIdempotentWhenBalanced(t *testing.T) {
	// Two children, a third would still get 1000px >= 900.
	tr := buildTree(3000, tree.LayoutSplitH, win(11, "a", 1500), win(12, "b", 1500))
	if got := AutoTilePass(tr, tableOf([2]int32{3000, 900})); len(got) != 0 {
		t.Fatalf("balanced tree produced commands %v", got)
	}
}

func TestAutoTileRequiresExactTableEntry(t *testing.T) {
	tr := buildTree(2001, tree.LayoutSplitH, win(11, "a", 1000), win(12, "b", 1000))
	if got := AutoTilePass(tr, tableOf([2]int32{2000, 900})); len(got) != 0 {
		t.Fatalf("output without a table entry produced commands %v", got)
	}
}

func TestAutoTileExemptsTabbedSubtrees(t *testing.T) {
	inner := &tree.Node{
		ID: 15, Type: tree.TypeCon, Layout: tree.LayoutSplitH,
		Rect:  tree.Rect{Width: 600},
		Nodes: []*tree.Node{win(12, "b", 300), win(13, "c", 300)},
	}
	tabbed := &tree.Node{
		ID: 14, Type: tree.TypeCon, Layout: tree.LayoutTabbed,
		Rect:  tree.Rect{Width: 600},
		Nodes: []*tree.Node{inner},
	}
	tr := buildTree(2000, tree.LayoutTabbed, tabbed)
	if got := AutoTilePass(tr, tableOf([2]int32{2000, 900})); len(got) != 0 {
		t.Fatalf("tabbed subtree produced commands %v", got)
	}
}

func TestAutoTileDescendsIntoNestedContainers(t *testing.T) {
	nested := &tree.Node{
		ID: 15, Type: tree.TypeCon, Layout: tree.LayoutSplitH,
		Rect:  tree.Rect{Width: 1000},
		Nodes: []*tree.Node{win(12, "b", 500), win(13, "c", 500)},
	}
	tr := buildTree(2000, tree.LayoutSplitV, win(11, "a", 2000), nested)
	got := AutoTilePass(tr, tableOf([2]int32{2000, 900}))
	// The workspace itself is splitv with 2000/2 >= 900, so it flips, and
	// the nested splith would squeeze a third window to 333px.
	want := map[string]bool{
		"[con_id=2] split horizontal": true,
		"[con_id=15] split vertical":  true,
	}
	if len(got) != len(want) {
		t.Fatalf("commands = %v", got)
	}
	for _, c := range got {
		if !want[c] {
			t.Fatalf("unexpected command %q in %v", c, got)
		}
	}
}

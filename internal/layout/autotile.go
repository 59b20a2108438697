// Package layout derives split-orientation and re-insertion commands from
// the mirrored tree. It never talks to the compositor itself; callers issue
// the returned commands after releasing the daemon lock.
package layout

import (
	"fmt"

	"github.com/DevelAngel/swayr/internal/tree"
)

// WidthTable resolves an output pixel width to the minimum acceptable
// window width. The lookup is exact; an output with no entry reports false
// and is never auto-tiled.
type WidthTable func(outputWidth int32) (minWindowWidth int32, ok bool)

// AutoTilePass computes the split-orientation commands that keep every
// tiled container's prospective next window at least the configured
// minimum width. The pass covers the whole tree and is idempotent: when no
// container needs its split flipped, no commands are produced.
//
// Tabbed and stacked containers are exempt together with their entire
// subtrees, as are floating subtrees and the scratch output.
func AutoTilePass(t *tree.Tree, table WidthTable) []string {
	var commands []string
	for _, output := range t.Outputs() {
		threshold, ok := table(output.Rect.Width)
		if !ok {
			continue
		}
		for _, ws := range output.Nodes {
			if ws.Type != tree.TypeWorkspace || ws.IsScratchpad() {
				continue
			}
			commands = appendSplitFlips(commands, ws, threshold)
		}
	}
	return commands
}

func appendSplitFlips(commands []string, n *tree.Node, threshold int32) []string {
	if n.Layout == tree.LayoutTabbed || n.Layout == tree.LayoutStacked {
		return commands
	}
	if children := int32(len(n.Nodes)); children > 0 {
		projected := n.Rect.Width / (children + 1)
		switch {
		case n.Layout == tree.LayoutSplitH && projected < threshold:
			commands = append(commands, fmt.Sprintf("[con_id=%d] split vertical", n.ID))
		case n.Layout == tree.LayoutSplitV && n.Rect.Width/children >= threshold:
			commands = append(commands, fmt.Sprintf("[con_id=%d] split horizontal", n.ID))
		}
	}
	for _, child := range n.Nodes {
		if child.IsWindow() {
			continue
		}
		commands = appendSplitFlips(commands, child, threshold)
	}
	return commands
}

package layout

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/DevelAngel/swayr/internal/tree"
)

// Commander issues commands against the compositor.
type Commander interface {
	RunCommandChecked(ctx context.Context, command string) error
}

// parkingWorkspace is the temporary workspace windows are moved to while a
// workspace is being re-tiled.
const parkingWorkspace = "✨"

// settleDelay gives the compositor time to apply one re-insertion before
// the next command depends on the resulting focus.
const settleDelay = 25 * time.Millisecond

// Mode selects the target arrangement of a relayout.
type Mode int

const (
	// ModeTile re-inserts windows in their original depth-first order.
	ModeTile Mode = iota
	// ModeShuffleTile re-inserts in random order and focuses a random
	// already-placed window before each insertion. With the compositor's
	// "insert next to the focused container" semantics this yields a more
	// balanced split tree than left-to-right insertion.
	ModeShuffleTile
	// ModeTab re-inserts in order and switches the workspace to tabbed.
	ModeTab
)

// Relayouter re-tiles or re-tabs a workspace by parking every qualifying
// window on a scratch workspace and re-inserting them one at a time.
// Planning reads the tree mirror and must happen under the daemon lock;
// execution only issues compositor commands and must happen without it.
type Relayouter struct {
	Cmd   Commander
	Delay time.Duration
	Rand  *rand.Rand
}

// NewRelayouter returns a relayouter using the default settle delay and a
// time-seeded shuffle source.
func NewRelayouter(cmd Commander) *Relayouter {
	return &Relayouter{
		Cmd:   cmd,
		Delay: settleDelay,
		Rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Plan captures everything a relayout needs after the tree lock is
// released: the target workspace and the window ids in both their
// original and re-insertion order. floating marks the ids that must be
// switched to tiling before re-insertion.
type Plan struct {
	mode        Mode
	workspace   string
	workspaceID int64
	windows     []int64
	order       []int64
	floating    map[int64]bool
}

// Plan derives the relayout plan for the focused workspace of the mirror.
// Floating windows are left alone unless includeFloating is set. It
// returns nil when fewer than two windows qualify; that relayout is a
// no-op. ModeToggle semantics live in PlanToggle.
func (r *Relayouter) Plan(t *tree.Tree, mode Mode, includeFloating bool) *Plan {
	ws, ok := t.WorkspaceOf(t.FocusedID())
	if !ok || ws.IsScratchpad() {
		return nil
	}
	var windows []int64
	floating := make(map[int64]bool)
	for _, w := range ws.Windows() {
		if w.IsFloating() {
			if !includeFloating {
				continue
			}
			floating[w.ID] = true
		}
		windows = append(windows, w.ID)
	}
	if len(windows) < 2 {
		return nil
	}
	order := make([]int64, len(windows))
	copy(order, windows)
	if mode == ModeShuffleTile {
		r.Rand.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}
	return &Plan{
		mode:        mode,
		workspace:   ws.GetName(),
		workspaceID: ws.ID,
		windows:     windows,
		order:       order,
		floating:    floating,
	}
}

// PlanToggle plans based on the focused workspace's current layout: a
// tabbed or stacked workspace is shuffle-tiled, anything else is tabbed.
func (r *Relayouter) PlanToggle(t *tree.Tree, includeFloating bool) *Plan {
	ws, ok := t.WorkspaceOf(t.FocusedID())
	if !ok {
		return nil
	}
	if ws.Layout == tree.LayoutTabbed || ws.Layout == tree.LayoutStacked {
		return r.Plan(t, ModeShuffleTile, includeFloating)
	}
	return r.Plan(t, ModeTab, includeFloating)
}

// Execute runs a plan: park every window, set the root layout of the
// emptied workspace, then re-insert one at a time. A nil plan is a
// no-op.
func (r *Relayouter) Execute(ctx context.Context, plan *Plan) error {
	if plan == nil {
		return nil
	}
	for _, id := range plan.windows {
		cmd := fmt.Sprintf("[con_id=%d] move to workspace %s", id, parkingWorkspace)
		if err := r.Cmd.RunCommandChecked(ctx, cmd); err != nil {
			return fmt.Errorf("park window %d: %w", id, err)
		}
	}
	r.settle()

	rootLayout := "splith"
	if plan.mode == ModeTab {
		rootLayout = "tabbed"
	}
	cmd := fmt.Sprintf("[con_id=%d] layout %s", plan.workspaceID, rootLayout)
	if err := r.Cmd.RunCommandChecked(ctx, cmd); err != nil {
		return fmt.Errorf("set layout of workspace %s: %w", plan.workspace, err)
	}

	for i, id := range plan.order {
		if plan.floating[id] {
			cmd := fmt.Sprintf("[con_id=%d] floating disable", id)
			if err := r.Cmd.RunCommandChecked(ctx, cmd); err != nil {
				return fmt.Errorf("unfloat window %d: %w", id, err)
			}
		}
		if plan.mode == ModeShuffleTile && i > 0 {
			prev := plan.order[r.Rand.Intn(i)]
			cmd := fmt.Sprintf("[con_id=%d] focus", prev)
			if err := r.Cmd.RunCommandChecked(ctx, cmd); err != nil {
				return fmt.Errorf("refocus window %d: %w", prev, err)
			}
			r.settle()
		}
		cmd := fmt.Sprintf("[con_id=%d] move to workspace %s; [con_id=%d] focus", id, plan.workspace, id)
		if err := r.Cmd.RunCommandChecked(ctx, cmd); err != nil {
			return fmt.Errorf("reinsert window %d: %w", id, err)
		}
		r.settle()
	}
	return nil
}

func (r *Relayouter) settle() {
	if r.Delay > 0 {
		time.Sleep(r.Delay)
	}
}

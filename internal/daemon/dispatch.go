package daemon

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/DevelAngel/swayr/internal/cmds"
	"github.com/DevelAngel/swayr/internal/criteria"
	"github.com/DevelAngel/swayr/internal/layout"
	"github.com/DevelAngel/swayr/internal/menu"
	"github.com/DevelAngel/swayr/internal/tree"
)

// noOpReply is returned when a command legitimately has nothing to do:
// empty filtered sets, dismissed menus, no eligible target.
const noOpReply = "no-op"

// moveTargetMark temporarily marks the destination of a move to a
// container or window.
const moveTargetMark = "__SWAYR_MOVE_TARGET__"

var cycleSpecs = map[string]struct {
	dir    tree.Direction
	filter tree.Filter
}{
	cmds.NextWindow:                {tree.Next, tree.FilterAny},
	cmds.PrevWindow:                {tree.Prev, tree.FilterAny},
	cmds.NextTiledWindow:           {tree.Next, tree.FilterTiled},
	cmds.PrevTiledWindow:           {tree.Prev, tree.FilterTiled},
	cmds.NextTabbedOrStackedWindow: {tree.Next, tree.FilterTabbedOrStacked},
	cmds.PrevTabbedOrStackedWindow: {tree.Prev, tree.FilterTabbedOrStacked},
	cmds.NextFloatingWindow:        {tree.Next, tree.FilterFloating},
	cmds.PrevFloatingWindow:        {tree.Prev, tree.FilterFloating},
	cmds.NextWindowOfSameLayout:    {tree.Next, tree.FilterSimilar},
	cmds.PrevWindowOfSameLayout:    {tree.Prev, tree.FilterSimilar},
}

// Dispatch executes one client command and produces its reply payload.
// No-target and cancelled-menu outcomes are successful no-ops, never
// errors.
func (d *Daemon) Dispatch(ctx context.Context, cmd cmds.Command) (any, error) {
	if err := cmd.Validate(); err != nil {
		d.stats.Command(true)
		return nil, err
	}
	if d.config().Misc.SeqInhibit {
		if cmd.IsCycle() {
			d.lockin.Inhibit()
		} else {
			d.lockin.Activate()
		}
	}
	result, err := d.dispatch(ctx, cmd)
	if errors.Is(err, tree.ErrNoTarget) || errors.Is(err, menu.ErrCancelled) {
		result, err = noOpReply, nil
	}
	d.stats.Command(err != nil)
	if cmd.Name != cmds.Nop {
		d.scheduleAutoNop()
	}
	return result, err
}

func (d *Daemon) dispatch(ctx context.Context, cmd cmds.Command) (any, error) {
	if spec, ok := cycleSpecs[cmd.Name]; ok {
		return d.cycleWindow(ctx, spec.dir, spec.filter, scopeOf(cmd.Scope))
	}
	switch cmd.Name {
	case cmds.SwitchToUrgentOrLRUWindow:
		return d.switchToTarget(ctx, func(t *tree.Tree, ticks map[int64]uint64) (*tree.Node, error) {
			return t.SwitchToUrgentOrLRU(ticks)
		})
	case cmds.SwitchToAppOrUrgentOrLRUWindow:
		return d.switchToTarget(ctx, func(t *tree.Tree, ticks map[int64]uint64) (*tree.Node, error) {
			return t.SwitchToMatchOrFallback(ticks, func(w *tree.Node) bool {
				return w.GetAppName() == cmd.Value
			})
		})
	case cmds.SwitchToMarkOrUrgentOrLRUWindow:
		return d.switchToTarget(ctx, func(t *tree.Tree, ticks map[int64]uint64) (*tree.Node, error) {
			return t.SwitchToMatchOrFallback(ticks, func(w *tree.Node) bool {
				return w.HasMark(cmd.Value)
			})
		})
	case cmds.SwitchToMatchingOrUrgentOrLRUWindow:
		crit, err := criteria.Parse(cmd.Value)
		if err != nil {
			return nil, err
		}
		return d.switchToTarget(ctx, func(t *tree.Tree, ticks map[int64]uint64) (*tree.Node, error) {
			return t.SwitchToMatchOrFallback(ticks, func(w *tree.Node) bool {
				return crit.Matches(t, w)
			})
		})
	case cmds.SwitchWindow:
		return d.switchWindow(ctx)
	case cmds.SwitchWorkspace:
		return d.selectAndFocus(ctx, "Switch to workspace", menuScope{workspaces: true})
	case cmds.SwitchOutput:
		return d.selectAndFocus(ctx, "Switch to output", menuScope{outputs: true})
	case cmds.SwitchWorkspaceOrWindow:
		return d.selectAndFocus(ctx, "Switch to workspace or window",
			menuScope{workspaces: true, windows: true})
	case cmds.SwitchWorkspaceContainerOrWindow:
		return d.selectAndFocus(ctx, "Switch to workspace, container or window",
			menuScope{workspaces: true, containers: true, windows: true})
	case cmds.SwitchTo:
		return d.selectAndFocus(ctx, "Switch to output, workspace, container or window",
			menuScope{outputs: true, workspaces: true, containers: true, windows: true})
	case cmds.QuitWindow:
		return d.quitWindow(ctx, cmd.Kill)
	case cmds.QuitWorkspaceOrWindow:
		return d.selectAndQuit(ctx, "Quit workspace or window",
			menuScope{workspaces: true, windows: true})
	case cmds.QuitWorkspaceContainerOrWindow:
		return d.selectAndQuit(ctx, "Quit workspace, container or window",
			menuScope{workspaces: true, containers: true, windows: true})
	case cmds.MoveFocusedToWorkspace:
		return d.selectAndMoveFocused(ctx, "Move to workspace", menuScope{workspaces: true})
	case cmds.MoveFocusedTo:
		return d.selectAndMoveFocused(ctx, "Move to output, workspace, container or window",
			menuScope{outputs: true, workspaces: true, containers: true, windows: true})
	case cmds.SwapFocusedWith:
		return d.swapFocusedWith(ctx)
	case cmds.NextMatchingWindow:
		return d.cycleMatching(ctx, tree.Next, cmd.Value, scopeOf(cmd.Scope))
	case cmds.PrevMatchingWindow:
		return d.cycleMatching(ctx, tree.Prev, cmd.Value, scopeOf(cmd.Scope))
	case cmds.NextWorkspace:
		return d.cycleWorkspace(ctx, tree.Next)
	case cmds.PrevWorkspace:
		return d.cycleWorkspace(ctx, tree.Prev)
	case cmds.TileWorkspace, cmds.TabWorkspace, cmds.ShuffleTileWorkspace, cmds.ToggleTabShuffleTileWorkspace:
		return d.relayoutWorkspace(ctx, cmd)
	case cmds.ConfigureOutputs:
		return d.configureOutputs(ctx)
	case cmds.ExecuteSwaymsgCommand:
		return d.executeSwaymsgCommand(ctx)
	case cmds.ExecuteSwayrCommand:
		return d.executeSwayrCommand(ctx)
	case cmds.Nop:
		return "nop", nil
	case cmds.DaemonMetrics:
		return d.stats.Snapshot(), nil
	case cmds.DaemonEvents:
		return d.events.snapshot(), nil
	default:
		return nil, fmt.Errorf("unknown command %q", cmd.Name)
	}
}

func scopeOf(s string) tree.Scope {
	if s == cmds.ScopeCurrentWorkspace {
		return tree.ScopeCurrentWorkspace
	}
	return tree.ScopeAllWorkspaces
}

func focusCommand(id int64) string {
	return fmt.Sprintf("[con_id=%d] focus", id)
}

// switchToTarget resolves a window under the lock and focuses it after
// releasing it.
func (d *Daemon) switchToTarget(ctx context.Context, resolve func(*tree.Tree, map[int64]uint64) (*tree.Node, error)) (any, error) {
	var target int64
	err := d.withMirror(func(t *tree.Tree, ticks map[int64]uint64) error {
		n, err := resolve(t, ticks)
		if err != nil {
			return err
		}
		target = n.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := d.comp.RunCommandChecked(ctx, focusCommand(target)); err != nil {
		return nil, err
	}
	return fmt.Sprintf("focused window %d", target), nil
}

func (d *Daemon) cycleWindow(ctx context.Context, dir tree.Direction, filter tree.Filter, scope tree.Scope) (any, error) {
	return d.switchToTarget(ctx, func(t *tree.Tree, ticks map[int64]uint64) (*tree.Node, error) {
		return t.Cycle(t.FocusedID(), dir, scope, filter)
	})
}

func (d *Daemon) cycleMatching(ctx context.Context, dir tree.Direction, expr string, scope tree.Scope) (any, error) {
	crit, err := criteria.Parse(expr)
	if err != nil {
		return nil, err
	}
	return d.switchToTarget(ctx, func(t *tree.Tree, ticks map[int64]uint64) (*tree.Node, error) {
		return t.CyclePred(t.FocusedID(), dir, scope, func(w *tree.Node) bool {
			return crit.Matches(t, w)
		})
	})
}

func (d *Daemon) cycleWorkspace(ctx context.Context, dir tree.Direction) (any, error) {
	var target string
	err := d.withMirror(func(t *tree.Tree, _ map[int64]uint64) error {
		workspaces := t.Workspaces()
		if len(workspaces) == 0 {
			return tree.ErrNoTarget
		}
		sort.SliceStable(workspaces, func(i, j int) bool {
			ni, nj := workspaceNum(workspaces[i]), workspaceNum(workspaces[j])
			if ni != nj {
				return ni < nj
			}
			return workspaces[i].GetName() < workspaces[j].GetName()
		})
		current, _ := t.WorkspaceOf(t.FocusedID())
		idx := -1
		if current != nil {
			for i, ws := range workspaces {
				if ws.ID == current.ID {
					idx = i
					break
				}
			}
		}
		switch {
		case idx < 0 && dir == tree.Prev:
			idx = 0
		case idx < 0:
			idx = len(workspaces) - 1
		}
		if dir == tree.Prev {
			target = workspaces[(idx-1+len(workspaces))%len(workspaces)].GetName()
		} else {
			target = workspaces[(idx+1)%len(workspaces)].GetName()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := d.comp.RunCommandChecked(ctx, "workspace "+target); err != nil {
		return nil, err
	}
	return "switched to workspace " + target, nil
}

func workspaceNum(ws *tree.Node) int32 {
	if ws.Num != nil && *ws.Num >= 0 {
		return *ws.Num
	}
	return int32(1<<31 - 1)
}

type pickKind int

const (
	pickOutput pickKind = iota
	pickWorkspace
	pickContainer
	pickWindow
)

// pick is one selectable menu entry together with everything its action
// needs after the menu returns.
type pick struct {
	kind    pickKind
	id      int64
	name    string       // output or workspace name
	pid     int32        // window process, used by quit --kill
	members []quitTarget // windows under a workspace or container
}

// pickMenu accumulates menu entries. A label that renders identically to
// an earlier one gets the node id appended so every entry stays
// individually selectable.
type pickMenu struct {
	labels  []string
	byLabel map[string]pick
}

func newPickMenu() *pickMenu {
	return &pickMenu{byLabel: make(map[string]pick)}
}

func (m *pickMenu) add(label string, p pick) {
	if _, dup := m.byLabel[label]; dup {
		label = fmt.Sprintf("%s (%d)", label, p.id)
	}
	m.labels = append(m.labels, label)
	m.byLabel[label] = p
}

// menuScope selects which node kinds a menu presents.
type menuScope struct {
	outputs    bool
	workspaces bool
	containers bool
	windows    bool
}

// nodeMenu renders the mirror into menu entries: outputs first, then per
// workspace its entry followed by its containers and windows in tree
// order. Scratchpad nodes never appear.
func (d *Daemon) nodeMenu(scope menuScope) (*pickMenu, error) {
	m := newPickMenu()
	err := d.withMirror(func(t *tree.Tree, _ map[int64]uint64) error {
		labeler := d.windowLabeler()
		if scope.outputs {
			for _, o := range t.Outputs() {
				m.add(labeler.Output(o), pick{kind: pickOutput, id: o.ID, name: o.GetName()})
			}
		}
		for _, ws := range t.Workspaces() {
			if scope.workspaces {
				p := pick{kind: pickWorkspace, id: ws.ID, name: ws.GetName()}
				for _, w := range ws.Windows() {
					p.members = append(p.members, quitTarget{id: w.ID, pid: w.GetPID()})
				}
				m.add(labeler.Workspace(t, ws), p)
			}
			if !scope.containers && !scope.windows {
				continue
			}
			ws.Walk(func(n *tree.Node) {
				switch {
				case scope.containers && n.ID != ws.ID && n.Type == tree.TypeCon && n.IsContainer():
					p := pick{kind: pickContainer, id: n.ID}
					for _, w := range n.Windows() {
						p.members = append(p.members, quitTarget{id: w.ID, pid: w.GetPID()})
					}
					m.add(labeler.Container(t, n), p)
				case scope.windows && n.IsWindow():
					m.add(labeler.Window(t, n), pick{kind: pickWindow, id: n.ID, pid: n.GetPID()})
				}
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// selectAndFocus presents the scoped node menu and focuses the
// selection. Free text falls through to the workspace/raw-command
// grammar.
func (d *Daemon) selectAndFocus(ctx context.Context, prompt string, scope menuScope) (any, error) {
	m, err := d.nodeMenu(scope)
	if err != nil {
		return nil, err
	}
	choice, err := d.selector().Select(ctx, prompt, m.labels)
	if err != nil {
		return nil, err
	}
	p, ok := m.byLabel[choice]
	if !ok {
		return d.runNonMatching(ctx, choice, false)
	}
	switch p.kind {
	case pickOutput:
		if err := d.comp.RunCommandChecked(ctx, "focus output "+p.name); err != nil {
			return nil, err
		}
		return "focused output " + p.name, nil
	case pickWorkspace:
		if err := d.comp.RunCommandChecked(ctx, "workspace "+p.name); err != nil {
			return nil, err
		}
		return "switched to workspace " + p.name, nil
	default:
		if err := d.comp.RunCommandChecked(ctx, focusCommand(p.id)); err != nil {
			return nil, err
		}
		return fmt.Sprintf("focused window %d", p.id), nil
	}
}

// selectAndQuit presents the scoped node menu and quits the selection: a
// window alone, a workspace or container with all its windows.
func (d *Daemon) selectAndQuit(ctx context.Context, prompt string, scope menuScope) (any, error) {
	m, err := d.nodeMenu(scope)
	if err != nil {
		return nil, err
	}
	choice, err := d.selector().Select(ctx, prompt, m.labels)
	if err != nil {
		return nil, err
	}
	p, ok := m.byLabel[choice]
	if !ok {
		return noOpReply, nil
	}
	if p.kind == pickWindow {
		return d.quitTargets(ctx, false, quitTarget{id: p.id, pid: p.pid})
	}
	return d.quitTargets(ctx, false, p.members...)
}

// selectAndMoveFocused presents the scoped node menu and moves the
// focused container to the selection. A container or window target is
// addressed through a transient mark because "move to" only accepts
// marks and workspaces.
func (d *Daemon) selectAndMoveFocused(ctx context.Context, prompt string, scope menuScope) (any, error) {
	m, err := d.nodeMenu(scope)
	if err != nil {
		return nil, err
	}
	choice, err := d.selector().Select(ctx, prompt, m.labels)
	if err != nil {
		return nil, err
	}
	p, ok := m.byLabel[choice]
	if !ok {
		return d.runNonMatching(ctx, choice, true)
	}
	switch p.kind {
	case pickOutput:
		if err := d.comp.RunCommandChecked(ctx, "move container to output "+p.name); err != nil {
			return nil, err
		}
		return "moved to output " + p.name, nil
	case pickWorkspace:
		if err := d.comp.RunCommandChecked(ctx, "move container to workspace "+p.name); err != nil {
			return nil, err
		}
		return "moved to workspace " + p.name, nil
	default:
		for _, command := range []string{
			fmt.Sprintf("[con_id=%d] mark --add %s", p.id, moveTargetMark),
			"move to mark " + moveTargetMark,
			"unmark " + moveTargetMark,
		} {
			if err := d.comp.RunCommandChecked(ctx, command); err != nil {
				return nil, err
			}
		}
		return fmt.Sprintf("moved to container %d", p.id), nil
	}
}

// switchWindow presents the switcher-ordered window list and focuses the
// selection. Free text falls through to the workspace/raw-command
// grammar.
func (d *Daemon) switchWindow(ctx context.Context) (any, error) {
	m := newPickMenu()
	err := d.withMirror(func(t *tree.Tree, ticks map[int64]uint64) error {
		labeler := d.windowLabeler()
		for _, w := range t.SwitcherOrder(ticks) {
			m.add(labeler.Window(t, w), pick{kind: pickWindow, id: w.ID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	choice, err := d.selector().Select(ctx, "Switch to window", m.labels)
	if err != nil {
		return nil, err
	}
	if p, ok := m.byLabel[choice]; ok {
		if err := d.comp.RunCommandChecked(ctx, focusCommand(p.id)); err != nil {
			return nil, err
		}
		return fmt.Sprintf("focused window %d", p.id), nil
	}
	return d.runNonMatching(ctx, choice, false)
}

// runNonMatching applies the free-text grammar: "#"-stripping, then
// "s:<cmd>" as a raw compositor command, otherwise a workspace target
// which is switched to or, when move is set, receives the focused
// container.
func (d *Daemon) runNonMatching(ctx context.Context, input string, move bool) (any, error) {
	parsed := cmds.ParseNonMatching(input)
	var command string
	switch {
	case parsed.Kind == cmds.InputRawCommand:
		command = parsed.Text
	case move:
		command = parsed.MoveToWorkspaceCommand()
	default:
		command = parsed.WorkspaceCommand()
	}
	if err := d.comp.RunCommandChecked(ctx, command); err != nil {
		return nil, err
	}
	return fmt.Sprintf("ran %q", command), nil
}

type quitTarget struct {
	id  int64
	pid int32
}

func (d *Daemon) quitWindow(ctx context.Context, kill bool) (any, error) {
	m := newPickMenu()
	err := d.withMirror(func(t *tree.Tree, ticks map[int64]uint64) error {
		labeler := d.windowLabeler()
		for _, w := range t.SwitcherOrder(ticks) {
			m.add(labeler.Window(t, w), pick{kind: pickWindow, id: w.ID, pid: w.GetPID()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	choice, err := d.selector().Select(ctx, "Quit window", m.labels)
	if err != nil {
		return nil, err
	}
	p, ok := m.byLabel[choice]
	if !ok {
		return noOpReply, nil
	}
	return d.quitTargets(ctx, kill, quitTarget{id: p.id, pid: p.pid})
}

// quitTargets terminates windows: forced termination signals the process
// directly and skips the graceful compositor request entirely.
func (d *Daemon) quitTargets(ctx context.Context, kill bool, targets ...quitTarget) (any, error) {
	for _, target := range targets {
		if kill {
			if target.pid == 0 {
				return nil, fmt.Errorf("window %d has no recorded pid", target.id)
			}
			if err := d.kill(target.pid); err != nil {
				return nil, fmt.Errorf("kill pid %d: %w", target.pid, err)
			}
			continue
		}
		if err := d.comp.RunCommandChecked(ctx, fmt.Sprintf("[con_id=%d] kill", target.id)); err != nil {
			return nil, err
		}
	}
	return fmt.Sprintf("quit %d window(s)", len(targets)), nil
}

func (d *Daemon) swapFocusedWith(ctx context.Context) (any, error) {
	m := newPickMenu()
	err := d.withMirror(func(t *tree.Tree, ticks map[int64]uint64) error {
		labeler := d.windowLabeler()
		focused := t.FocusedID()
		for _, w := range t.SwitcherOrder(ticks) {
			if w.ID == focused {
				continue
			}
			m.add(labeler.Window(t, w), pick{kind: pickWindow, id: w.ID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(m.labels) == 0 {
		return noOpReply, nil
	}
	choice, err := d.selector().Select(ctx, "Swap with window", m.labels)
	if err != nil {
		return nil, err
	}
	p, ok := m.byLabel[choice]
	if !ok {
		return noOpReply, nil
	}
	if err := d.comp.RunCommandChecked(ctx, fmt.Sprintf("swap container with con_id %d", p.id)); err != nil {
		return nil, err
	}
	return fmt.Sprintf("swapped with window %d", p.id), nil
}

func (d *Daemon) relayoutWorkspace(ctx context.Context, cmd cmds.Command) (any, error) {
	includeFloating := cmd.Floating == cmds.FloatingInclude
	var plan *layout.Plan
	err := d.withMirror(func(t *tree.Tree, _ map[int64]uint64) error {
		switch cmd.Name {
		case cmds.TileWorkspace:
			plan = d.relayout.Plan(t, layout.ModeTile, includeFloating)
		case cmds.ShuffleTileWorkspace:
			plan = d.relayout.Plan(t, layout.ModeShuffleTile, includeFloating)
		case cmds.TabWorkspace:
			plan = d.relayout.Plan(t, layout.ModeTab, includeFloating)
		default:
			plan = d.relayout.PlanToggle(t, includeFloating)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return noOpReply, nil
	}
	if err := d.relayout.Execute(ctx, plan); err != nil {
		return nil, err
	}
	return "workspace re-arranged", nil
}

var outputSubcommands = []string{
	"enable",
	"disable",
	"toggle",
	"transform normal",
	"transform 90",
	"transform 180",
	"transform 270",
	"scale 1",
	"scale 1.25",
	"scale 1.5",
	"scale 2",
	"dpms on",
	"dpms off",
}

// configureOutputs loops a two-level menu: pick an output, then a
// subcommand (or free text) applied to it as an "output …" command, until
// the user cancels.
func (d *Daemon) configureOutputs(ctx context.Context) (any, error) {
	ran := 0
	for {
		outputs, err := d.comp.GetOutputs(ctx)
		if err != nil {
			return nil, err
		}
		var labels []string
		byLabel := make(map[string]string)
		for _, o := range outputs {
			label := fmt.Sprintf("%s (%s %s, %dx%d)", o.Name, o.Make, o.Model, o.Rect.Width, o.Rect.Height)
			labels = append(labels, label)
			byLabel[label] = o.Name
		}
		choice, err := d.selector().Select(ctx, "Configure output", labels)
		if errors.Is(err, menu.ErrCancelled) {
			break
		}
		if err != nil {
			return nil, err
		}
		name, ok := byLabel[choice]
		if !ok {
			name = strings.TrimLeft(choice, "#")
		}
		sub, err := d.selector().Select(ctx, "Output command", outputSubcommands)
		if errors.Is(err, menu.ErrCancelled) {
			continue
		}
		if err != nil {
			return nil, err
		}
		command := "output " + name + " " + strings.TrimLeft(sub, "#")
		if err := d.comp.RunCommandChecked(ctx, command); err != nil {
			return nil, err
		}
		ran++
	}
	if ran == 0 {
		return noOpReply, nil
	}
	return fmt.Sprintf("ran %d output command(s)", ran), nil
}

func (d *Daemon) executeSwaymsgCommand(ctx context.Context) (any, error) {
	choice, err := d.selector().Select(ctx, "Execute swaymsg command", cmds.SwaymsgCommands())
	if err != nil {
		return nil, err
	}
	command := strings.TrimLeft(choice, "#")
	if err := d.comp.RunCommandChecked(ctx, command); err != nil {
		return nil, err
	}
	return fmt.Sprintf("ran %q", command), nil
}

func (d *Daemon) executeSwayrCommand(ctx context.Context) (any, error) {
	choice, err := d.selector().Select(ctx, "Execute swayr command", cmds.Names())
	if err != nil {
		return nil, err
	}
	name, value, _ := strings.Cut(strings.TrimLeft(choice, "#"), " ")
	return d.dispatch(ctx, cmds.Command{Name: name, Value: value})
}

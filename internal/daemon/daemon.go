// Package daemon is the long-running core: it mirrors the compositor tree,
// maintains the focus history and serves client commands. A single mutex
// guards the mirror and the focus bookkeeping; it is always released
// before any blocking compositor request so a stalled command can never
// deadlock the event loop.
package daemon

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"time"

	"github.com/DevelAngel/swayr/internal/cmds"
	"github.com/DevelAngel/swayr/internal/config"
	"github.com/DevelAngel/swayr/internal/focus"
	"github.com/DevelAngel/swayr/internal/format"
	"github.com/DevelAngel/swayr/internal/ipc"
	"github.com/DevelAngel/swayr/internal/layout"
	"github.com/DevelAngel/swayr/internal/menu"
	"github.com/DevelAngel/swayr/internal/metrics"
	"github.com/DevelAngel/swayr/internal/tree"
	"github.com/DevelAngel/swayr/internal/util"
)

// Compositor is the daemon's view of the compositor link.
type Compositor interface {
	GetTree(ctx context.Context) (*tree.Node, error)
	RunCommand(ctx context.Context, command string) ([]ipc.CommandResult, error)
	RunCommandChecked(ctx context.Context, command string) error
	GetOutputs(ctx context.Context) ([]ipc.Output, error)
}

// Selector runs the external menu program for one selection.
type Selector interface {
	Select(ctx context.Context, prompt string, items []string) (string, error)
}

// Daemon owns the tree mirror and dispatches events and commands against
// it.
type Daemon struct {
	comp   Compositor
	logger *util.Logger
	events *eventLog
	stats  *metrics.Collector

	fd       *focus.Data
	lockin   *focus.Handler
	relayout *layout.Relayouter

	// kill is the forced-termination path of quit-window.
	kill func(pid int32) error

	cfgMu   sync.RWMutex
	cfg     config.Config
	menu    Selector
	labeler *format.Labeler

	mu     sync.Mutex
	mirror *tree.Tree

	nopMu    sync.Mutex
	nopTimer *time.Timer
}

// New assembles a daemon around a compositor link and a configuration.
func New(comp Compositor, cfg config.Config, logger *util.Logger) *Daemon {
	d := &Daemon{
		comp:   comp,
		logger: logger,
		events: newEventLog(eventLogLimit),
		stats:  metrics.NewCollector(),
		fd:     focus.NewData(),
	}
	d.lockin = focus.NewHandler(d.fd, time.Duration(cfg.Focus.LockinDelayMS)*time.Millisecond)
	d.relayout = layout.NewRelayouter(comp)
	d.kill = func(pid int32) error {
		return syscall.Kill(int(pid), syscall.SIGKILL)
	}
	d.applyConfig(cfg)
	return d
}

func (d *Daemon) applyConfig(cfg config.Config) {
	d.cfgMu.Lock()
	defer d.cfgMu.Unlock()
	d.cfg = cfg
	d.menu = menu.NewRunner(cfg.Menu.Executable, cfg.Menu.Args)
	d.labeler = format.NewLabeler(cfg.Format)
	d.lockin.SetDelay(time.Duration(cfg.Focus.LockinDelayMS) * time.Millisecond)
}

// Reload swaps in a freshly loaded configuration.
func (d *Daemon) Reload(cfg config.Config) {
	d.applyConfig(cfg)
	d.logger.Infof("configuration reloaded")
}

// Stats exposes the metrics collector so the event decoder can count
// skipped frames into the same counters the control socket reports.
func (d *Daemon) Stats() *metrics.Collector {
	return d.stats
}

func (d *Daemon) config() config.Config {
	d.cfgMu.RLock()
	defer d.cfgMu.RUnlock()
	return d.cfg
}

func (d *Daemon) selector() Selector {
	d.cfgMu.RLock()
	defer d.cfgMu.RUnlock()
	return d.menu
}

func (d *Daemon) windowLabeler() *format.Labeler {
	d.cfgMu.RLock()
	defer d.cfgMu.RUnlock()
	return d.labeler
}

// Run performs the initial snapshot fetch and then consumes the event
// stream until the context is cancelled, the stream closes or the
// compositor shuts down.
func (d *Daemon) Run(ctx context.Context, events <-chan ipc.Event) error {
	if err := d.Resync(ctx); err != nil {
		return err
	}
	go d.lockin.Run(ctx)
	d.logger.Infof("tracking %d nodes", d.nodeCount())

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("compositor event stream closed")
			}
			if shutdown := d.handleEvent(ctx, ev); shutdown {
				d.logger.Infof("compositor shut down, exiting")
				return nil
			}
		}
	}
}

func (d *Daemon) nodeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mirror == nil {
		return 0
	}
	return d.mirror.Len()
}

// Resync discards the mirror and rebuilds it from a fresh snapshot,
// pruning focus history entries for windows that are gone.
func (d *Daemon) Resync(ctx context.Context) error {
	root, err := d.comp.GetTree(ctx)
	if err != nil {
		return err
	}
	t := tree.New(root)
	d.mu.Lock()
	d.mirror = t
	for id := range d.fd.Snapshot() {
		if _, ok := t.Get(id); !ok {
			d.fd.Remove(id)
		}
	}
	focused := t.FocusedID()
	d.mu.Unlock()
	if focused != 0 {
		d.lockin.Focus(focused)
	}
	return nil
}

func (d *Daemon) handleEvent(ctx context.Context, ev ipc.Event) (shutdown bool) {
	switch ev.Topic {
	case "shutdown":
		return true
	case "window":
		if ev.Window != nil {
			d.handleWindowEvent(ctx, ev.Window)
		}
	case "workspace":
		if ev.Workspace != nil {
			d.handleWorkspaceEvent(ctx, ev.Workspace)
		}
	}
	return false
}

func (d *Daemon) handleWindowEvent(ctx context.Context, we *ipc.WindowEvent) {
	d.stats.EventSeen(we.Change)
	rec := EventRecord{Timestamp: time.Now(), Topic: "window", Change: we.Change}
	if we.Container != nil {
		rec.NodeID = we.Container.ID
	}

	d.mu.Lock()
	var (
		mut tree.Mutation
		err error
	)
	if d.mirror == nil {
		err = tree.ErrUnknownNode
	} else {
		mut, err = d.mirror.ApplyWindow(we.Change, we.Container)
	}
	if err == nil && we.Change == "close" && we.Container != nil {
		d.fd.Remove(we.Container.ID)
	}
	d.mu.Unlock()

	switch {
	case err != nil:
		rec.Error = err.Error()
		rec.Resync = true
		d.logger.Debugf("window %s event forces resync: %v", we.Change, err)
		d.resyncLogged(ctx)
	case mut.Resync:
		rec.Resync = true
		d.resyncLogged(ctx)
	default:
		d.stats.EventApplied()
	}
	d.events.record(rec)

	if we.Change == "focus" && we.Container != nil {
		d.lockin.Focus(we.Container.ID)
	}

	switch we.Change {
	case "new", "close", "move", "floating", "focus":
		d.autoTilePass(ctx)
	}
}

func (d *Daemon) handleWorkspaceEvent(ctx context.Context, we *ipc.WorkspaceEvent) {
	d.stats.EventSeen("workspace:" + we.Change)
	rec := EventRecord{Timestamp: time.Now(), Topic: "workspace", Change: we.Change}
	if we.Current != nil {
		rec.NodeID = we.Current.ID
	}

	d.mu.Lock()
	var (
		mut tree.Mutation
		err error
	)
	if d.mirror == nil {
		err = tree.ErrUnknownNode
	} else {
		mut, err = d.mirror.ApplyWorkspace(we.Change, we.Current)
	}
	d.mu.Unlock()

	switch {
	case err != nil:
		rec.Error = err.Error()
		rec.Resync = true
		d.resyncLogged(ctx)
	case mut.Resync:
		rec.Resync = true
		d.resyncLogged(ctx)
	default:
		d.stats.EventApplied()
	}
	d.events.record(rec)
}

func (d *Daemon) resyncLogged(ctx context.Context) {
	d.stats.Resync()
	if err := d.Resync(ctx); err != nil {
		d.logger.Errorf("tree resync failed: %v", err)
	}
}

// autoTilePass computes split flips under the lock and issues them after
// releasing it.
func (d *Daemon) autoTilePass(ctx context.Context) {
	cfg := d.config()
	if !cfg.Layout.AutoTile {
		return
	}
	d.mu.Lock()
	var commands []string
	if d.mirror != nil {
		commands = layout.AutoTilePass(d.mirror, cfg.Layout.MinWindowWidth)
	}
	d.mu.Unlock()
	if len(commands) == 0 {
		return
	}
	d.stats.AutoTile(len(commands))
	for _, cmd := range commands {
		if err := d.comp.RunCommandChecked(ctx, cmd); err != nil {
			d.logger.Warnf("auto-tile %q: %v", cmd, err)
		}
	}
}

// withMirror runs fn under the daemon lock with the current mirror and a
// focus clock snapshot. fn must not block on the compositor.
func (d *Daemon) withMirror(fn func(t *tree.Tree, ticks map[int64]uint64) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mirror == nil {
		return errors.New("no tree snapshot yet")
	}
	return fn(d.mirror, d.fd.Snapshot())
}

// scheduleAutoNop arms the auto-nop timer when configured: after a quiet
// period following the last command a nop is dispatched, ending any
// inhibited cycle sequence.
func (d *Daemon) scheduleAutoNop() {
	cfg := d.config()
	if cfg.Misc.AutoNopDelayMS == nil {
		return
	}
	delay := time.Duration(*cfg.Misc.AutoNopDelayMS) * time.Millisecond
	d.nopMu.Lock()
	defer d.nopMu.Unlock()
	if d.nopTimer != nil {
		d.nopTimer.Stop()
	}
	d.nopTimer = time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if _, err := d.Dispatch(ctx, cmds.Command{Name: cmds.Nop}); err != nil {
			d.logger.Warnf("auto nop: %v", err)
		}
	})
}

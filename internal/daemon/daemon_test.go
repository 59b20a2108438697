package daemon

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/DevelAngel/swayr/internal/cmds"
	"github.com/DevelAngel/swayr/internal/config"
	"github.com/DevelAngel/swayr/internal/ipc"
	"github.com/DevelAngel/swayr/internal/util"
)

func runningDaemon(t *testing.T, comp *fakeCompositor) (*Daemon, chan ipc.Event, func()) {
	t.Helper()
	cfg := config.Default()
	cfg.Focus.LockinDelayMS = 0
	logger := util.NewLoggerWithWriter(util.LevelError, os.Stderr)
	d := New(comp, cfg, logger)

	events := make(chan ipc.Event, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx, events)
	}()
	stop := func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("run: %v", err)
		}
	}
	waitFor(t, func() bool { return d.nodeCount() > 0 })
	return d, events, stop
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition never became true")
}

func TestRunAppliesFocusEvents(t *testing.T) {
	comp := &fakeCompositor{root: sampleRoot()}
	d, events, stop := runningDaemon(t, comp)
	defer stop()

	events <- ipc.Event{Topic: "window", Window: &ipc.WindowEvent{
		Change: "focus", Container: win(12, "term", "foot"),
	}}
	waitFor(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.mirror.FocusedID() == 12
	})
	// With a zero lock-in delay the focus is committed to the history.
	waitFor(t, func() bool { return d.fd.TickOf(12) != 0 })
}

func TestRunPrunesFocusHistoryOnClose(t *testing.T) {
	comp := &fakeCompositor{root: sampleRoot()}
	d, events, stop := runningDaemon(t, comp)
	defer stop()

	d.fd.Tick(13)
	events <- ipc.Event{Topic: "window", Window: &ipc.WindowEvent{
		Change: "close", Container: win(13, "logs", "foot"),
	}}
	waitFor(t, func() bool { return d.fd.TickOf(13) == 0 })
	d.mu.Lock()
	_, ok := d.mirror.Get(13)
	d.mu.Unlock()
	if ok {
		t.Fatalf("closed window still mirrored")
	}
}

func TestRunResyncsOnMoveEvents(t *testing.T) {
	comp := &fakeCompositor{root: sampleRoot()}
	d, events, stop := runningDaemon(t, comp)
	defer stop()

	events <- ipc.Event{Topic: "window", Window: &ipc.WindowEvent{
		Change: "move", Container: win(12, "term", "foot"),
	}}
	waitFor(t, func() bool { return d.stats.Snapshot().Resyncs >= 1 })
}

func TestRunExitsOnShutdownEvent(t *testing.T) {
	comp := &fakeCompositor{root: sampleRoot()}
	cfg := config.Default()
	logger := util.NewLoggerWithWriter(util.LevelError, os.Stderr)
	d := New(comp, cfg, logger)

	events := make(chan ipc.Event, 1)
	events <- ipc.Event{Topic: "shutdown", Shutdown: &ipc.ShutdownEvent{Change: "exit"}}
	if err := d.Run(context.Background(), events); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestRunFailsWhenStreamCloses(t *testing.T) {
	comp := &fakeCompositor{root: sampleRoot()}
	cfg := config.Default()
	logger := util.NewLoggerWithWriter(util.LevelError, os.Stderr)
	d := New(comp, cfg, logger)

	events := make(chan ipc.Event)
	close(events)
	if err := d.Run(context.Background(), events); err == nil {
		t.Fatalf("closed stream must be an error")
	}
}

func TestDaemonEventsExposesRecentRecords(t *testing.T) {
	comp := &fakeCompositor{root: sampleRoot()}
	d, events, stop := runningDaemon(t, comp)
	defer stop()

	events <- ipc.Event{Topic: "window", Window: &ipc.WindowEvent{
		Change: "focus", Container: win(12, "term", "foot"),
	}}
	waitFor(t, func() bool { return len(d.events.snapshot()) > 0 })

	data, err := d.Dispatch(context.Background(), cmds.Command{Name: cmds.DaemonEvents})
	if err != nil {
		t.Fatalf("daemon-events: %v", err)
	}
	records, ok := data.([]EventRecord)
	if !ok || len(records) == 0 {
		t.Fatalf("payload = %#v", data)
	}
	if records[0].Topic != "window" || records[0].Change != "focus" {
		t.Fatalf("record = %+v", records[0])
	}
}

func TestReloadSwapsLockinDelay(t *testing.T) {
	comp := &fakeCompositor{root: sampleRoot()}
	d, _, stop := runningDaemon(t, comp)
	defer stop()

	cfg := config.Default()
	cfg.Focus.LockinDelayMS = 5000
	cfg.Menu.Executable = "rofi"
	d.Reload(cfg)
	if got := d.config().Menu.Executable; got != "rofi" {
		t.Fatalf("menu executable after reload = %q", got)
	}
}

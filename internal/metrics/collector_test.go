package metrics

import "testing"

func TestSnapshotReflectsCounters(t *testing.T) {
	c := NewCollector()
	c.EventSeen("focus")
	c.EventSeen("focus")
	c.EventSeen("new")
	c.EventApplied()
	c.EventApplied()
	c.Resync()
	c.DecodeSkip()
	c.Command(false)
	c.Command(true)
	c.AutoTile(3)

	snap := c.Snapshot()
	if snap.EventsSeen != 3 || snap.EventsApplied != 2 {
		t.Fatalf("events = %d/%d", snap.EventsSeen, snap.EventsApplied)
	}
	if snap.Resyncs != 1 || snap.DecodeSkips != 1 {
		t.Fatalf("resyncs/skips = %d/%d", snap.Resyncs, snap.DecodeSkips)
	}
	if snap.Commands != 2 || snap.CommandErrors != 1 {
		t.Fatalf("commands = %d/%d", snap.Commands, snap.CommandErrors)
	}
	if snap.AutoTilePasses != 1 || snap.AutoTileSplits != 3 {
		t.Fatalf("auto-tile = %d/%d", snap.AutoTilePasses, snap.AutoTileSplits)
	}
	if snap.EventChanges["focus"] != 2 || snap.EventChanges["new"] != 1 {
		t.Fatalf("event changes = %v", snap.EventChanges)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	c := NewCollector()
	c.EventSeen("focus")
	snap := c.Snapshot()
	snap.EventChanges["focus"] = 99
	if c.Snapshot().EventChanges["focus"] != 1 {
		t.Fatalf("snapshot mutation leaked into the collector")
	}
}

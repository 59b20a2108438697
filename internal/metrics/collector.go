// Package metrics aggregates counters describing the daemon's view of the
// event stream and command traffic. The counters are in-memory only and
// reset with the process.
package metrics

import (
	"sync"
	"time"
)

// Collector counts events and commands since daemon start.
type Collector struct {
	mu      sync.RWMutex
	started time.Time

	eventsSeen    uint64
	eventsApplied uint64
	resyncs       uint64
	decodeSkips   uint64

	commands       uint64
	commandErrors  uint64
	autoTilePasses uint64
	autoTileSplits uint64

	eventChanges map[string]uint64
}

// Snapshot is the serializable view of the counters.
type Snapshot struct {
	Started        time.Time         `json:"started"`
	UptimeSeconds  float64           `json:"uptimeSeconds"`
	EventsSeen     uint64            `json:"eventsSeen"`
	EventsApplied  uint64            `json:"eventsApplied"`
	Resyncs        uint64            `json:"resyncs"`
	DecodeSkips    uint64            `json:"decodeSkips"`
	Commands       uint64            `json:"commands"`
	CommandErrors  uint64            `json:"commandErrors"`
	AutoTilePasses uint64            `json:"autoTilePasses"`
	AutoTileSplits uint64            `json:"autoTileSplits"`
	EventChanges   map[string]uint64 `json:"eventChanges,omitempty"`
}

// NewCollector returns a collector with its start time set.
func NewCollector() *Collector {
	return &Collector{
		started:      time.Now(),
		eventChanges: make(map[string]uint64),
	}
}

// EventSeen counts one event frame and its change kind.
func (c *Collector) EventSeen(change string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventsSeen++
	if change != "" {
		c.eventChanges[change]++
	}
}

// EventApplied counts one event successfully patched into the mirror.
func (c *Collector) EventApplied() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventsApplied++
}

// Resync counts one full-tree rebuild.
func (c *Collector) Resync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resyncs++
}

// DecodeSkip counts one skipped malformed frame.
func (c *Collector) DecodeSkip() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decodeSkips++
}

// Command counts one dispatched client command and whether it failed.
func (c *Collector) Command(failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands++
	if failed {
		c.commandErrors++
	}
}

// AutoTile counts one pass and the number of split commands it issued.
func (c *Collector) AutoTile(splits int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoTilePasses++
	c.autoTileSplits += uint64(splits)
}

// Snapshot copies the current counters.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := Snapshot{
		Started:        c.started,
		UptimeSeconds:  time.Since(c.started).Seconds(),
		EventsSeen:     c.eventsSeen,
		EventsApplied:  c.eventsApplied,
		Resyncs:        c.resyncs,
		DecodeSkips:    c.decodeSkips,
		Commands:       c.commands,
		CommandErrors:  c.commandErrors,
		AutoTilePasses: c.autoTilePasses,
		AutoTileSplits: c.autoTileSplits,
	}
	if len(c.eventChanges) > 0 {
		snap.EventChanges = make(map[string]uint64, len(c.eventChanges))
		for k, v := range c.eventChanges {
			snap.EventChanges[k] = v
		}
	}
	return snap
}

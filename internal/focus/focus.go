package focus

import "sync"

// Data is the focus history: a monotonic logical clock value per window id.
// Ordering everywhere is "clock descending"; the clock only advances while
// the caller holds the daemon lock, so it is totally ordered with event
// arrival regardless of wall-clock quality.
type Data struct {
	mu    sync.Mutex
	clock uint64
	ticks map[int64]uint64
}

// NewData returns an empty focus history.
func NewData() *Data {
	return &Data{ticks: make(map[int64]uint64)}
}

// Tick records the window as most recently focused and returns its new
// clock value.
func (d *Data) Tick(id int64) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clock++
	d.ticks[id] = d.clock
	return d.clock
}

// Remove forgets a closed window.
func (d *Data) Remove(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.ticks, id)
}

// TickOf returns the window's clock value, zero when never focused.
func (d *Data) TickOf(id int64) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ticks[id]
}

// Snapshot copies the clock table for read-side ordering.
func (d *Data) Snapshot() map[int64]uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[int64]uint64, len(d.ticks))
	for id, tick := range d.ticks {
		out[id] = tick
	}
	return out
}

// Len returns the number of remembered windows.
func (d *Data) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.ticks)
}

package daemon

import (
	"sync"
	"time"
)

const eventLogLimit = 128

// EventRecord is one applied (or skipped) compositor event as remembered
// for introspection.
type EventRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Topic     string    `json:"topic"`
	Change    string    `json:"change"`
	NodeID    int64     `json:"nodeId,omitempty"`
	Resync    bool      `json:"resync,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// eventLog is a bounded ring of recent event records.
type eventLog struct {
	mu      sync.Mutex
	entries []EventRecord
	limit   int
}

func newEventLog(limit int) *eventLog {
	if limit <= 0 {
		limit = eventLogLimit
	}
	return &eventLog{limit: limit}
}

func (l *eventLog) record(entry EventRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == l.limit {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:l.limit-1]
	}
	l.entries = append(l.entries, entry)
}

func (l *eventLog) snapshot() []EventRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]EventRecord, len(l.entries))
	copy(out, l.entries)
	return out
}

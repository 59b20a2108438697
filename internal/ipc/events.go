package ipc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DevelAngel/swayr/internal/tree"
	"github.com/DevelAngel/swayr/internal/util"
)

// Event is one decoded frame from the compositor event stream.
type Event struct {
	Topic     string
	Window    *WindowEvent
	Workspace *WorkspaceEvent
	Shutdown  *ShutdownEvent
}

// WindowEvent reports a change to one view, with a snapshot of the view.
type WindowEvent struct {
	Change    string     `json:"change"`
	Container *tree.Node `json:"container"`
}

// WorkspaceEvent reports a workspace change.
type WorkspaceEvent struct {
	Change  string     `json:"change"`
	Current *tree.Node `json:"current"`
	Old     *tree.Node `json:"old"`
}

// ShutdownEvent reports the compositor going away.
type ShutdownEvent struct {
	Change string `json:"change"`
}

// EventStats counts stream anomalies. It is satisfied by the daemon's
// metrics collector; nil disables counting.
type EventStats interface {
	DecodeSkip()
}

// Subscribe opens a dedicated event connection, subscribes to the given
// topics and streams decoded events until the context is cancelled or the
// compositor closes the stream. Malformed frames are logged, counted and
// skipped.
func Subscribe(ctx context.Context, logger *util.Logger, stats EventStats, topics ...string) (<-chan Event, error) {
	if len(topics) == 0 {
		topics = []string{"window", "workspace", "shutdown"}
	}
	conn, err := dial()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(topics)
	if err != nil {
		conn.close()
		return nil, err
	}
	reply, err := conn.roundTrip(msgSubscribe, payload)
	if err != nil {
		conn.close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	var ack struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(reply, &ack); err != nil || !ack.Success {
		conn.close()
		return nil, fmt.Errorf("subscribe rejected for topics %v", topics)
	}

	events := make(chan Event)
	// Unblock the reader when the context goes away.
	go func() {
		<-ctx.Done()
		conn.close()
	}()
	go func() {
		defer close(events)
		for {
			msgType, payload, err := conn.recv()
			if err != nil {
				if ctx.Err() == nil {
					logger.Warnf("event stream closed: %v", err)
				}
				return
			}
			ev, ok := decodeEvent(msgType, payload, logger, stats)
			if !ok {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

func decodeEvent(msgType uint32, payload []byte, logger *util.Logger, stats EventStats) (Event, bool) {
	skip := func(kind string, err error) (Event, bool) {
		logger.Warnf("skip malformed %s event: %v", kind, err)
		if stats != nil {
			stats.DecodeSkip()
		}
		return Event{}, false
	}
	switch msgType {
	case evWindow:
		var we WindowEvent
		if err := json.Unmarshal(payload, &we); err != nil {
			return skip("window", err)
		}
		return Event{Topic: "window", Window: &we}, true
	case evWorkspace:
		var we WorkspaceEvent
		if err := json.Unmarshal(payload, &we); err != nil {
			return skip("workspace", err)
		}
		return Event{Topic: "workspace", Workspace: &we}, true
	case evShutdown:
		var se ShutdownEvent
		if err := json.Unmarshal(payload, &se); err != nil {
			return skip("shutdown", err)
		}
		return Event{Topic: "shutdown", Shutdown: &se}, true
	default:
		logger.Tracef("ignore event frame type %#x", msgType)
		return Event{}, false
	}
}

package focus

import (
	"context"
	"sync/atomic"
	"time"
)

type msgKind int

const (
	msgFocus msgKind = iota
	msgInhibit
	msgActivate
)

type message struct {
	kind msgKind
	id   int64
}

// Handler debounces focus events before committing them to the history.
// A focus only locks in after the configured delay passes without a newer
// focus, so rapidly cycling through windows does not shuffle the recency
// order. While inhibited (during a client cycle sequence) commits are held
// back entirely and the last seen focus locks in on activation.
type Handler struct {
	data  *Data
	delay atomic.Int64
	msgs  chan message
}

// NewHandler returns a lock-in handler committing into data after delay.
// A zero delay commits every focus immediately.
func NewHandler(data *Data, delay time.Duration) *Handler {
	h := &Handler{data: data, msgs: make(chan message, 16)}
	h.delay.Store(int64(delay))
	return h
}

// SetDelay adjusts the lock-in delay, effective for the next focus.
func (h *Handler) SetDelay(delay time.Duration) {
	h.delay.Store(int64(delay))
}

// Focus reports that the window gained focus.
func (h *Handler) Focus(id int64) {
	h.msgs <- message{kind: msgFocus, id: id}
}

// Inhibit holds back tick commits until Activate.
func (h *Handler) Inhibit() {
	h.msgs <- message{kind: msgInhibit}
}

// Activate ends an inhibited sequence, committing the last seen focus.
func (h *Handler) Activate() {
	h.msgs <- message{kind: msgActivate}
}

// Run processes messages until the context is cancelled. A pending focus is
// committed on shutdown so a quick daemon restart does not lose the last
// switch.
func (h *Handler) Run(ctx context.Context) {
	var (
		pending   int64
		inhibited bool
		timer     *time.Timer
		fire      <-chan time.Time
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
			fire = nil
		}
	}
	commit := func() {
		if pending != 0 {
			h.data.Tick(pending)
			pending = 0
		}
	}
	for {
		select {
		case <-ctx.Done():
			stopTimer()
			commit()
			return
		case <-fire:
			timer = nil
			fire = nil
			if !inhibited {
				commit()
			}
		case msg := <-h.msgs:
			switch msg.kind {
			case msgFocus:
				pending = msg.id
				stopTimer()
				if inhibited {
					continue
				}
				delay := time.Duration(h.delay.Load())
				if delay <= 0 {
					commit()
					continue
				}
				timer = time.NewTimer(delay)
				fire = timer.C
			case msgInhibit:
				inhibited = true
				stopTimer()
			case msgActivate:
				inhibited = false
				stopTimer()
				commit()
			}
		}
	}
}

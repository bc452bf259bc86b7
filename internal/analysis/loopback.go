package analysis

import (
	"context"
	"sync"
	"time"
)

// Loopback is an offline dispatcher for tests and the playback simulator.
// It synthesizes a response for every request after a fixed delay and hands
// it to the registered handler, mimicking the asynchronous response event a
// real backend produces.
type Loopback struct {
	mu      sync.Mutex
	delay   time.Duration
	handler func(Response)
	respond func(Request) Response
	pending map[string]*time.Timer
}

// NewLoopback builds a loopback dispatcher. respond may be nil, in which
// case a minimal successful response echoing the selection is produced.
func NewLoopback(delay time.Duration, respond func(Request) Response) *Loopback {
	if respond == nil {
		respond = func(req Request) Response {
			return Response{
				RequestID: req.RequestID,
				Success:   true,
				Result: map[string]any{
					"text":  req.Text,
					"words": req.Selection.Words,
				},
			}
		}
	}
	return &Loopback{
		delay:   delay,
		respond: respond,
		pending: map[string]*time.Timer{},
	}
}

// OnResponse registers the response event handler.
func (l *Loopback) OnResponse(handler func(Response)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handler = handler
}

// Dispatch schedules a synthesized response. The pending entry lives only
// until the response fires or the request is cancelled.
func (l *Loopback) Dispatch(_ context.Context, req Request) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var timer *time.Timer
	timer = time.AfterFunc(l.delay, func() {
		l.mu.Lock()
		if l.pending[req.RequestID] != timer {
			// Cancelled, or superseded by a re-dispatch of the same id.
			l.mu.Unlock()
			return
		}
		delete(l.pending, req.RequestID)
		handler := l.handler
		l.mu.Unlock()
		if handler != nil {
			handler(l.respond(req))
		}
	})
	l.pending[req.RequestID] = timer
	return nil
}

// Cancel suppresses the response for a pending request id.
func (l *Loopback) Cancel(requestID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if timer, ok := l.pending[requestID]; ok {
		timer.Stop()
		delete(l.pending, requestID)
	}
}

// PendingCount reports the number of scheduled responses.
func (l *Loopback) PendingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

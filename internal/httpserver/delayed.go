package httpserver

import (
	"sync"

	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/value"
)

// delayedResult is what a held request is ultimately resolved with: either
// a successful payload, or a fault.
type delayedResult struct {
	value value.Value
	fault *dispatch.Fault
}

// delayedSender is the transport-side implementation of
// dispatch.DelayedSender: a one-shot channel handed to the broker, with
// delivery becoming a no-op once the request has already been resolved
// once (by a Fire, or by the connection closing) — per §5's "transport
// close invalidates delayed senders, and send becomes a no-op".
type delayedSender struct {
	mu   sync.Mutex
	ch   chan delayedResult
	done bool
}

func newDelayedSender() *delayedSender {
	return &delayedSender{ch: make(chan delayedResult, 1)}
}

func (d *delayedSender) SendSuccess(result value.Value) {
	d.deliver(delayedResult{value: result})
}

func (d *delayedSender) SendFault(fault *dispatch.Fault) {
	d.deliver(delayedResult{fault: fault})
}

func (d *delayedSender) deliver(r delayedResult) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return
	}
	d.done = true
	d.ch <- r
}

// invalidate marks the sender resolved without delivering anything,
// called when the holding request's connection goes away.
func (d *delayedSender) invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.done = true
}

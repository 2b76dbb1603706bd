package dispatch

import (
	"context"
	"sync"

	"github.com/arung-agamani/aimpctl/internal/value"
)

// OutcomeKind distinguishes an immediately-serializable result from one
// whose delivery is deferred to a later event.
type OutcomeKind int

const (
	Immediate OutcomeKind = iota
	Delayed
)

// Outcome is what a Handler returns: either a Value ready for the
// frontend's serializer, or a signal that the reply will arrive later via
// the DelayedSender handed to the handler through Context.
type Outcome struct {
	Kind   OutcomeKind
	Result value.Value
}

// ImmediateResult wraps a Value as an Immediate outcome.
func ImmediateResult(v value.Value) Outcome { return Outcome{Kind: Immediate, Result: v} }

// DelayedOutcome signals that the handler opted into deferred delivery.
func DelayedOutcome() Outcome { return Outcome{Kind: Delayed} }

// DelayedSender is the write-half of a reply channel attached to an
// in-flight request. Send becomes a no-op after the transport closes the
// request (e.g. client disconnect).
type DelayedSender interface {
	SendSuccess(result value.Value)
	SendFault(fault *Fault)
}

// Context carries per-invocation state into a Handler: the raw request
// envelope (for echoing id) and a weak handle to the delayed-sender slot.
// The dispatcher never shares this handle across invocations.
type Context struct {
	ctx     context.Context
	envelope value.Value

	mu     sync.Mutex
	sender DelayedSender
}

// NewContext builds an invocation Context for one dispatch call.
func NewContext(ctx context.Context, envelope value.Value, sender DelayedSender) *Context {
	return &Context{ctx: ctx, envelope: envelope, sender: sender}
}

// Std returns the underlying context.Context for cancellation/deadlines.
func (c *Context) Std() context.Context { return c.ctx }

// Envelope returns the parsed request root (method/params/id).
func (c *Context) Envelope() value.Value { return c.envelope }

// TakeDelayedSender returns this invocation's delayed-sender handle and
// clears it, so retrieving it twice (or after the handler returned) yields
// nothing on the second call.
func (c *Context) TakeDelayedSender() DelayedSender {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.sender
	c.sender = nil
	return s
}

// Handler is a method implementation: it reads params from the envelope
// and returns an Outcome, or an error translated to a Fault by the
// dispatcher.
type Handler func(c *Context, params value.Value) (Outcome, error)

// Registry maps method name to Handler. Names are unique; Register panics
// on a duplicate to catch wiring mistakes at startup, matching the
// teacher's fail-fast posture around static registration.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler under name.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[name]; exists {
		panic("dispatch: duplicate method registration: " + name)
	}
	r.handlers[name] = h
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Invoke looks up method by name in the parsed envelope and runs its
// handler, translating any returned error to a Fault. On method-not-found
// it returns FaultMethodNotFound directly (step 3 of dispatch).
func (r *Registry) Invoke(c *Context, method string, params value.Value) (Outcome, *Fault) {
	h, ok := r.Lookup(method)
	if !ok {
		return Outcome{}, NewFault(FaultMethodNotFound, "unknown method %q", method)
	}
	outcome, err := h(c, params)
	if err != nil {
		return Outcome{}, AsFault(err)
	}
	return outcome, nil
}

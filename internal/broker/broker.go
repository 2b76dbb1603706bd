// Package broker implements the subscription broker: a Comet-style
// long-poll multiplexer. Subscribers submit
// SubscribeOnAIMPStateUpdateEvent{event} and get a Delayed outcome; a
// later internal player event fires the held requests in FIFO
// registration order, once per matching subscription, then removes them.
package broker

import (
	"sync"

	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/value"
)

// External event names recognised by SubscribeOnAIMPStateUpdateEvent.
const (
	EventPlayStateChange         = "play_state_change"
	EventCurrentTrackChange      = "current_track_change"
	EventControlPanelStateChange = "control_panel_state_change"
	EventPlaylistsContentChange  = "playlists_content_change"
)

// subscription is one held request waiting on an external event. Echoing
// the subscribe call's id is the sender's responsibility — it was bound
// to the original request envelope when the transport created it — so the
// broker only needs to hold the sender itself.
type subscription struct {
	sender dispatch.DelayedSender
}

// Broker owns the event -> subscriptions multi-map and the
// aimp_app_is_exiting latch set by AIMP_QUIT.
type Broker struct {
	mu   sync.Mutex
	subs map[string][]subscription

	appExiting bool
}

// New returns an empty Broker.
func New() *Broker {
	return &Broker{subs: make(map[string][]subscription)}
}

// Subscribe records a held subscription for event, preserving FIFO order
// among subscribers of the same event. The subscription is owned by the
// broker until it fires.
func (b *Broker) Subscribe(event string, sender dispatch.DelayedSender) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[event] = append(b.subs[event], subscription{sender: sender})
}

// PayloadBuilder renders the per-event payload once; Fire calls it at most
// once per Fire invocation, then reuses the clone for each recipient so a
// handler mutating its copy cannot affect another recipient's delivery.
type PayloadBuilder func() value.Value

// Fire walks the subscriptions registered for event in FIFO order,
// delivers a cloned payload to each (echoing that subscriber's id), and
// erases them. If the event's aimp_app_is_exiting latch is armed, it is
// attached to the payload and cleared.
func (b *Broker) Fire(event string, build PayloadBuilder) {
	b.mu.Lock()
	pending := b.subs[event]
	delete(b.subs, event)
	exiting := b.appExiting
	if event == EventControlPanelStateChange {
		b.appExiting = false
	}
	b.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	payload := build()
	if exiting && event == EventControlPanelStateChange {
		payload.Set("aimp_app_is_exiting", value.Bool(true))
	}

	for _, sub := range pending {
		sub.sender.SendSuccess(payload.Clone())
	}
}

// LatchAppExiting arms the aimp_app_is_exiting flag, attached to the very
// next control_panel_state_change payload (AIMP_QUIT handling, §4.6).
func (b *Broker) LatchAppExiting() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.appExiting = true
}

// PendingCount returns the number of held subscriptions for event; used by
// tests and diagnostics.
func (b *Broker) PendingCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[event])
}

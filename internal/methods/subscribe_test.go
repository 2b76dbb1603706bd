package methods

import (
	"context"
	"testing"

	"github.com/arung-agamani/aimpctl/internal/broker"
	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/value"
)

func TestSubscribeReturnsDelayedAndFiresOnMatchingEvent(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerSubscribeMethod(reg, deps)

	sender := &capturingSender{}
	c := dispatch.NewContext(context.Background(), value.Object(), sender)

	params := value.Object()
	params.Set("event", value.String(broker.EventPlayStateChange))
	outcome, fault := reg.Invoke(c, "SubscribeOnAIMPStateUpdateEvent", params)
	if fault != nil {
		t.Fatalf("unexpected fault %v", fault)
	}
	if outcome.Kind != dispatch.Delayed {
		t.Fatal("want a Delayed outcome")
	}
	if sender.success.Kind() != value.KindNone {
		t.Fatal("sender should not have been resolved yet")
	}

	deps.Broker.Fire(broker.EventPlayStateChange, func() value.Value {
		out := value.Object()
		out.Set("playback_state", value.String("playing"))
		return out
	})

	state, ok := sender.success.Get("playback_state")
	if !ok {
		t.Fatal("want the held sender to have received a payload after Fire")
	}
	s, _ := state.AsString()
	if s != "playing" {
		t.Fatalf("want playback_state \"playing\", got %q", s)
	}
}

func TestSubscribeRejectsUnknownEvent(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerSubscribeMethod(reg, deps)

	sender := &capturingSender{}
	c := dispatch.NewContext(context.Background(), value.Object(), sender)

	params := value.Object()
	params.Set("event", value.String("not_a_real_event"))
	_, fault := reg.Invoke(c, "SubscribeOnAIMPStateUpdateEvent", params)
	if fault == nil || fault.Code != dispatch.FaultWrongArgument {
		t.Fatalf("want FaultWrongArgument, got %v", fault)
	}
}

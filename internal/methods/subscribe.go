package methods

import (
	"github.com/arung-agamani/aimpctl/internal/broker"
	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/value"
)

func registerSubscribeMethod(reg *dispatch.Registry, deps Deps) {
	reg.Register("SubscribeOnAIMPStateUpdateEvent", subscribeOnAIMPStateUpdateEvent(deps))
}

var validSubscriptionEvents = map[string]bool{
	broker.EventPlayStateChange:         true,
	broker.EventCurrentTrackChange:      true,
	broker.EventControlPanelStateChange: true,
	broker.EventPlaylistsContentChange:  true,
}

// subscribeOnAIMPStateUpdateEvent always returns Delayed: the reply is
// synthesized later by the broker when a matching internal event fires.
func subscribeOnAIMPStateUpdateEvent(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		event := stringField(params, "event", "")
		if !validSubscriptionEvents[event] {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "unknown subscription event %q", event)
		}

		sender := c.TakeDelayedSender()
		if sender == nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultInternal, "no delayed-sender slot available for subscribe")
		}
		deps.Broker.Subscribe(event, sender)
		return dispatch.DelayedOutcome(), nil
	}
}

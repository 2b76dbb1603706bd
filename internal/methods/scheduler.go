package methods

import (
	"time"

	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/scheduler"
	"github.com/arung-agamani/aimpctl/internal/value"
)

func registerSchedulerMethod(reg *dispatch.Registry, deps Deps) {
	reg.Register("Scheduler", schedulerMethod(deps))
}

// schedulerMethod implements the §4.11 set/cancel operations. The response
// always echoes the host's capabilities and, if armed, the current timer.
func schedulerMethod(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		if !deps.Scheduler.Enabled() {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultObjectAccess, "scheduler is disabled")
		}

		switch op := stringField(params, "operation", "get"); op {
		case "set":
			action := scheduler.Action(stringField(params, "action", ""))
			deadline, err := schedulerDeadline(params)
			if err != nil {
				return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "%v", err)
			}
			if err := deps.Scheduler.Set(action, deadline); err != nil {
				return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "%v", err)
			}
		case "cancel":
			deps.Scheduler.Cancel()
		case "get":
			// no-op: fall through to the echoed snapshot below.
		default:
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "unknown scheduler operation %q", op)
		}

		return dispatch.ImmediateResult(schedulerSnapshot(deps.Scheduler)), nil
	}
}

// schedulerDeadline resolves either an absolute expires_at (unix seconds)
// or a relative expires_delay (seconds from now) into an absolute deadline.
func schedulerDeadline(params value.Value) (time.Time, error) {
	if v, ok := params.Get("expires_at"); ok {
		unix, err := v.AsInt()
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(unix, 0), nil
	}
	if v, ok := params.Get("expires_delay"); ok {
		secs, err := v.AsInt()
		if err != nil {
			return time.Time{}, err
		}
		return time.Now().Add(time.Duration(secs) * time.Second), nil
	}
	return time.Time{}, dispatch.NewFault(dispatch.FaultWrongArgument, "expires_at or expires_delay is required")
}

func schedulerSnapshot(s *scheduler.Scheduler) value.Value {
	out := value.Object()
	caps := s.Capabilities()
	out.Set("supports_stop_playback", value.Bool(caps.StopPlayback))
	out.Set("supports_pause_playback", value.Bool(caps.PausePlayback))
	out.Set("supports_machine_shutdown", value.Bool(caps.MachineShutdown))
	out.Set("supports_machine_sleep", value.Bool(caps.MachineSleep))
	out.Set("supports_machine_hibernate", value.Bool(caps.MachineHibernate))

	if armed := s.Armed(); armed != nil {
		out.Set("armed", value.Bool(true))
		out.Set("action", value.String(string(armed.Action)))
		out.Set("expires_at", value.Int(armed.ExpiresAt.Unix()))
	} else {
		out.Set("armed", value.Bool(false))
	}
	return out
}

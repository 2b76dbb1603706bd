package methods

import (
	"fmt"

	"github.com/arung-agamani/aimpctl/internal/broker"
	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/frontend/compat"
	"github.com/arung-agamani/aimpctl/internal/player"
	"github.com/arung-agamani/aimpctl/internal/value"
)

func registerCompatMethod(reg *dispatch.Registry, deps Deps) {
	reg.Register(compat.SyntheticMethod, compatMethod(deps))
}

// compatMethod bridges the query-string dialect's single "action" param
// into the real control surface, returning bare scalars the way the
// legacy web control plugin always did (scenario C: get_volume ⇒ a bare
// string, not an object).
func compatMethod(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		action := stringField(params, "action", "")
		switch action {
		case "get_volume":
			return dispatch.ImmediateResult(value.String(fmt.Sprint(deps.Engine.Status().Volume))), nil

		case "set_volume":
			level := intField(params, "level", -1)
			if level < 0 || level > 100 {
				return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultVolumeRange, "volume %d out of range [0,100]", level)
			}
			if err := deps.Engine.SetVolume(int(level)); err != nil {
				return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultVolumeSet, "%v", err)
			}
			fireEvents(deps, c.Std(), broker.InternalVolume, broker.PlaylistsContentChangeReport{})
			return dispatch.ImmediateResult(value.String(fmt.Sprint(deps.Engine.Status().Volume))), nil

		case "get_player_state":
			return dispatch.ImmediateResult(value.String(string(deps.Engine.Status().PlaybackState))), nil

		case "play":
			if err := deps.Engine.Play(player.TrackDescription{PlaylistID: player.Sentinel, TrackID: player.Sentinel}); err != nil {
				return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultPlaybackFailed, "%v", err)
			}
			return dispatch.ImmediateResult(value.String(string(deps.Engine.Status().PlaybackState))), nil

		case "pause":
			if err := deps.Engine.Pause(); err != nil {
				return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultPlaybackFailed, "%v", err)
			}
			return dispatch.ImmediateResult(value.String(string(deps.Engine.Status().PlaybackState))), nil

		case "stop":
			if err := deps.Engine.Stop(); err != nil {
				return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultPlaybackFailed, "%v", err)
			}
			return dispatch.ImmediateResult(value.String(string(deps.Engine.Status().PlaybackState))), nil

		case "next":
			if err := deps.Engine.PlayNext(); err != nil {
				return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultPlaybackFailed, "%v", err)
			}
			return dispatch.ImmediateResult(value.String(string(deps.Engine.Status().PlaybackState))), nil

		case "prev":
			if err := deps.Engine.PlayPrevious(); err != nil {
				return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultPlaybackFailed, "%v", err)
			}
			return dispatch.ImmediateResult(value.String(string(deps.Engine.Status().PlaybackState))), nil

		default:
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultMethodNotFound, "unknown legacy action %q", action)
		}
	}
}

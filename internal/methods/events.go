package methods

import (
	"context"

	"github.com/arung-agamani/aimpctl/internal/broker"
	"github.com/arung-agamani/aimpctl/internal/player"
	"github.com/arung-agamani/aimpctl/internal/value"
)

// fireEvents translates one internal player/store event into its external
// subscription events (§4.6) and fires each against the broker, rendering
// the matching payload for every fired event name.
func fireEvents(deps Deps, ctx context.Context, internalEvent string, report broker.PlaylistsContentChangeReport) {
	for _, external := range broker.TranslateEvent(internalEvent, report) {
		name := external // capture for the closure
		deps.Broker.Fire(name, func() value.Value { return buildEventPayload(deps, ctx, name) })
	}
}

func buildEventPayload(deps Deps, ctx context.Context, externalEvent string) value.Value {
	switch externalEvent {
	case broker.EventPlayStateChange:
		st := deps.Engine.Status()
		out := value.Object()
		out.Set("playback_state", value.String(string(st.PlaybackState)))
		if st.PlaybackState != player.StateStopped && st.TrackLengthSec > 0 {
			out.Set("track_length", value.Int(int64(st.TrackLengthSec)))
			out.Set("track_position", value.Int(int64(st.TrackPositionSec)))
		}
		return out
	case broker.EventCurrentTrackChange:
		st := deps.Engine.Status()
		out := value.Object()
		out.Set("playlist_id", value.Int(st.Playlist))
		out.Set("track_id", value.Int(st.Track))
		return out
	case broker.EventControlPanelStateChange:
		return controlPanelSnapshot(deps.Engine.Status())
	case broker.EventPlaylistsContentChange:
		return buildPlaylistsContentChangePayload(deps, ctx)
	default:
		return value.Object()
	}
}

func buildPlaylistsContentChangePayload(deps Deps, ctx context.Context) value.Value {
	out := value.Object()
	out.Set("playlists_changed", value.Bool(true))

	rows, err := deps.Store.GetPlaylists(ctx, []string{"id", "crc32"})
	playlists := value.Array()
	if err == nil {
		for _, row := range rows {
			entry := value.Object()
			entry.Set("id", anyToValue(row["id"]))
			entry.Set("crc32", anyToValue(row["crc32"]))
			playlists.Append(entry)
		}
	}
	out.Set("playlists", playlists)
	return out
}

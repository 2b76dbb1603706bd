package methods

import (
	"github.com/arung-agamani/aimpctl/internal/player"
	"github.com/arung-agamani/aimpctl/internal/value"
)

// intField reads an integer params member, tolerating either the Int or
// Uint variant (the JSON-RPC and query-string frontends produce Uint for
// values above the int64 range), and falls back
// to def when absent or the wrong kind.
func intField(params value.Value, key string, def int64) int64 {
	v, ok := params.Get(key)
	if !ok {
		return def
	}
	if i, err := v.AsInt(); err == nil {
		return i
	}
	if u, err := v.AsUint(); err == nil {
		return int64(u)
	}
	return def
}

func stringField(params value.Value, key, def string) string {
	v, ok := params.Get(key)
	if !ok {
		return def
	}
	s, err := v.AsString()
	if err != nil {
		return def
	}
	return s
}

func boolField(params value.Value, key string, def bool) bool {
	v, ok := params.Get(key)
	if !ok {
		return def
	}
	b, err := v.AsBool()
	if err != nil {
		return def
	}
	return b
}

func stringArrayField(params value.Value, key string) ([]string, bool) {
	v, ok := params.Get(key)
	if !ok {
		return nil, false
	}
	items := v.Items()
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, err := it.AsString()
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out, true
}

// trackDescFromParams reads playlist_id/track_id, defaulting each to the
// -1 "currently playing" sentinel when absent.
func trackDescFromParams(params value.Value) player.TrackDescription {
	return player.TrackDescription{
		PlaylistID: intField(params, "playlist_id", player.Sentinel),
		TrackID:    intField(params, "track_id", player.Sentinel),
	}
}

// resolveAgainstStatus absolutises desc's sentinels using the engine's
// current playback state.
func resolveAgainstStatus(desc player.TrackDescription, st player.Status) (player.TrackDescription, error) {
	return player.Resolve(desc, st.Playlist, st.Track, st.PlaybackState != player.StateStopped)
}

// controlPanelSnapshot builds the §4.7 control-panel payload from a
// player.Status.
func controlPanelSnapshot(st player.Status) value.Value {
	out := value.Object()
	out.Set("playback_state", value.String(string(st.PlaybackState)))
	out.Set("playlist_id", value.Int(st.Playlist))
	out.Set("track_id", value.Int(st.Track))
	out.Set("volume", value.Int(int64(st.Volume)))
	out.Set("mute_mode_on", value.Bool(st.MuteModeOn))
	out.Set("repeat_mode_on", value.Bool(st.RepeatModeOn))
	out.Set("shuffle_mode_on", value.Bool(st.ShuffleModeOn))
	out.Set("radio_capture_mode_on", value.Bool(st.RadioCaptureModeOn))
	if st.PlaybackState != player.StateStopped {
		out.Set("track_position", value.Int(int64(st.TrackPositionSec)))
		out.Set("track_length", value.Int(int64(st.TrackLengthSec)))
	}
	if st.CurrentTrackIsRadio {
		out.Set("current_track_source_radio", value.Bool(true))
	}
	return out
}

// rowToValue converts a store-projected row (field name -> driver value)
// into an array (field-list mode) in the caller's requested field order.
func rowToValue(fields []string, row map[string]any) value.Value {
	arr := value.Array()
	for _, f := range fields {
		arr.Append(anyToValue(row[f]))
	}
	return arr
}

func anyToValue(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.Null()
	case int64:
		return value.Int(t)
	case int:
		return value.Int(int64(t))
	case float64:
		return value.Double(t)
	case string:
		return value.String(t)
	case []byte:
		return value.String(string(t))
	case bool:
		return value.Bool(t)
	default:
		return value.Null()
	}
}

func anyToInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	default:
		return 0
	}
}

func anyToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return ""
	}
}

package methods

import (
	"log/slog"
	"os"

	"github.com/arung-agamani/aimpctl/internal/broker"
	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/format"
	"github.com/arung-agamani/aimpctl/internal/player"
	"github.com/arung-agamani/aimpctl/internal/rating"
	"github.com/arung-agamani/aimpctl/internal/store"
	"github.com/arung-agamani/aimpctl/internal/value"
)

func registerControlMethods(reg *dispatch.Registry, deps Deps) {
	reg.Register("Play", playHandler(deps))
	reg.Register("Pause", transportHandler(deps, deps.Engine.Pause, dispatch.FaultPlaybackFailed))
	reg.Register("Stop", transportHandler(deps, deps.Engine.Stop, dispatch.FaultPlaybackFailed))
	reg.Register("PlayPrevious", transportHandler(deps, deps.Engine.PlayPrevious, dispatch.FaultPlaybackFailed))
	reg.Register("PlayNext", transportHandler(deps, deps.Engine.PlayNext, dispatch.FaultPlaybackFailed))

	reg.Register("VolumeLevel", volumeLevel(deps))
	reg.Register("Mute", boolKnob(deps, "mute", broker.InternalMute, func(st player.Status) bool { return st.MuteModeOn },
		deps.Engine.SetMute, dispatch.FaultMute))
	reg.Register("Shuffle", boolKnob(deps, "shuffle", broker.InternalShuffle, func(st player.Status) bool { return st.ShuffleModeOn },
		deps.Engine.SetShuffle, dispatch.FaultShuffle))
	reg.Register("Repeat", boolKnob(deps, "repeat", broker.InternalRepeat, func(st player.Status) bool { return st.RepeatModeOn },
		deps.Engine.SetRepeat, dispatch.FaultRepeat))
	reg.Register("RadioCaptureMode", boolKnob(deps, "radio_capture_mode_on", broker.InternalRadioCapture, func(st player.Status) bool { return st.RadioCaptureModeOn },
		deps.Engine.SetRadioCaptureMode, dispatch.FaultRadioCapture))

	reg.Register("Status", statusMethod(deps))
	reg.Register("GetPlayerControlPanelState", controlPanelState(deps))
	reg.Register("Version", versionMethod(deps))
	reg.Register("PluginCapabilities", pluginCapabilities(deps))

	reg.Register("EnqueueTrack", enqueueTrack(deps))
	reg.Register("RemoveTrackFromPlayQueue", removeTrackFromPlayQueue(deps))
	reg.Register("RemoveTrack", removeTrack(deps))
	reg.Register("QueueTrackMove", queueTrackMove(deps))
	reg.Register("GetFormattedEntryTitle", getFormattedEntryTitle(deps))
	reg.Register("SetTrackRating", setTrackRating(deps))
	reg.Register("AddURLToPlaylist", addURLToPlaylist(deps))
}

// transportResult renders the uniform {playback_state, playlist_id,
// track_id} result every bare transport method returns.
func transportResult(st player.Status) value.Value {
	out := value.Object()
	out.Set("playback_state", value.String(string(st.PlaybackState)))
	out.Set("playlist_id", value.Int(st.Playlist))
	out.Set("track_id", value.Int(st.Track))
	return out
}

func transportHandler(deps Deps, action func() error, onFail dispatch.FaultCode) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		if err := action(); err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(onFail, "%v", err)
		}
		fireEvents(deps, c.Std(), broker.InternalPlayerState, broker.PlaylistsContentChangeReport{})
		return dispatch.ImmediateResult(transportResult(deps.Engine.Status())), nil
	}
}

func playHandler(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		desc := trackDescFromParams(params)
		if err := deps.Engine.Play(desc); err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultPlaybackFailed, "%v", err)
		}
		fireEvents(deps, c.Std(), broker.InternalPlayFile, broker.PlaylistsContentChangeReport{})
		return dispatch.ImmediateResult(transportResult(deps.Engine.Status())), nil
	}
}

func volumeLevel(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		_, hasLevel := params.Get("level")
		if !hasLevel {
			out := value.Object()
			out.Set("volume", value.Int(int64(deps.Engine.Status().Volume)))
			return dispatch.ImmediateResult(out), nil
		}
		level := intField(params, "level", -1)
		if level < 0 || level > 100 {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultVolumeRange, "volume %d out of range [0,100]", level)
		}
		if err := deps.Engine.SetVolume(int(level)); err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultVolumeSet, "%v", err)
		}
		fireEvents(deps, c.Std(), broker.InternalVolume, broker.PlaylistsContentChangeReport{})
		out := value.Object()
		out.Set("volume", value.Int(int64(deps.Engine.Status().Volume)))
		return dispatch.ImmediateResult(out), nil
	}
}

// boolKnob builds a get/set convenience method over one Status boolean,
// per §4.4's "Mute/Shuffle/Repeat/RadioCaptureMode are convenience
// booleans over Status" note.
func boolKnob(deps Deps, resultKey, internalEvent string, read func(player.Status) bool, write func(bool) error, onFail dispatch.FaultCode) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		if v, ok := params.Get("value"); ok {
			on, err := v.AsBool()
			if err != nil {
				return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "value must be a bool")
			}
			if err := write(on); err != nil {
				return dispatch.Outcome{}, dispatch.NewFault(onFail, "%v", err)
			}
			fireEvents(deps, c.Std(), internalEvent, broker.PlaylistsContentChangeReport{})
		}
		out := value.Object()
		out.Set(resultKey, value.Bool(read(deps.Engine.Status())))
		return dispatch.ImmediateResult(out), nil
	}
}

// statusCode identifies one numeric-keyed Status knob. Mirrors the
// original control surface's STATUS_* catalog; window-handle codes are
// never exposed (blacklisted per §4.4).
type statusCode int64

const (
	statusPlayerState statusCode = 1
	statusVolume      statusCode = 2
	statusMute        statusCode = 6
	statusPosition    statusCode = 22
	statusLength      statusCode = 23
	statusRepeat      statusCode = 20
	statusShuffle     statusCode = 28
	statusRadioCap    statusCode = 33
)

var statusBlacklist = map[statusCode]bool{
	34: true, // main window handle
	35: true, // playlist window handle
}

func statusMethod(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		code := statusCode(intField(params, "id", 0))
		if statusBlacklist[code] {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultObjectAccess, "status code %d is not exposed remotely", code)
		}

		if v, hasValue := params.Get("value"); hasValue {
			if err := setStatus(deps, code, v); err != nil {
				return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultStatusSet, "%v", err)
			}
			fireEvents(deps, c.Std(), statusInternalEvent(code), broker.PlaylistsContentChangeReport{})
		}

		st := deps.Engine.Status()
		result, err := getStatus(code, st)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "%v", err)
		}
		out := value.Object()
		out.Set("value", result)
		return dispatch.ImmediateResult(out), nil
	}
}

func getStatus(code statusCode, st player.Status) (value.Value, error) {
	switch code {
	case statusPlayerState:
		n := int64(0)
		switch st.PlaybackState {
		case player.StatePlaying:
			n = 1
		case player.StatePaused:
			n = 2
		}
		return value.Int(n), nil
	case statusVolume:
		return value.Int(int64(st.Volume)), nil
	case statusMute:
		return value.Bool(st.MuteModeOn), nil
	case statusPosition:
		return value.Int(int64(st.TrackPositionSec)), nil
	case statusLength:
		return value.Int(int64(st.TrackLengthSec)), nil
	case statusRepeat:
		return value.Bool(st.RepeatModeOn), nil
	case statusShuffle:
		return value.Bool(st.ShuffleModeOn), nil
	case statusRadioCap:
		return value.Bool(st.RadioCaptureModeOn), nil
	default:
		return value.Value{}, dispatch.NewFault(dispatch.FaultWrongArgument, "unknown status code %d", code)
	}
}

func setStatus(deps Deps, code statusCode, v value.Value) error {
	switch code {
	case statusVolume:
		level, err := v.AsInt()
		if err != nil {
			return err
		}
		return deps.Engine.SetVolume(int(level))
	case statusMute:
		on, err := v.AsBool()
		if err != nil {
			return err
		}
		return deps.Engine.SetMute(on)
	case statusRepeat:
		on, err := v.AsBool()
		if err != nil {
			return err
		}
		return deps.Engine.SetRepeat(on)
	case statusShuffle:
		on, err := v.AsBool()
		if err != nil {
			return err
		}
		return deps.Engine.SetShuffle(on)
	case statusRadioCap:
		on, err := v.AsBool()
		if err != nil {
			return err
		}
		return deps.Engine.SetRadioCaptureMode(on)
	default:
		return dispatch.NewFault(dispatch.FaultWrongArgument, "status code %d is not settable", code)
	}
}

// statusInternalEvent maps a settable status code to the internal event
// fired on a successful write, mirroring the dedicated convenience
// methods' event choices for the same underlying knob.
func statusInternalEvent(code statusCode) string {
	switch code {
	case statusVolume:
		return broker.InternalVolume
	case statusMute:
		return broker.InternalMute
	case statusRepeat:
		return broker.InternalRepeat
	case statusShuffle:
		return broker.InternalShuffle
	case statusRadioCap:
		return broker.InternalRadioCapture
	default:
		return ""
	}
}

func controlPanelState(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		return dispatch.ImmediateResult(controlPanelSnapshot(deps.Engine.Status())), nil
	}
}

func versionMethod(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		out := value.Object()
		out.Set("version", value.String("aimpctl/1.0"))
		return dispatch.ImmediateResult(out), nil
	}
}

func pluginCapabilities(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		caps := deps.Engine.Capabilities()
		out := value.Object()
		out.Set("supports_volume", value.Bool(caps.SupportsVolume))
		out.Set("supports_mute", value.Bool(caps.SupportsMute))
		out.Set("supports_shuffle", value.Bool(caps.SupportsShuffle))
		out.Set("supports_repeat", value.Bool(caps.SupportsRepeat))
		out.Set("supports_radio_capture", value.Bool(caps.SupportsRadioCapture))
		out.Set("supports_track_upload", value.Bool(true))
		out.Set("supports_physical_track_deletion", value.Bool(deps.EnablePhysicalTrackDeletion))
		return dispatch.ImmediateResult(out), nil
	}
}

func enqueueTrack(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		desc, err := resolveAgainstStatus(trackDescFromParams(params), deps.Engine.Status())
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultTrackNotFound, "%v", err)
		}
		insertAtBeginning := boolField(params, "insert_at_queue_beginning", false)
		if err := deps.Store.EnqueueEntry(c.Std(), desc.PlaylistID, desc.TrackID, insertAtBeginning); err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultEnqueue, "%v", err)
		}
		fireEvents(deps, c.Std(), broker.InternalPlaylistsContentChange, broker.PlaylistsContentChangeReport{})
		out := value.Object()
		out.Set("playlist_id", value.Int(desc.PlaylistID))
		out.Set("track_id", value.Int(desc.TrackID))
		return dispatch.ImmediateResult(out), nil
	}
}

func removeTrackFromPlayQueue(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		desc := trackDescFromParams(params)
		if err := deps.Store.RemoveFromQueue(c.Std(), desc.PlaylistID, desc.TrackID); err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultDequeue, "%v", err)
		}
		fireEvents(deps, c.Std(), broker.InternalPlaylistsContentChange, broker.PlaylistsContentChangeReport{})
		return dispatch.ImmediateResult(value.Object()), nil
	}
}

// removeTrack implements RemoveTrack: deletes an entry outright (distinct
// from RemoveTrackFromPlayQueue, which only drops it from the play queue).
// physically additionally unlinks the backing file, gated by
// misc.enable_physical_track_deletion.
func removeTrack(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		physically := boolField(params, "physically", false)
		if physically && !deps.EnablePhysicalTrackDeletion {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultRemoveTrackDisabled, "physical track deletion is disabled")
		}

		desc, err := resolveAgainstStatus(trackDescFromParams(params), deps.Engine.Status())
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultTrackNotFound, "%v", err)
		}

		row, found, err := deps.Store.GetPlaylistEntryInfo(c.Std(), desc.PlaylistID, desc.TrackID)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultRemoveTrack, "%v", err)
		}
		if !found {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultTrackNotFound, "no such entry (%d, %d)", desc.PlaylistID, desc.TrackID)
		}

		if err := deps.Store.RemoveEntryFromPlaylist(c.Std(), desc.PlaylistID, desc.TrackID); err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultRemoveTrack, "%v", err)
		}

		if physically {
			filename := anyToString(row["filename"])
			if err := os.Remove(filename); err != nil && !os.IsNotExist(err) {
				slog.Warn("remove_track: physical deletion failed", "filename", filename, "error", err)
			}
		}

		fireEvents(deps, c.Std(), broker.InternalPlaylistsContentChange, broker.PlaylistsContentChangeReport{})
		return dispatch.ImmediateResult(value.Object()), nil
	}
}

// queueTrackMove accepts either (track_desc, new_queue_index) or
// (old_queue_index, new_queue_index) per §4.4.
func queueTrackMove(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		newIndex := intField(params, "new_queue_index", -1)
		if newIndex < 0 {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "new_queue_index is required")
		}

		var oldIndex int64
		if _, hasOld := params.Get("old_queue_index"); hasOld {
			oldIndex = intField(params, "old_queue_index", -1)
		} else {
			desc := trackDescFromParams(params)
			idx, err := deps.Store.FindQueueIndex(c.Std(), desc.PlaylistID, desc.TrackID)
			if err != nil {
				return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultMoveInQueue, "%v", err)
			}
			oldIndex = idx
		}

		if err := deps.Store.MoveInQueue(c.Std(), oldIndex, newIndex); err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultMoveInQueue, "%v", err)
		}
		fireEvents(deps, c.Std(), broker.InternalPlaylistsContentChange, broker.PlaylistsContentChangeReport{})
		return dispatch.ImmediateResult(value.Object()), nil
	}
}

func getFormattedEntryTitle(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		desc, err := resolveAgainstStatus(trackDescFromParams(params), deps.Engine.Status())
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultTrackNotFound, "%v", err)
		}
		formatString := stringField(params, "format_string", "%a - %T")

		row, found, err := deps.Store.GetPlaylistEntryInfo(c.Std(), desc.PlaylistID, desc.TrackID)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultInternal, "%v", err)
		}
		if !found {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultTrackNotFound, "no such entry (%d, %d)", desc.PlaylistID, desc.TrackID)
		}

		fields := format.FieldsFromEntry(
			anyToString(row["album"]), anyToString(row["artist"]), anyToString(row["date"]),
			anyToString(row["filename"]), anyToString(row["genre"]), anyToString(row["title"]),
			anyToInt64(row["bitrate"]), 0, anyToInt64(row["duration"]), anyToInt64(row["filesize"]),
			anyToInt64(row["rating"]), 0,
		)
		rendered, err := format.Render(formatString, fields)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "%v", err)
		}
		return dispatch.ImmediateResult(value.String(rendered)), nil
	}
}

func setTrackRating(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		desc, err := resolveAgainstStatus(trackDescFromParams(params), deps.Engine.Status())
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultTrackNotFound, "%v", err)
		}
		stars := rating.Clamp(intField(params, "rating", 0))

		row, found, err := deps.Store.GetPlaylistEntryInfo(c.Std(), desc.PlaylistID, desc.TrackID)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultInternal, "%v", err)
		}
		if !found {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultTrackNotFound, "no such entry (%d, %d)", desc.PlaylistID, desc.TrackID)
		}

		if err := deps.Rating.SetRating(desc.PlaylistID, desc.TrackID, anyToString(row["filename"]), stars); err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultRatingSet, "%v", err)
		}
		if err := deps.Store.SetEntryRating(c.Std(), desc.PlaylistID, desc.TrackID, stars); err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultRatingSet, "%v", err)
		}
		fireEvents(deps, c.Std(), broker.InternalPlaylistsContentChange, broker.PlaylistsContentChangeReport{})
		return dispatch.ImmediateResult(value.Object()), nil
	}
}

func addURLToPlaylist(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		url := stringField(params, "url", "")
		if url == "" {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultWrongArgument, "url is required")
		}
		playlistID := intField(params, "playlist_id", player.Sentinel)
		if playlistID == player.Sentinel {
			playlistID = deps.Engine.Status().Playlist
		}

		entryID, err := deps.Store.AddEntryToPlaylist(c.Std(), playlistID, store.NewEntry{
			Title:    url,
			Filename: url,
		})
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultAddURL, "%v", err)
		}
		fireEvents(deps, c.Std(), broker.InternalPlaylistsContentChange, broker.PlaylistsContentChangeReport{})
		out := value.Object()
		out.Set("playlist_id", value.Int(playlistID))
		out.Set("track_id", value.Int(entryID))
		return dispatch.ImmediateResult(out), nil
	}
}

package broker

// Internal player event names the Broker consumes before translating to
// the external event names subscribers see (§4.6).
const (
	InternalTrackPosChanged            = "TRACK_POS_CHANGED"
	InternalPlayFile                   = "PLAY_FILE"
	InternalPlayerState                = "PLAYER_STATE"
	InternalPlaylistsContentChange     = "PLAYLISTS_CONTENT_CHANGE"
	InternalTrackProgressChangedDirect = "TRACK_PROGRESS_CHANGED_DIRECTLY"
	InternalAIMPQuit                   = "AIMP_QUIT"
	InternalVolume                     = "VOLUME"
	InternalMute                       = "MUTE"
	InternalShuffle                    = "SHUFFLE"
	InternalRepeat                     = "REPEAT"
	InternalRadioCapture               = "RADIO_CAPTURE"
)

// PlaylistsContentChangeReport is the payload accompanying an internal
// PLAYLISTS_CONTENT_CHANGE event, carrying the facts the length==0
// heuristic needs.
type PlaylistsContentChangeReport struct {
	PlaybackStopped bool
	Length          int
}

// TranslateEvent maps one internal event name to the external event names
// it fires, per §4.6's table. report is only consulted for
// PLAYLISTS_CONTENT_CHANGE; pass the zero value otherwise.
func TranslateEvent(internal string, report PlaylistsContentChangeReport) []string {
	switch internal {
	case InternalTrackPosChanged:
		return []string{EventControlPanelStateChange}
	case InternalPlayFile:
		return []string{EventCurrentTrackChange, EventControlPanelStateChange}
	case InternalPlayerState:
		return []string{EventPlayStateChange, EventControlPanelStateChange}
	case InternalPlaylistsContentChange:
		out := []string{EventPlaylistsContentChange}
		// Heuristic for "track change on a radio stream": a non-stopped
		// report with length == 0 is interpreted as a live stream title
		// switch rather than a true content change. Flagged as an open
		// question in the design notes; implemented exactly as specified
		// pending validation against real player behavior.
		if !report.PlaybackStopped && report.Length == 0 {
			out = append(out, EventCurrentTrackChange, EventControlPanelStateChange)
		}
		return out
	case InternalTrackProgressChangedDirect:
		return []string{EventPlayStateChange}
	case InternalVolume, InternalMute, InternalShuffle, InternalRepeat, InternalRadioCapture:
		return []string{EventControlPanelStateChange}
	default:
		return nil
	}
}

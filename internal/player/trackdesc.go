package player

import "fmt"

// Sentinel is the reserved -1 value meaning "currently playing
// playlist/track", resolved to a concrete id before use.
const Sentinel = -1

// TrackDescription is the (playlist_id, track_id) pair identifying a
// track, per §3. Ordering is lexicographic on (PlaylistID, TrackID).
type TrackDescription struct {
	PlaylistID int64
	TrackID    int64
}

// Less implements the lexicographic ordering §3 specifies.
func (d TrackDescription) Less(other TrackDescription) bool {
	if d.PlaylistID != other.PlaylistID {
		return d.PlaylistID < other.PlaylistID
	}
	return d.TrackID < other.TrackID
}

// Resolve replaces any -1 sentinel in d with the currently-playing
// playlist/track id, failing if nothing is playing.
func Resolve(d TrackDescription, currentPlaylist, currentTrack int64, isPlaying bool) (TrackDescription, error) {
	out := d
	if out.PlaylistID == Sentinel {
		if !isPlaying {
			return TrackDescription{}, fmt.Errorf("player: cannot resolve playing playlist: nothing is playing")
		}
		out.PlaylistID = currentPlaylist
	}
	if out.TrackID == Sentinel {
		if !isPlaying {
			return TrackDescription{}, fmt.Errorf("player: cannot resolve playing track: nothing is playing")
		}
		out.TrackID = currentTrack
	}
	return out, nil
}

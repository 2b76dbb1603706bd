// Package player defines the out-of-scope player-engine collaborator as an
// interface, plus an in-process reference implementation used when no real
// playback backend is wired. Grounded on the teacher's Broadcaster
// (current-track atomic state, start/skip bookkeeping), reinterpreted as a
// playback state machine rather than an audio pipeline — actual decoding
// is explicitly out of scope (spec.md §1).
package player

import (
	"fmt"
	"sync"
)

// PlaybackState mirrors the player's playback_state values.
type PlaybackState string

const (
	StatePlaying PlaybackState = "playing"
	StatePaused  PlaybackState = "paused"
	StateStopped PlaybackState = "stopped"
)

// Status is a read of every control-panel-relevant knob, assembled into
// the §4.7 snapshot by the methods layer.
type Status struct {
	PlaybackState      PlaybackState
	TrackPositionSec    int
	TrackLengthSec      int
	Playlist            int64
	Track                int64
	Volume               int
	MuteModeOn           bool
	RepeatModeOn         bool
	ShuffleModeOn        bool
	RadioCaptureModeOn   bool
	CurrentTrackIsRadio  bool
}

// Capabilities reports which STATUS_* knobs the engine supports (some are
// blacklisted window-handle values per §4.4, never exposed remotely).
type Capabilities struct {
	SupportsVolume        bool
	SupportsMute          bool
	SupportsShuffle       bool
	SupportsRepeat        bool
	SupportsRadioCapture  bool
}

// Engine is the out-of-scope collaborator: real playback bindings. The
// reference implementation below satisfies it for development/testing.
type Engine interface {
	Play(desc TrackDescription) error
	Pause() error
	Stop() error
	PlayPrevious() error
	PlayNext() error
	Status() Status
	SetVolume(level int) error
	SetMute(on bool) error
	SetShuffle(on bool) error
	SetRepeat(on bool) error
	SetRadioCaptureMode(on bool) error
	Capabilities() Capabilities
}

// ReferenceEngine is a minimal in-process Engine: no real audio I/O, just
// the state transitions the control methods require. Every mutation goes
// through mu, matching the spec's single-threaded event loop semantics.
type ReferenceEngine struct {
	mu sync.Mutex

	state   PlaybackState
	pos     int
	length  int
	pl, trk int64

	volume  int
	mute    bool
	shuffle bool
	repeat  bool
	radio   bool
}

// NewReferenceEngine returns a stopped, default-volume engine.
func NewReferenceEngine() *ReferenceEngine {
	return &ReferenceEngine{state: StateStopped, volume: 50}
}

func (e *ReferenceEngine) Play(desc TrackDescription) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if desc.PlaylistID == Sentinel || desc.TrackID == Sentinel {
		if e.state == StateStopped {
			return fmt.Errorf("player: cannot resume playback, nothing is playing")
		}
		e.state = StatePlaying
		return nil
	}
	e.pl, e.trk = desc.PlaylistID, desc.TrackID
	e.state = StatePlaying
	e.pos = 0
	return nil
}

func (e *ReferenceEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateStopped {
		return fmt.Errorf("player: cannot pause, nothing is playing")
	}
	e.state = StatePaused
	return nil
}

func (e *ReferenceEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateStopped
	e.pos = 0
	return nil
}

func (e *ReferenceEngine) PlayPrevious() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateStopped {
		return fmt.Errorf("player: no track to step from")
	}
	e.trk--
	e.pos = 0
	return nil
}

func (e *ReferenceEngine) PlayNext() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateStopped {
		return fmt.Errorf("player: no track to step from")
	}
	e.trk++
	e.pos = 0
	return nil
}

func (e *ReferenceEngine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		PlaybackState:     e.state,
		TrackPositionSec:  e.pos,
		TrackLengthSec:    e.length,
		Playlist:          e.pl,
		Track:             e.trk,
		Volume:            e.volume,
		MuteModeOn:        e.mute,
		RepeatModeOn:      e.repeat,
		ShuffleModeOn:     e.shuffle,
		RadioCaptureModeOn: e.radio,
	}
}

func (e *ReferenceEngine) SetVolume(level int) error {
	if level < 0 || level > 100 {
		return fmt.Errorf("player: volume %d out of range", level)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = level
	return nil
}

func (e *ReferenceEngine) SetMute(on bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mute = on
	return nil
}

func (e *ReferenceEngine) SetShuffle(on bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shuffle = on
	return nil
}

func (e *ReferenceEngine) SetRepeat(on bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.repeat = on
	return nil
}

func (e *ReferenceEngine) SetRadioCaptureMode(on bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.radio = on
	return nil
}

func (e *ReferenceEngine) Capabilities() Capabilities {
	return Capabilities{
		SupportsVolume:       true,
		SupportsMute:         true,
		SupportsShuffle:      true,
		SupportsRepeat:       true,
		SupportsRadioCapture: true,
	}
}

package methods

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arung-agamani/aimpctl/internal/broker"
	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/player"
	"github.com/arung-agamani/aimpctl/internal/rating"
	"github.com/arung-agamani/aimpctl/internal/store"
	"github.com/arung-agamani/aimpctl/internal/value"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return Deps{
		Store:  s,
		Engine: player.NewReferenceEngine(),
		Broker: broker.New(),
		Rating: rating.New(nil, filepath.Join(t.TempDir(), "ratings.txt")),
	}
}

func invoke(t *testing.T, reg *dispatch.Registry, method string, params value.Value) (dispatch.Outcome, *dispatch.Fault) {
	t.Helper()
	sender := &capturingSender{}
	c := dispatch.NewContext(context.Background(), value.Object(), sender)
	return reg.Invoke(c, method, params)
}

type capturingSender struct {
	success value.Value
	fault   *dispatch.Fault
}

func (s *capturingSender) SendSuccess(v value.Value)   { s.success = v }
func (s *capturingSender) SendFault(f *dispatch.Fault) { s.fault = f }

func TestPlayThenStatusReflectsPlayback(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerControlMethods(reg, deps)

	params := value.Object()
	params.Set("playlist_id", value.Int(1))
	params.Set("track_id", value.Int(1))

	outcome, fault := invoke(t, reg, "Play", params)
	if fault != nil {
		t.Fatalf("Play: unexpected fault %v", fault)
	}
	state, _ := outcome.Result.Get("playback_state")
	s, _ := state.AsString()
	if s != string(player.StatePlaying) {
		t.Fatalf("want playing, got %q", s)
	}

	statusParams := value.Object()
	statusParams.Set("id", value.Int(int64(statusPlayerState)))
	outcome, fault = invoke(t, reg, "Status", statusParams)
	if fault != nil {
		t.Fatalf("Status: unexpected fault %v", fault)
	}
	v, _ := outcome.Result.Get("value")
	n, _ := v.AsInt()
	if n != 1 {
		t.Fatalf("want player_state 1 (playing), got %d", n)
	}
}

func TestVolumeLevelGetAndSet(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerControlMethods(reg, deps)

	outcome, fault := invoke(t, reg, "VolumeLevel", value.Object())
	if fault != nil {
		t.Fatalf("get: unexpected fault %v", fault)
	}
	v, _ := outcome.Result.Get("volume")
	got, _ := v.AsInt()
	if got != 50 {
		t.Fatalf("want default volume 50, got %d", got)
	}

	params := value.Object()
	params.Set("level", value.Int(75))
	outcome, fault = invoke(t, reg, "VolumeLevel", params)
	if fault != nil {
		t.Fatalf("set: unexpected fault %v", fault)
	}
	v, _ = outcome.Result.Get("volume")
	got, _ = v.AsInt()
	if got != 75 {
		t.Fatalf("want volume 75 after set, got %d", got)
	}
}

func TestVolumeLevelRejectsOutOfRange(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerControlMethods(reg, deps)

	params := value.Object()
	params.Set("level", value.Int(150))
	_, fault := invoke(t, reg, "VolumeLevel", params)
	if fault == nil {
		t.Fatal("want fault for out-of-range volume")
	}
	if fault.Code != dispatch.FaultVolumeRange {
		t.Fatalf("want FaultVolumeRange, got %v", fault.Code)
	}
}

func TestMuteKnobTogglesAndReportsState(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerControlMethods(reg, deps)

	params := value.Object()
	params.Set("value", value.Bool(true))
	outcome, fault := invoke(t, reg, "Mute", params)
	if fault != nil {
		t.Fatalf("unexpected fault %v", fault)
	}
	v, _ := outcome.Result.Get("mute")
	on, _ := v.AsBool()
	if !on {
		t.Fatal("want mute true")
	}
}

func TestEnqueueTrackEchoesEnqueuedTrackID(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerControlMethods(reg, deps)

	ctx := context.Background()
	pid, err := deps.Store.CreatePlaylist(ctx, "List")
	if err != nil {
		t.Fatal(err)
	}
	eid, err := deps.Store.AddEntryToPlaylist(ctx, pid, store.NewEntry{Title: "Song"})
	if err != nil {
		t.Fatal(err)
	}

	params := value.Object()
	params.Set("playlist_id", value.Int(pid))
	params.Set("track_id", value.Int(eid))
	outcome, fault := invoke(t, reg, "EnqueueTrack", params)
	if fault != nil {
		t.Fatalf("unexpected fault %v", fault)
	}
	got, _ := outcome.Result.Get("track_id")
	n, _ := got.AsInt()
	if n != eid {
		t.Fatalf("want track_id %d, got %d", eid, n)
	}
}

func TestSetTrackRatingClampsAndPersists(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerControlMethods(reg, deps)

	ctx := context.Background()
	pid, _ := deps.Store.CreatePlaylist(ctx, "List")
	eid, _ := deps.Store.AddEntryToPlaylist(ctx, pid, store.NewEntry{Title: "Song", Filename: "song.mp3"})

	params := value.Object()
	params.Set("playlist_id", value.Int(pid))
	params.Set("track_id", value.Int(eid))
	params.Set("rating", value.Int(9))
	_, fault := invoke(t, reg, "SetTrackRating", params)
	if fault != nil {
		t.Fatalf("unexpected fault %v", fault)
	}

	row, found, err := deps.Store.GetPlaylistEntryInfo(ctx, pid, eid)
	if err != nil || !found {
		t.Fatalf("entry lookup failed: found=%v err=%v", found, err)
	}
	if row["rating"].(int64) != 5 {
		t.Fatalf("want rating clamped to 5, got %v", row["rating"])
	}
}

func TestRemoveTrackDeletesEntryWithoutDeletingFile(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerControlMethods(reg, deps)

	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	pid, _ := deps.Store.CreatePlaylist(ctx, "List")
	eid, _ := deps.Store.AddEntryToPlaylist(ctx, pid, store.NewEntry{Title: "Song", Filename: path})

	params := value.Object()
	params.Set("playlist_id", value.Int(pid))
	params.Set("track_id", value.Int(eid))
	_, fault := invoke(t, reg, "RemoveTrack", params)
	if fault != nil {
		t.Fatalf("unexpected fault %v", fault)
	}

	if _, found, err := deps.Store.GetPlaylistEntryInfo(ctx, pid, eid); err != nil || found {
		t.Fatalf("want entry removed, found=%v err=%v", found, err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("want file left on disk when physically is not set, stat err=%v", err)
	}
}

func TestRemoveTrackPhysicallyDeletesFileWhenEnabled(t *testing.T) {
	deps := testDeps(t)
	deps.EnablePhysicalTrackDeletion = true
	reg := dispatch.NewRegistry()
	registerControlMethods(reg, deps)

	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "song.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	pid, _ := deps.Store.CreatePlaylist(ctx, "List")
	eid, _ := deps.Store.AddEntryToPlaylist(ctx, pid, store.NewEntry{Title: "Song", Filename: path})

	params := value.Object()
	params.Set("playlist_id", value.Int(pid))
	params.Set("track_id", value.Int(eid))
	params.Set("physically", value.Bool(true))
	_, fault := invoke(t, reg, "RemoveTrack", params)
	if fault != nil {
		t.Fatalf("unexpected fault %v", fault)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("want file removed from disk, stat err=%v", err)
	}
}

func TestRemoveTrackPhysicallyFaultsWhenDisabled(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerControlMethods(reg, deps)

	ctx := context.Background()
	pid, _ := deps.Store.CreatePlaylist(ctx, "List")
	eid, _ := deps.Store.AddEntryToPlaylist(ctx, pid, store.NewEntry{Title: "Song", Filename: "song.mp3"})

	params := value.Object()
	params.Set("playlist_id", value.Int(pid))
	params.Set("track_id", value.Int(eid))
	params.Set("physically", value.Bool(true))
	_, fault := invoke(t, reg, "RemoveTrack", params)
	if fault == nil || fault.Code != dispatch.FaultRemoveTrackDisabled {
		t.Fatalf("want FaultRemoveTrackDisabled, got %v", fault)
	}
}

package player

import "testing"

func TestResolveSubstitutesSentinelsWhenPlaying(t *testing.T) {
	d := TrackDescription{PlaylistID: Sentinel, TrackID: Sentinel}
	got, err := Resolve(d, 4, 9, true)
	if err != nil {
		t.Fatal(err)
	}
	if got != (TrackDescription{PlaylistID: 4, TrackID: 9}) {
		t.Fatalf("want (4, 9), got %+v", got)
	}
}

func TestResolveFailsWhenNothingPlaying(t *testing.T) {
	d := TrackDescription{PlaylistID: Sentinel, TrackID: 1}
	if _, err := Resolve(d, 4, 9, false); err == nil {
		t.Fatal("want an error when the playlist sentinel can't be resolved")
	}
}

func TestResolveLeavesExplicitValuesAlone(t *testing.T) {
	d := TrackDescription{PlaylistID: 2, TrackID: 3}
	got, err := Resolve(d, 4, 9, false)
	if err != nil {
		t.Fatal(err)
	}
	if got != d {
		t.Fatalf("want explicit values untouched, got %+v", got)
	}
}

func TestTrackDescriptionLessIsLexicographic(t *testing.T) {
	a := TrackDescription{PlaylistID: 1, TrackID: 5}
	b := TrackDescription{PlaylistID: 1, TrackID: 6}
	c := TrackDescription{PlaylistID: 2, TrackID: 0}

	if !a.Less(b) {
		t.Fatal("want a < b on track id")
	}
	if !b.Less(c) {
		t.Fatal("want b < c on playlist id")
	}
	if c.Less(a) {
		t.Fatal("want c not less than a")
	}
}

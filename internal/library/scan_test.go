package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arung-agamani/aimpctl/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSeedDefaultPlaylistAddsFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"song.mp3", "notes.txt", "another.flac"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("not real audio"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ctx := context.Background()
	s := testStore(t)

	if err := SeedDefaultPlaylist(ctx, s, dir); err != nil {
		t.Fatalf("seed: %v", err)
	}

	playlists, err := s.GetPlaylists(ctx, []string{"id", "title", "entries_count"})
	if err != nil {
		t.Fatal(err)
	}
	if len(playlists) != 1 {
		t.Fatalf("want exactly 1 playlist, got %d", len(playlists))
	}
	if playlists[0]["entries_count"].(int64) != 2 {
		t.Fatalf("want 2 audio entries (txt skipped), got %v", playlists[0]["entries_count"])
	}
}

func TestSeedDefaultPlaylistSkipsWhenPlaylistsExist(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "song.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	s := testStore(t)
	if _, err := s.CreatePlaylist(ctx, "Existing"); err != nil {
		t.Fatal(err)
	}

	if err := SeedDefaultPlaylist(ctx, s, dir); err != nil {
		t.Fatalf("seed: %v", err)
	}

	playlists, err := s.GetPlaylists(ctx, []string{"id"})
	if err != nil {
		t.Fatal(err)
	}
	if len(playlists) != 1 {
		t.Fatalf("want untouched single existing playlist, got %d", len(playlists))
	}
}

func TestSeedDefaultPlaylistNoFilesIsNotAnError(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)
	if err := SeedDefaultPlaylist(ctx, s, t.TempDir()); err != nil {
		t.Fatalf("want no error for an empty music dir, got %v", err)
	}
	playlists, err := s.GetPlaylists(ctx, []string{"id"})
	if err != nil {
		t.Fatal(err)
	}
	if len(playlists) != 0 {
		t.Fatalf("want no playlist created, got %d", len(playlists))
	}
}

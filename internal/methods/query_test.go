package methods

import (
	"context"
	"testing"

	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/store"
	"github.com/arung-agamani/aimpctl/internal/value"
)

func TestGetPlaylistsReturnsDefaultFields(t *testing.T) {
	deps := testDeps(t)
	ctx := context.Background()
	if _, err := deps.Store.CreatePlaylist(ctx, "Alpha"); err != nil {
		t.Fatal(err)
	}

	reg := dispatch.NewRegistry()
	registerQueryMethods(reg, deps)

	outcome, fault := invoke(t, reg, "GetPlaylists", value.Object())
	if fault != nil {
		t.Fatalf("unexpected fault %v", fault)
	}
	if outcome.Result.Len() != 1 {
		t.Fatalf("want 1 playlist, got %d", outcome.Result.Len())
	}
	first, err := outcome.Result.At(0)
	if err != nil {
		t.Fatal(err)
	}
	title, ok := first.Get("title")
	if !ok {
		t.Fatal("want a title field in the default projection")
	}
	s, _ := title.AsString()
	if s != "Alpha" {
		t.Fatalf("want title \"Alpha\", got %q", s)
	}
}

func TestGetPlaylistEntriesAppliesSearchFilter(t *testing.T) {
	deps := testDeps(t)
	ctx := context.Background()
	pid, err := deps.Store.CreatePlaylist(ctx, "List")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := deps.Store.AddEntryToPlaylist(ctx, pid, store.NewEntry{Title: "Sunrise", Artist: "Band A"}); err != nil {
		t.Fatal(err)
	}
	if _, err := deps.Store.AddEntryToPlaylist(ctx, pid, store.NewEntry{Title: "Sunset", Artist: "Band B"}); err != nil {
		t.Fatal(err)
	}

	reg := dispatch.NewRegistry()
	registerQueryMethods(reg, deps)

	params := value.Object()
	params.Set("playlist_id", value.Int(pid))
	params.Set("search_string", value.String("Band A"))
	outcome, fault := invoke(t, reg, "GetPlaylistEntries", params)
	if fault != nil {
		t.Fatalf("unexpected fault %v", fault)
	}
	count, _ := outcome.Result.Get("count_of_found_entries")
	n, _ := count.AsInt()
	if n != 1 {
		t.Fatalf("want exactly 1 matching entry, got %d", n)
	}
}

func TestGetPlaylistEntriesFaultsWithNoCurrentPlaylist(t *testing.T) {
	deps := testDeps(t)
	reg := dispatch.NewRegistry()
	registerQueryMethods(reg, deps)

	_, fault := invoke(t, reg, "GetPlaylistEntries", value.Object())
	if fault == nil || fault.Code != dispatch.FaultPlaylistNotFound {
		t.Fatalf("want FaultPlaylistNotFound when nothing is playing and no playlist_id given, got %v", fault)
	}
}

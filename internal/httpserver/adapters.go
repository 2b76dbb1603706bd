package httpserver

import (
	"context"
	"fmt"
	"sync"

	"github.com/arung-agamani/aimpctl/internal/store"
)

// storeResolver adapts *store.Store to download.Resolver.
type storeResolver struct {
	store *store.Store
}

func (r *storeResolver) FilePath(playlistID, trackID int64) (string, bool) {
	row, found, err := r.store.GetPlaylistEntryInfo(context.Background(), playlistID, trackID)
	if err != nil || !found {
		return "", false
	}
	filename, _ := row["filename"].(string)
	return filename, filename != ""
}

// storePlaylistWriter adapts *store.Store to upload.PlaylistWriter,
// supplying the per-playlist write lock §5 requires around the entirety
// of an ingestion.
type storePlaylistWriter struct {
	store *store.Store

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newStorePlaylistWriter(s *store.Store) *storePlaylistWriter {
	return &storePlaylistWriter{store: s, locks: make(map[int64]*sync.Mutex)}
}

func (w *storePlaylistWriter) lockFor(playlistID int64) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	l, ok := w.locks[playlistID]
	if !ok {
		l = &sync.Mutex{}
		w.locks[playlistID] = l
	}
	return l
}

func (w *storePlaylistWriter) LockPlaylist(playlistID int64) {
	w.lockFor(playlistID).Lock()
}

func (w *storePlaylistWriter) UnlockPlaylist(playlistID int64) {
	w.lockFor(playlistID).Unlock()
}

func (w *storePlaylistWriter) AddFile(playlistID int64, sourcePath string) error {
	_, err := w.store.AddEntryToPlaylist(context.Background(), playlistID, store.NewEntry{
		Title:    sourcePath,
		Filename: sourcePath,
	})
	if err != nil {
		return fmt.Errorf("upload: adding file entry: %w", err)
	}
	return nil
}

func (w *storePlaylistWriter) AddURL(playlistID int64, url string) error {
	_, err := w.store.AddEntryToPlaylist(context.Background(), playlistID, store.NewEntry{
		Title:    url,
		Filename: url,
	})
	if err != nil {
		return fmt.Errorf("upload: adding url entry: %w", err)
	}
	return nil
}

// Package library turns a directory of audio files into PlaylistsEntries
// rows, reading embedded tag metadata the same way the cover-art lookup
// does.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhowden/tag"

	"github.com/arung-agamani/aimpctl/internal/store"
)

// SupportedFormats lists the audio file extensions a scan will pick up.
var SupportedFormats = []string{".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a"}

func isSupportedFormat(ext string) bool {
	lower := strings.ToLower(ext)
	for _, f := range SupportedFormats {
		if lower == f {
			return true
		}
	}
	return false
}

// fileEntry is a music-directory file translated into store.NewEntry shape,
// plus the path used to log scan failures against.
type fileEntry struct {
	path  string
	entry store.NewEntry
}

// scanDirectory walks dir recursively, reading tag metadata out of every
// supported audio file it finds. Per-file errors are logged and skipped;
// only a failure to walk the directory itself is fatal.
func scanDirectory(dir string) ([]fileEntry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("library: cannot access music directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library: %q is not a directory", dir)
	}

	var found []fileEntry
	err = filepath.Walk(dir, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			slog.Warn("library: error accessing path during scan", "path", path, "error", walkErr)
			return nil
		}
		if fi.IsDir() {
			return nil
		}
		if !isSupportedFormat(filepath.Ext(path)) {
			return nil
		}

		entry, err := entryFromFile(path)
		if err != nil {
			slog.Warn("library: failed to read track metadata", "path", path, "error", err)
			return nil
		}
		found = append(found, fileEntry{path: path, entry: entry})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("library: walking music directory %q: %w", dir, err)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].path < found[j].path })
	return found, nil
}

// entryFromFile reads embedded tag metadata and filesystem stats for a
// single audio file, filling as much of store.NewEntry as is recoverable.
// Tracks with no readable tags still get a usable entry: the title falls
// back to the filename.
func entryFromFile(path string) (store.NewEntry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	info, err := os.Stat(abs)
	if err != nil {
		return store.NewEntry{}, err
	}

	base := filepath.Base(abs)
	title := strings.TrimSuffix(base, filepath.Ext(base))

	e := store.NewEntry{
		Title:    title,
		Filename: abs,
		Filesize: info.Size(),
	}

	f, err := os.Open(abs)
	if err != nil {
		return e, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// No readable tags; the filename-derived entry above still stands.
		return e, nil
	}
	if m.Title() != "" {
		e.Title = m.Title()
	}
	e.Artist = m.Artist()
	e.Album = m.Album()
	e.Genre = m.Genre()
	if m.Year() != 0 {
		e.Date = fmt.Sprintf("%d", m.Year())
	}
	return e, nil
}

// SeedDefaultPlaylist scans musicDir and, if s has no playlists yet, creates
// a "Default Playlist" populated with every discovered track. It is a
// first-run convenience only: once any playlist exists the scan is skipped,
// so manually curated playlists are never overwritten by a later restart.
func SeedDefaultPlaylist(ctx context.Context, s *store.Store, musicDir string) error {
	existing, err := s.GetPlaylists(ctx, []string{"id"})
	if err != nil {
		return fmt.Errorf("library: checking existing playlists: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	files, err := scanDirectory(musicDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		slog.Info("library: no supported audio files found, skipping default playlist", "dir", musicDir)
		return nil
	}

	playlistID, err := s.CreatePlaylist(ctx, "Default Playlist")
	if err != nil {
		return fmt.Errorf("library: creating default playlist: %w", err)
	}

	added := 0
	for _, f := range files {
		if _, err := s.AddEntryToPlaylist(ctx, playlistID, f.entry); err != nil {
			slog.Warn("library: failed to add scanned entry", "path", f.path, "error", err)
			continue
		}
		added++
	}

	slog.Info("library: default playlist seeded from music directory",
		"dir", musicDir, "playlist_id", playlistID, "tracks_added", added, "tracks_found", len(files))
	return nil
}

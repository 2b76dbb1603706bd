// Package upload implements the /uploadTrack/playlist_id/<n> multipart
// ingestion handler (§4.10). The multipart/form-data parser itself is an
// out-of-scope collaborator per spec.md §1 — this package consumes
// net/http's already-parsed *multipart.Form, it does not parse the wire
// format.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const maxMemory = 32 << 20

var pathPattern = regexp.MustCompile(`^/uploadTrack/playlist_id/(-?\d+)$`)

// PlaylistWriter is the collaborator that ingests an uploaded file or URL
// into a playlist under an already-held write lock.
type PlaylistWriter interface {
	LockPlaylist(playlistID int64)
	UnlockPlaylist(playlistID int64)
	AddFile(playlistID int64, sourcePath string) error
	AddURL(playlistID int64, url string) error
}

// Handler serves upload requests.
type Handler struct {
	writer      PlaylistWriter
	musicDir    string
	allowedExts map[string]bool
	enabled     func() bool
}

// New returns an upload Handler. allowedExts is the player's supported
// audio extensions (with leading dot, e.g. ".mp3"). enabled gates the
// handler on misc.enable_track_upload.
func New(writer PlaylistWriter, musicDir string, allowedExts []string, enabled func() bool) *Handler {
	set := make(map[string]bool, len(allowedExts))
	for _, e := range allowedExts {
		set[strings.ToLower(e)] = true
	}
	return &Handler{writer: writer, musicDir: musicDir, allowedExts: set, enabled: enabled}
}

// Match extracts the playlist_id from an upload URI.
func Match(path string) (int64, bool) {
	m := pathPattern.FindStringSubmatch(path)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ServeHTTP copies each uploaded file with a supported extension to a
// permanent path and adds it to the target playlist; each text field is
// treated as a URL and added via the URL-adding path. The playlist is
// write-locked for the whole request; any single-part failure aborts the
// rest of the request with a 403 reply. Parts added before the failing one
// stay in the playlist; nothing is rolled back.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.enabled != nil && !h.enabled() {
		http.Error(w, "track upload is disabled", http.StatusForbidden)
		return
	}

	playlistID, ok := Match(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		http.Error(w, "malformed multipart form", http.StatusForbidden)
		return
	}
	if r.MultipartForm == nil {
		http.Error(w, "missing multipart form", http.StatusForbidden)
		return
	}

	h.writer.LockPlaylist(playlistID)
	defer h.writer.UnlockPlaylist(playlistID)

	if err := h.ingestFiles(playlistID, r); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	if err := h.ingestURLs(playlistID, r); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ingestFiles(playlistID int64, r *http.Request) error {
	for _, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			ext := strings.ToLower(filepath.Ext(fh.Filename))
			if !h.allowedExts[ext] {
				return fmt.Errorf("upload: unsupported file extension %q", ext)
			}

			dest, err := h.copyToMusicDir(fh)
			if err != nil {
				return fmt.Errorf("upload: %w", err)
			}
			if err := h.writer.AddFile(playlistID, dest); err != nil {
				return fmt.Errorf("upload: adding file to playlist: %w", err)
			}
		}
	}
	return nil
}

func (h *Handler) ingestURLs(playlistID int64, r *http.Request) error {
	for _, values := range r.MultipartForm.Value {
		for _, v := range values {
			url := strings.TrimSpace(v)
			if url == "" {
				continue
			}
			if err := h.writer.AddURL(playlistID, url); err != nil {
				return fmt.Errorf("upload: adding URL to playlist: %w", err)
			}
		}
	}
	return nil
}

// copyToMusicDir copies an uploaded file's content into the music
// directory under a collision-free name derived from its original
// filename, and returns the destination path.
func (h *Handler) copyToMusicDir(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening uploaded file: %w", err)
	}
	defer src.Close()

	dest, err := uniqueDestPath(h.musicDir, filepath.Base(fh.Filename))
	if err != nil {
		return "", fmt.Errorf("choosing destination path: %w", err)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating destination file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("writing destination file: %w", err)
	}
	return dest, nil
}

func uniqueDestPath(dir, filename string) (string, error) {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	candidate := filepath.Join(dir, filename)
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
	}
}

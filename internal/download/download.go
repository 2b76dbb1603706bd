// Package download implements the /downloadTrack/playlist_id/<n>/track_id/<n>
// file-response handler (§4.9).
package download

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// Resolver maps a (playlist_id, track_id) pair to the on-disk file serving
// a download request.
type Resolver interface {
	FilePath(playlistID, trackID int64) (path string, ok bool)
}

var pathPattern = regexp.MustCompile(`^/downloadTrack/playlist_id/(-?\d+)/track_id/(-?\d+)$`)

// Handler serves download requests.
type Handler struct {
	resolver Resolver
}

// New returns a download Handler.
func New(resolver Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// Match reports whether r's path is a well-formed download URI and, if
// so, the extracted (playlist_id, track_id).
func Match(path string) (playlistID, trackID int64, ok bool) {
	m := pathPattern.FindStringSubmatch(path)
	if m == nil {
		return 0, 0, false
	}
	pid, err1 := strconv.ParseInt(m[1], 10, 64)
	tid, err2 := strconv.ParseInt(m[2], 10, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return pid, tid, true
}

// ServeHTTP resolves the file and writes it with Content-Length,
// Content-Type, and a Content-Disposition attachment header.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	playlistID, trackID, ok := Match(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	path, ok := h.resolver.FilePath(playlistID, trackID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, base))

	http.ServeContent(w, r, base, info.ModTime(), f)
}

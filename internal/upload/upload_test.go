package upload

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"
)

type fakeWriter struct {
	locked map[int64]bool
	files  []string
	urls   []string
	addErr error
}

func (w *fakeWriter) LockPlaylist(id int64)   { w.locked[id] = true }
func (w *fakeWriter) UnlockPlaylist(id int64) { w.locked[id] = false }
func (w *fakeWriter) AddFile(playlistID int64, path string) error {
	if w.addErr != nil {
		return w.addErr
	}
	w.files = append(w.files, path)
	return nil
}
func (w *fakeWriter) AddURL(playlistID int64, url string) error {
	if w.addErr != nil {
		return w.addErr
	}
	w.urls = append(w.urls, url)
	return nil
}

func newMultipartRequest(t *testing.T, fileField, filename string, fileBody []byte, textFields map[string]string) (*httptest.ResponseRecorder, *multipart.Writer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(fileBody)
	}
	for k, v := range textFields {
		mw.WriteField(k, v)
	}
	mw.Close()
	return httptest.NewRecorder(), mw, &buf
}

func TestMatchExtractsPlaylistID(t *testing.T) {
	id, ok := Match("/uploadTrack/playlist_id/7")
	if !ok || id != 7 {
		t.Fatalf("expected (7,true), got (%d,%v)", id, ok)
	}
	if _, ok := Match("/uploadTrack/playlist_id/"); ok {
		t.Fatal("expected no match for missing id")
	}
}

func TestServeHTTPAddsSupportedFileAndLocksPlaylist(t *testing.T) {
	dir := t.TempDir()
	w := &fakeWriter{locked: map[int64]bool{}}
	h := New(w, dir, []string{".mp3"}, func() bool { return true })

	rec, mw, buf := newMultipartRequest(t, "track", "song.mp3", []byte("audio"), nil)
	req := httptest.NewRequest("POST", "/uploadTrack/playlist_id/3", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(w.files) != 1 {
		t.Fatalf("expected one file ingested, got %d", len(w.files))
	}
	if w.locked[3] {
		t.Fatal("expected playlist to be unlocked after request completes")
	}
}

func TestServeHTTPRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	w := &fakeWriter{locked: map[int64]bool{}}
	h := New(w, dir, []string{".mp3"}, func() bool { return true })

	rec, mw, buf := newMultipartRequest(t, "track", "cover.png", []byte("data"), nil)
	req := httptest.NewRequest("POST", "/uploadTrack/playlist_id/3", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	h.ServeHTTP(rec, req)

	if rec.Code != 403 {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if len(w.files) != 0 {
		t.Fatal("expected no file ingested on rejected extension")
	}
}

func TestServeHTTPAddsTextFieldAsURL(t *testing.T) {
	dir := t.TempDir()
	w := &fakeWriter{locked: map[int64]bool{}}
	h := New(w, dir, []string{".mp3"}, func() bool { return true })

	rec, mw, buf := newMultipartRequest(t, "", "", nil, map[string]string{"url": "http://example.com/track.mp3"})
	req := httptest.NewRequest("POST", "/uploadTrack/playlist_id/5", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(w.urls) != 1 || w.urls[0] != "http://example.com/track.mp3" {
		t.Fatalf("expected URL ingested, got %v", w.urls)
	}
}

func TestServeHTTPDisabledReturnsForbidden(t *testing.T) {
	dir := t.TempDir()
	w := &fakeWriter{locked: map[int64]bool{}}
	h := New(w, dir, []string{".mp3"}, func() bool { return false })

	rec, mw, buf := newMultipartRequest(t, "track", "song.mp3", []byte("audio"), nil)
	req := httptest.NewRequest("POST", "/uploadTrack/playlist_id/3", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	h.ServeHTTP(rec, req)

	if rec.Code != 403 {
		t.Fatalf("expected 403 when upload disabled, got %d", rec.Code)
	}
}

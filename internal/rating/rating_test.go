package rating

import (
	"os"
	"path/filepath"
	"testing"
)

type stubNative struct {
	supports bool
	calls    []int64
}

func (s *stubNative) SupportsNativeRating() bool { return s.supports }
func (s *stubNative) SetRating(playlistID, entryID, rating int64) error {
	s.calls = append(s.calls, rating)
	return nil
}

func TestClampRange(t *testing.T) {
	if Clamp(-1) != 0 || Clamp(10) != 5 || Clamp(3) != 3 {
		t.Fatal("clamp failed")
	}
}

func TestDelegatesToNativeWhenSupported(t *testing.T) {
	n := &stubNative{supports: true}
	s := New(n, "")
	if err := s.SetRating(1, 2, "file.mp3", 4); err != nil {
		t.Fatal(err)
	}
	if len(n.calls) != 1 || n.calls[0] != 4 {
		t.Fatalf("expected native call with rating 4, got %v", n.calls)
	}
}

func TestFallsBackToTextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ratings.txt")
	s := New(&stubNative{supports: false}, path)

	if err := s.SetRating(1, 2, "song.mp3", 3); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 4 {
		t.Fatal("expected UTF-16 bytes with BOM written")
	}
}

package cover

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"bytes"

	"github.com/arung-agamani/aimpctl/internal/player"
)

type stubSource struct {
	path string
	raw  []byte
	fmt  string
	hash string
}

func (s stubSource) FilePath(desc player.TrackDescription) (string, bool) {
	if s.path == "" {
		return "", false
	}
	return s.path, true
}

func (s stubSource) RawCover(desc player.TrackDescription) ([]byte, string, string, bool) {
	if s.raw == nil {
		return nil, "", "", false
	}
	return s.raw, s.fmt, s.hash, true
}

func samplePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestResolveCacheHitReturnsSameURIWithoutRescaling(t *testing.T) {
	dir := t.TempDir()
	raw := samplePNG(t)
	src := stubSource{raw: raw, fmt: "PNG", hash: "abc123"}
	cache := New()
	r := NewResolver(cache, src, dir)

	desc := player.TrackDescription{PlaylistID: 1, TrackID: 2}
	uri1, err := r.Resolve(desc, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	// Remove the generated file: a rescale on the second call would write it again.
	if err := os.Remove(filepath.Join(dir, uri1)); err != nil {
		t.Fatal(err)
	}
	uri2, err := r.Resolve(desc, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if uri1 != uri2 {
		t.Fatalf("expected cache hit to return same URI, got %q vs %q", uri1, uri2)
	}
	if _, err := os.Stat(filepath.Join(dir, uri1)); !os.IsNotExist(err) {
		t.Fatalf("expected cache hit not to rescale and rewrite the cover file, stat err=%v", err)
	}
}

func TestResolveByHashAcrossDifferentDescriptors(t *testing.T) {
	dir := t.TempDir()
	raw := samplePNG(t)
	cache := New()

	descA := player.TrackDescription{PlaylistID: 1, TrackID: 1}
	srcA := stubSource{raw: raw, fmt: "PNG", hash: "samehash"}
	rA := NewResolver(cache, srcA, dir)
	uriA, err := rA.Resolve(descA, 50, 50)
	if err != nil {
		t.Fatal(err)
	}

	descB := player.TrackDescription{PlaylistID: 2, TrackID: 9}
	srcB := stubSource{raw: raw, fmt: "PNG", hash: "samehash"}
	rB := NewResolver(cache, srcB, dir)
	uriB, err := rB.Resolve(descB, 50, 50)
	if err != nil {
		t.Fatal(err)
	}

	if uriA != uriB {
		t.Fatalf("expected same-hash tracks to share a cache entry, got %q vs %q", uriA, uriB)
	}
}

func TestClampDimension(t *testing.T) {
	if ClampDimension(-5) != 0 || ClampDimension(5000) != 2000 || ClampDimension(300) != 300 {
		t.Fatal("clamp failed")
	}
}

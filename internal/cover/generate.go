package cover

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arung-agamani/aimpctl/internal/player"
)

// Source is the out-of-scope collaborator exposing whatever the backend
// knows about a track's cover: a source file path, and/or a raw embedded
// container with a content hash.
type Source interface {
	// FilePath returns the on-disk cover image path for desc, if known.
	FilePath(desc player.TrackDescription) (string, bool)
	// RawCover returns the embedded cover's raw bytes, its container
	// format id (BMP/GIF/JPG/PNG/""), and its content hash, if known.
	RawCover(desc player.TrackDescription) (data []byte, formatID, hash string, ok bool)
}

// Resolver ties the Cache to a Source and a target directory for
// generated files, implementing the §4.8 resolution procedure.
type Resolver struct {
	cache   *Cache
	source  Source
	coverDir string
}

// NewResolver returns a Resolver writing generated covers under coverDir.
func NewResolver(cache *Cache, source Source, coverDir string) *Resolver {
	return &Resolver{cache: cache, source: source, coverDir: coverDir}
}

// Resolve implements the six-step procedure in §4.8: cache probes by
// desc/path/hash in turn, then on a full miss generates the file (direct
// copy, raw-bytes write, or scale) and registers it under every
// applicable cache axis. w, h must already be clamped to [0, 2000] by the
// caller; 0x0 means "original size".
func (r *Resolver) Resolve(desc player.TrackDescription, w, h int) (string, error) {
	if uri, ok := r.cache.LookupByDesc(desc, w, h); ok {
		return uri, nil
	}

	path, hasPath := r.source.FilePath(desc)
	if hasPath {
		if uri, _, ok := r.cache.LookupByPath(path, w, h); ok {
			return uri, nil
		}
	}

	data, formatID, hash, hasRaw := r.source.RawCover(desc)
	if hasRaw && hash != "" {
		if uri, _, ok := r.cache.LookupByHash(hash, w, h); ok {
			return uri, nil
		}
	}

	uri, err := r.generate(desc, w, h, path, hasPath, data, formatID, hasRaw)
	if err != nil {
		return "", err
	}

	r.cache.Register(desc, path, hash, uri)
	return uri, nil
}

func (r *Resolver) generate(desc player.TrackDescription, w, h int, path string, hasPath bool, data []byte, formatID string, hasRaw bool) (string, error) {
	original := w == 0 && h == 0

	switch {
	case original && hasPath:
		return r.copyFile(desc, w, h, path)
	case original && hasRaw:
		return r.writeRaw(desc, w, h, data, formatID)
	case hasRaw:
		return r.scaleAndWrite(desc, w, h, data, formatID)
	case hasPath:
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("cover: reading source file: %w", err)
		}
		return r.scaleAndWrite(desc, w, h, raw, filepath.Ext(path))
	default:
		return "", fmt.Errorf("cover: no cover available for track (%d, %d)", desc.PlaylistID, desc.TrackID)
	}
}

func (r *Resolver) copyFile(desc player.TrackDescription, w, h int, srcPath string) (string, error) {
	ext := trimDot(filepath.Ext(srcPath))
	name := FileName(desc, w, h, ext)
	destPath := filepath.Join(r.coverDir, name)

	data, err := os.ReadFile(srcPath)
	if err != nil {
		return "", fmt.Errorf("cover: reading source file: %w", err)
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return "", fmt.Errorf("cover: writing cover file: %w", err)
	}
	return name, nil
}

func (r *Resolver) writeRaw(desc player.TrackDescription, w, h int, data []byte, formatID string) (string, error) {
	ext := ExtForFormatID(formatID)
	name := FileName(desc, w, h, ext)
	destPath := filepath.Join(r.coverDir, name)
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return "", fmt.Errorf("cover: writing cover file: %w", err)
	}
	return name, nil
}

func (r *Resolver) scaleAndWrite(desc player.TrackDescription, w, h int, data []byte, extHint string) (string, error) {
	ext := trimDot(extHint)
	if ext == "" {
		ext = "png"
	}
	scaled, err := Scale(data, w, h, ext)
	if err != nil {
		return "", err
	}
	name := FileName(desc, w, h, ext)
	destPath := filepath.Join(r.coverDir, name)
	if err := os.WriteFile(destPath, scaled, 0o644); err != nil {
		return "", fmt.Errorf("cover: writing cover file: %w", err)
	}
	return name, nil
}

// ClampDimension restricts a requested cover dimension to [0, 2000] per §4.8.
func ClampDimension(v int) int {
	if v < 0 {
		return 0
	}
	if v > 2000 {
		return 2000
	}
	return v
}

func trimDot(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}

// WipeCoverDirectory empties and recreates the cover directory, as §4.8
// requires at startup.
func WipeCoverDirectory(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("cover: wiping directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cover: recreating directory: %w", err)
	}
	return nil
}

// Package rating implements the rating subsystem: a native backend write
// when available, else an append to a UTF-16 text file fallback.
package rating

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
)

// NativeWriter is the out-of-scope collaborator that can persist a rating
// directly through the player's own storage, when available.
type NativeWriter interface {
	SupportsNativeRating() bool
	SetRating(playlistID, entryID, rating int64) error
}

// Store is the rating subsystem: delegates to a NativeWriter when
// possible, otherwise appends a line to a configured UTF-16 text file.
type Store struct {
	native       NativeWriter
	fallbackPath string
}

// New returns a rating Store. native may be nil, which forces the
// text-file fallback unconditionally.
func New(native NativeWriter, fallbackPath string) *Store {
	return &Store{native: native, fallbackPath: fallbackPath}
}

// Clamp restricts a rating value to [0,5], the range §4.12 specifies.
func Clamp(rating int64) int64 {
	if rating < 0 {
		return 0
	}
	if rating > 5 {
		return 5
	}
	return rating
}

// SetRating clamps rating and persists it, preferring the native backend.
func (s *Store) SetRating(playlistID, entryID int64, filename string, rating int64) error {
	rating = Clamp(rating)

	if s.native != nil && s.native.SupportsNativeRating() {
		return s.native.SetRating(playlistID, entryID, rating)
	}
	return s.appendToFallbackFile(filename, rating)
}

func (s *Store) appendToFallbackFile(filename string, rating int64) error {
	line := fmt.Sprintf("%s; rating:%d\n", filename, rating)

	// UseBOM only belongs on the first bytes of the file; every
	// subsequent append encodes plain UTF-16LE so the BOM isn't
	// repeated mid-file.
	isNewFile := false
	if _, err := os.Stat(s.fallbackPath); os.IsNotExist(err) {
		isNewFile = true
	}

	encoding := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	if isNewFile {
		encoding = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	}
	encoded, err := encoding.NewEncoder().String(line)
	if err != nil {
		return fmt.Errorf("rating: encoding UTF-16: %w", err)
	}

	f, err := os.OpenFile(s.fallbackPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("rating: opening fallback file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(encoded); err != nil {
		return fmt.Errorf("rating: writing fallback file: %w", err)
	}
	return nil
}

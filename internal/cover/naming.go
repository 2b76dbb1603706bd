package cover

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/arung-agamani/aimpctl/internal/player"
)

func sizeTagString(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}

// FileName builds cover_<playlistId>_<trackId>_<W>x<H>_<5-digit-random>.<ext>.
func FileName(desc player.TrackDescription, w, h int, ext string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(100000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return fmt.Sprintf("cover_%d_%d_%s_%05d.%s",
		desc.PlaylistID, desc.TrackID, sizeTagString(w, h), suffix, ext)
}

// ExtForFormatID maps a container format id (as reported by the out-of-scope
// player backend) to a file extension. Matches AIMP's historical
// FreeImage-based loader format set (BMP/GIF/JPG/PNG) plus "" for unknown.
func ExtForFormatID(formatID string) string {
	switch formatID {
	case "BMP":
		return "bmp"
	case "GIF":
		return "gif"
	case "JPG", "JPEG":
		return "jpg"
	case "PNG":
		return "png"
	default:
		return ""
	}
}

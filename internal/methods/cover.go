package methods

import (
	"context"
	"os"

	"github.com/dhowden/tag"

	"github.com/arung-agamani/aimpctl/internal/cover"
	"github.com/arung-agamani/aimpctl/internal/dispatch"
	"github.com/arung-agamani/aimpctl/internal/player"
	"github.com/arung-agamani/aimpctl/internal/store"
	"github.com/arung-agamani/aimpctl/internal/value"
)

func registerCoverMethod(reg *dispatch.Registry, deps Deps) {
	reg.Register("GetAlbumArt", getAlbumArt(deps))
}

func getAlbumArt(deps Deps) dispatch.Handler {
	return func(c *dispatch.Context, params value.Value) (dispatch.Outcome, error) {
		desc, err := resolveAgainstStatus(trackDescFromParams(params), deps.Engine.Status())
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultTrackNotFound, "%v", err)
		}
		w := cover.ClampDimension(int(intField(params, "cover_width", 0)))
		h := cover.ClampDimension(int(intField(params, "cover_height", 0)))

		uri, err := deps.Cover.Resolve(desc, w, h)
		if err != nil {
			return dispatch.Outcome{}, dispatch.NewFault(dispatch.FaultAlbumCoverLoad, "%v", err)
		}
		out := value.Object()
		out.Set("album_cover_uri", value.String(uri))
		return dispatch.ImmediateResult(out), nil
	}
}

// trackFileSource implements cover.Source over the relational store's
// filename column, reading embedded cover art from the file itself via the
// same tag-parsing library the track ingestion path uses to pull title,
// artist and album metadata out of audio files.
type trackFileSource struct {
	store *store.Store
}

// NewCoverSource returns a cover.Source backed by s's filename column and
// dhowden/tag's embedded-picture extraction, for wiring into
// cover.NewResolver at startup.
func NewCoverSource(s *store.Store) cover.Source {
	return &trackFileSource{store: s}
}

func (s *trackFileSource) FilePath(desc player.TrackDescription) (string, bool) {
	row, found, err := s.store.GetPlaylistEntryInfo(context.Background(), desc.PlaylistID, desc.TrackID)
	if err != nil || !found {
		return "", false
	}
	filename := anyToString(row["filename"])
	return filename, filename != ""
}

func (s *trackFileSource) RawCover(desc player.TrackDescription) ([]byte, string, string, bool) {
	path, ok := s.FilePath(desc)
	if !ok {
		return nil, "", "", false
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, "", "", false
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return nil, "", "", false
	}
	pic := meta.Picture()
	if pic == nil || len(pic.Data) == 0 {
		return nil, "", "", false
	}
	return pic.Data, formatIDFromMIME(pic.MIMEType, pic.Ext), cover.ContentHash(pic.Data), true
}

func formatIDFromMIME(mime, ext string) string {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "JPG"
	case "image/png":
		return "PNG"
	case "image/bmp":
		return "BMP"
	case "image/gif":
		return "GIF"
	}
	switch ext {
	case "jpg", "jpeg":
		return "JPG"
	case "png":
		return "PNG"
	case "bmp":
		return "BMP"
	case "gif":
		return "GIF"
	}
	return ""
}

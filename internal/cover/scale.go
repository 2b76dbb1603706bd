package cover

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// decode sniffs and decodes image bytes using the formats AIMP's embedded
// cover loader historically supported (BMP/GIF/JPG/PNG).
func decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, nil
	}
	if img, err2 := bmp.Decode(bytes.NewReader(data)); err2 == nil {
		return img, nil
	}
	return nil, fmt.Errorf("cover: unrecognised image format: %w", err)
}

// Scale decodes src and bilinear-rescales it to w x h, encoding the result
// as the given extension (jpg/png/gif default to png for unknown exts).
func Scale(src []byte, w, h int, ext string) ([]byte, error) {
	img, err := decode(src)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch ext {
	case "jpg", "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90})
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("cover: encoding scaled image: %w", err)
	}
	return buf.Bytes(), nil
}

func init() {
	// register the bmp format with image.Decode's format sniffer so plain
	// image.Decode can recognise it directly where callers pass raw
	// container bytes of unknown origin.
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
}

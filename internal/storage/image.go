package storage

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const MaxImageEdge = 256

// NormalizeImage decodes an uploaded logo or favicon, fits it inside a
// MaxImageEdge square and re-encodes it as PNG.
func NormalizeImage(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxImageEdge || bounds.Dy() > MaxImageEdge {
		img = imaging.Fit(img, MaxImageEdge, MaxImageEdge, imaging.Lanczos)
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return out.Bytes(), nil
}

// NewImageKey returns a unique object key such as "logos/<uuid>.png".
func NewImageKey(folder string) string {
	folder = strings.Trim(folder, "/")
	return path.Join(folder, uuid.NewString()+".png")
}

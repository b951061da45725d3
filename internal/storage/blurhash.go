package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
)

// placeholderWidth matches the downscale the mobile clients were tuned
// against; the placeholder only needs to carry a color impression.
const placeholderWidth = 64

// BlurhashFingerprinter encodes a tiny blurhash string from the image bytes.
type BlurhashFingerprinter struct{}

func NewBlurhashFingerprinter() *BlurhashFingerprinter {
	return &BlurhashFingerprinter{}
}

func (f *BlurhashFingerprinter) Placeholder(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w == 0 || h == 0 {
		return "", fmt.Errorf("empty image")
	}

	if w > placeholderWidth {
		scaled := image.NewRGBA(image.Rect(0, 0, placeholderWidth, h*placeholderWidth/w))
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
		img = scaled
	}

	hash, err := blurhash.Encode(3, 4, img)
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

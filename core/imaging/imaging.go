package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"itemdex/core/gamedata"
)

// Encoder turns a raw pixel region into encoded image bytes.
type Encoder interface {
	Encode(icon *gamedata.IconHandle) ([]byte, error)
}

// PNGEncoder encodes raw RGBA regions as PNG.
type PNGEncoder struct{}

// NewPNGEncoder creates a PNG encoder.
func NewPNGEncoder() *PNGEncoder {
	return &PNGEncoder{}
}

// Encode converts the icon's RGBA pixel block into PNG bytes. Handles whose
// pixel data cannot be read produce an error; callers count these as skipped
// images rather than failures.
func (e *PNGEncoder) Encode(icon *gamedata.IconHandle) ([]byte, error) {
	if !icon.Readable() {
		return nil, fmt.Errorf("icon pixel data is not readable")
	}

	img := image.NewRGBA(image.Rect(0, 0, icon.Width, icon.Height))
	copy(img.Pix, icon.Pixels)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}
	return buf.Bytes(), nil
}

package encoder

import (
	"bytes"
	"image"

	"golang.org/x/image/bmp"
)

// BMPEncoder writes uncompressed BMP via golang.org/x/image/bmp.
type BMPEncoder struct{}

func (e *BMPEncoder) Format() Format  { return FormatBMP }
func (e *BMPEncoder) Lossy() bool     { return false }
func (e *BMPEncoder) Available() bool { return true }

func (e *BMPEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	b := img.Bounds()
	var buf bytes.Buffer
	buf.Grow(b.Dx()*b.Dy()*4 + 138) // 32bpp worst case + header

	if err := bmp.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package encoder

import (
	"bytes"
	"image"
	"image/jpeg"
)

// JPEGEncoder encodes images to JPEG using Go's standard library.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() Format  { return FormatJPEG }
func (e *JPEGEncoder) Lossy() bool     { return true }
func (e *JPEGEncoder) Available() bool { return true }

func (e *JPEGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = 90
	}

	var buf bytes.Buffer
	buf.Grow(256 * 1024) // typical photo output at upload-sized bands

	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

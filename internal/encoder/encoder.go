package encoder

import (
	"image"
	"strings"
)

// Format is the closed set of image formats bandfit reads and writes.
type Format string

const (
	FormatUnknown Format = ""
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatBMP     Format = "bmp"
	FormatWebP    Format = "webp"
)

// ParseFormat maps a decoder format name (as returned by image.Decode) or a
// file extension to a Format. Anything unrecognised is FormatUnknown.
func ParseFormat(name string) Format {
	switch strings.TrimPrefix(strings.ToLower(name), ".") {
	case "jpeg", "jpg":
		return FormatJPEG
	case "png":
		return FormatPNG
	case "bmp":
		return FormatBMP
	case "webp":
		return FormatWebP
	default:
		return FormatUnknown
	}
}

func (f Format) String() string {
	if f == FormatUnknown {
		return "unknown"
	}
	return string(f)
}

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format.
	Format() Format

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless encoders ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Lossy reports whether quality affects the encoded output.
	Lossy() bool

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp) may not be installed.
	Available() bool
}

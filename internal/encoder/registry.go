package encoder

import (
	"fmt"
	"strings"
)

// Registry maps each supported format to its encoder.
type Registry struct {
	encoders map[Format]Encoder
}

// Options tunes encoder construction.
type Options struct {
	// CWebPPath overrides the cwebp binary used for WebP output.
	CWebPPath string
}

// NewRegistry creates a registry, probing all encoders for availability.
func NewRegistry(opts Options) *Registry {
	return NewRegistryWith(
		&JPEGEncoder{},
		&PNGEncoder{},
		&BMPEncoder{},
		&WebPEncoder{Path: opts.CWebPPath},
	)
}

// NewRegistryWith builds a registry from an explicit encoder list.
// Unavailable encoders are dropped; later entries replace earlier ones.
func NewRegistryWith(encoders ...Encoder) *Registry {
	r := &Registry{encoders: make(map[Format]Encoder)}
	for _, enc := range encoders {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}
	return r
}

// For returns the encoder that writes format. An unknown format falls back
// to JPEG.
func (r *Registry) For(format Format) (Encoder, error) {
	if format == FormatUnknown {
		format = FormatJPEG
	}
	enc, ok := r.encoders[format]
	if !ok {
		return nil, fmt.Errorf("no encoder available for %s", format)
	}
	return enc, nil
}

// Available returns all available format names in a stable order.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range []Format{FormatJPEG, FormatPNG, FormatBMP, FormatWebP} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, string(f))
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}

package fit

import (
	"errors"
	"fmt"
)

// KB is the unit bands are expressed in at the UI level.
const KB = 1024

// ErrInvalidBand is returned for bands that violate 0 < Min <= Max.
var ErrInvalidBand = errors.New("invalid size band")

// Band is the inclusive [Min, Max] byte range an output must land in.
// Max is the hard ceiling; Min is a soft preference (see Searcher.Search).
type Band struct {
	Min int64 `json:"min_bytes" yaml:"min_bytes"`
	Max int64 `json:"max_bytes" yaml:"max_bytes"`
}

// NewBand validates and returns a band.
func NewBand(min, max int64) (Band, error) {
	b := Band{Min: min, Max: max}
	if err := b.Validate(); err != nil {
		return Band{}, err
	}
	return b, nil
}

// BandKB builds a band from kilobyte bounds (1 KB = 1024 bytes).
func BandKB(minKB, maxKB int) (Band, error) {
	return NewBand(int64(minKB)*KB, int64(maxKB)*KB)
}

// Validate reports whether the band is usable.
func (b Band) Validate() error {
	if b.Min <= 0 || b.Max <= 0 || b.Min > b.Max {
		return fmt.Errorf("%w: min=%d max=%d", ErrInvalidBand, b.Min, b.Max)
	}
	return nil
}

// Contains reports whether n lies inside the band.
func (b Band) Contains(n int64) bool {
	return n >= b.Min && n <= b.Max
}

func (b Band) String() string {
	return fmt.Sprintf("%.0f-%.0f KB", float64(b.Min)/KB, float64(b.Max)/KB)
}

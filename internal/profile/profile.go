package profile

import (
	"sort"

	"github.com/AnyUserName/bandfit/internal/fit"
)

// Slider bounds for band edges, in KB.
const (
	MinKBFloor = 50
	MinKBCeil  = 900
	MaxKBFloor = 100
	MaxKBCeil  = 2048

	// MinGapKB is the smallest distance kept between min and max.
	MinGapKB = 100
)

// Profile is a named size band preset.
type Profile struct {
	Name        string
	MinKB       int
	MaxKB       int
	Description string
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:        "default",
		MinKB:       100,
		MaxKB:       1024,
		Description: "general uploads capped at 1 MB",
	},
	"web": {
		Name:        "web",
		MinKB:       50,
		MaxKB:       300,
		Description: "page images and thumbnails",
	},
	"email": {
		Name:        "email",
		MinKB:       200,
		MaxKB:       900,
		Description: "attachments that stay under common mail limits",
	},
	"upload-2mb": {
		Name:        "upload-2mb",
		MinKB:       900,
		MaxKB:       2048,
		Description: "forms with a 2 MB per-file limit",
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["default"]
	p.Name = name // preserve requested name
	return p
}

// Lookup returns a profile by name and whether it exists.
func Lookup(name string) (Profile, bool) {
	p, ok := profiles[name]
	return p, ok
}

// Names returns all built-in profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Band returns the profile's band after clamping.
func (p Profile) Band() (fit.Band, error) {
	minKB, maxKB := Clamp(p.MinKB, p.MaxKB)
	return fit.BandKB(minKB, maxKB)
}

// Clamp applies the band rules: max into [100, 2048], min into [50, 900],
// and min pulled down to max-100 when it crowds max. The gap gives way
// before the 50 KB floor does.
func Clamp(minKB, maxKB int) (int, int) {
	maxKB = clampInt(maxKB, MaxKBFloor, MaxKBCeil)
	minKB = clampInt(minKB, MinKBFloor, MinKBCeil)
	if minKB > maxKB-MinGapKB {
		minKB = maxKB - MinGapKB
	}
	if minKB < MinKBFloor {
		minKB = MinKBFloor
	}
	return minKB, maxKB
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package fit searches for an encoding of an image whose byte size lands
// inside a target band.
//
// Quality is the cheap, reversible lever and is exhausted first. Only once
// quality sits at MinQuality and the output is still too large does the
// search shrink the image, by ScaleDecay per step, until MinScale.
package fit

import (
	"fmt"
	"image"
	"math"

	"github.com/AnyUserName/bandfit/internal/encoder"
	"github.com/disintegration/imaging"
)

const (
	StartQuality = 90
	MinQuality   = 10
	MaxQuality   = 95
	QualityStep  = 5
	ScaleDecay   = 0.9
	MinScale     = 0.3

	// MaxAttempts bounds the search: 17 quality steps per scale level over
	// at most 13 levels. Quality can ping-pong around MinQuality after a
	// scale decay, so the bound has to be enforced rather than implied.
	MaxAttempts = ((StartQuality-MinQuality)/QualityStep + 1) * 13
)

// Attempt records one encode inside the search loop.
type Attempt struct {
	Quality int
	Scale   float64
	Width   int
	Height  int
	Size    int64
}

// Result is the artifact chosen by a search.
type Result struct {
	Achieved bool
	Data     []byte
	Quality  int
	Scale    float64
	Width    int
	Height   int

	// Attempts is the full trace, in order.
	Attempts []Attempt
	// Resamples counts how many times the source was resized.
	Resamples int
	// CeilingHit is set when the search stopped at MaxAttempts.
	CeilingHit bool
}

// Size returns the byte length of the chosen artifact.
func (r Result) Size() int64 { return int64(len(r.Data)) }

// Resampler resizes img to exactly width x height.
type Resampler func(img image.Image, width, height int) image.Image

// Lanczos resamples with imaging's Lanczos filter.
func Lanczos(img image.Image, width, height int) image.Image {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// Searcher runs the quality/scale search. The zero value is ready to use.
type Searcher struct {
	// Resample defaults to Lanczos.
	Resample Resampler
	// MaxAttempts defaults to the package constant.
	MaxAttempts int
}

// New returns a Searcher with default settings.
func New() *Searcher {
	return &Searcher{Resample: Lanczos, MaxAttempts: MaxAttempts}
}

type artifact struct {
	data    []byte
	quality int
	scale   float64
	width   int
	height  int
}

func (r *Result) take(a artifact) {
	r.Data = a.data
	r.Quality = a.quality
	r.Scale = a.scale
	r.Width = a.width
	r.Height = a.height
}

// Search encodes img with enc until the output size falls inside band.
//
// Outputs under band.Min are accepted once quality reaches MaxQuality: the
// maximum is the binding constraint. When the image cannot get under
// band.Max before the scale drops below MinScale, the last artifact is
// returned with Achieved=false. A non-nil error means enc failed and no
// artifact was chosen.
func (s *Searcher) Search(img image.Image, enc encoder.Encoder, band Band) (Result, error) {
	if err := band.Validate(); err != nil {
		return Result{}, err
	}
	resample := s.Resample
	if resample == nil {
		resample = Lanczos
	}
	limit := s.MaxAttempts
	if limit <= 0 {
		limit = MaxAttempts
	}

	bounds := img.Bounds()
	origW, origH := bounds.Dx(), bounds.Dy()

	var (
		res      Result
		underMax *artifact
	)
	quality, scale := StartQuality, 1.0

	cur, curScale := img, 1.0
	curW, curH := origW, origH

	// Lossless encoders produce identical bytes at one scale.
	var cached []byte
	cachedScale := -1.0

	for len(res.Attempts) < limit {
		if scale != curScale {
			curW, curH = scaledSize(origW, origH, scale)
			cur = resample(img, curW, curH)
			curScale = scale
			res.Resamples++
		}

		var data []byte
		if !enc.Lossy() && cached != nil && cachedScale == curScale {
			data = cached
		} else {
			var err error
			data, err = enc.Encode(cur, quality)
			if err != nil {
				return Result{Attempts: res.Attempts, Resamples: res.Resamples},
					fmt.Errorf("encode %s q=%d scale=%.3f: %w", enc.Format(), quality, scale, err)
			}
			cached, cachedScale = data, curScale
		}

		sz := int64(len(data))
		a := artifact{data: data, quality: quality, scale: curScale, width: curW, height: curH}
		res.Attempts = append(res.Attempts, Attempt{
			Quality: quality, Scale: curScale, Width: curW, Height: curH, Size: sz,
		})
		res.take(a)

		switch {
		case band.Contains(sz):
			res.Achieved = true
			return res, nil

		case sz > band.Max:
			if quality > MinQuality {
				quality -= QualityStep
				continue
			}
			scale *= ScaleDecay
			if scale < MinScale {
				return res, nil
			}

		default:
			underMax = &a
			if quality < MaxQuality {
				quality += QualityStep
				continue
			}
			res.Achieved = true
			return res, nil
		}
	}

	res.CeilingHit = true
	if underMax != nil {
		res.take(*underMax)
	}
	return res, nil
}

// Search runs a default Searcher.
func Search(img image.Image, enc encoder.Encoder, band Band) (Result, error) {
	return New().Search(img, enc, band)
}

func scaledSize(w, h int, scale float64) (int, int) {
	sw := int(math.Round(float64(w) * scale))
	sh := int(math.Round(float64(h) * scale))
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	return sw, sh
}

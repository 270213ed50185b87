package fit

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"testing"

	"github.com/AnyUserName/bandfit/internal/encoder"
)

// sizedImage reports bounds without holding pixels, so tests can model
// multi-megapixel sources cheaply.
type sizedImage struct{ w, h int }

func (s sizedImage) ColorModel() color.Model { return color.NRGBAModel }
func (s sizedImage) Bounds() image.Rectangle { return image.Rect(0, 0, s.w, s.h) }
func (s sizedImage) At(int, int) color.Color { return color.NRGBA{128, 128, 128, 255} }

// stubEncoder returns size(w, h, q) zero bytes. It never inspects pixels.
type stubEncoder struct {
	size  func(w, h, q int) int
	lossy bool
	err   error
	calls int
}

func (e *stubEncoder) Format() encoder.Format { return encoder.FormatJPEG }
func (e *stubEncoder) Lossy() bool            { return e.lossy }
func (e *stubEncoder) Available() bool        { return true }

func (e *stubEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	b := img.Bounds()
	return make([]byte, e.size(b.Dx(), b.Dy(), quality)), nil
}

func constSize(n int) func(w, h, q int) int {
	return func(int, int, int) int { return n }
}

// countingResampler returns pixel-less images of the requested size.
func countingResampler(calls *int) Resampler {
	return func(_ image.Image, w, h int) image.Image {
		*calls++
		return sizedImage{w, h}
	}
}

func mustBand(t *testing.T, min, max int64) Band {
	t.Helper()
	b, err := NewBand(min, max)
	if err != nil {
		t.Fatalf("band: %v", err)
	}
	return b
}

func TestNewBand(t *testing.T) {
	if _, err := NewBand(100, 100); err != nil {
		t.Errorf("equal bounds: %v", err)
	}
	for _, c := range [][2]int64{{0, 10}, {10, 0}, {-1, 10}, {20, 10}} {
		if _, err := NewBand(c[0], c[1]); !errors.Is(err, ErrInvalidBand) {
			t.Errorf("NewBand(%d, %d): got %v, want ErrInvalidBand", c[0], c[1], err)
		}
	}
	b, err := BandKB(100, 1024)
	if err != nil {
		t.Fatalf("BandKB: %v", err)
	}
	if b.Min != 100*1024 || b.Max != 1024*1024 {
		t.Errorf("BandKB: got %+v", b)
	}
}

func TestSearchInBandFirstAttempt(t *testing.T) {
	var resamples int
	s := &Searcher{Resample: countingResampler(&resamples)}
	enc := &stubEncoder{size: constSize(500), lossy: true}

	res, err := s.Search(sizedImage{640, 480}, enc, mustBand(t, 100, 1000))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !res.Achieved {
		t.Error("expected achieved")
	}
	if len(res.Attempts) != 1 {
		t.Errorf("attempts: got %d, want 1", len(res.Attempts))
	}
	if resamples != 0 || res.Resamples != 0 {
		t.Errorf("resamples: got %d/%d, want 0", resamples, res.Resamples)
	}
	if res.Quality != StartQuality || res.Scale != 1.0 {
		t.Errorf("final: q=%d scale=%v", res.Quality, res.Scale)
	}
	if res.Width != 640 || res.Height != 480 {
		t.Errorf("dims: got %dx%d", res.Width, res.Height)
	}
}

// An 8 MB 4000x3000 photo and a 100 KB-1 MB band: quality alone gets it
// in band, so no resampling happens.
func TestSearchLargePhotoStepsQualityOnly(t *testing.T) {
	const full = 8 << 20
	photo := func(w, h, q int) int {
		area := float64(w*h) / (4000 * 3000)
		return int(full * area * math.Exp(float64(q-90)/15))
	}
	var resamples int
	s := &Searcher{Resample: countingResampler(&resamples)}
	enc := &stubEncoder{size: photo, lossy: true}
	band := mustBand(t, 100*KB, 1024*KB)

	res, err := s.Search(sizedImage{4000, 3000}, enc, band)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !res.Achieved {
		t.Fatalf("expected achieved, got size %d", res.Size())
	}
	if !band.Contains(res.Size()) {
		t.Errorf("size %d outside %v", res.Size(), band)
	}
	if len(res.Attempts) < 3 {
		t.Errorf("attempts: got %d, want several quality steps", len(res.Attempts))
	}
	if resamples != 0 {
		t.Errorf("resamples: got %d, want 0", resamples)
	}
	for i, a := range res.Attempts {
		if a.Scale != 1.0 {
			t.Errorf("attempt %d: scale %v, want 1.0", i, a.Scale)
		}
		if i > 0 {
			prev := res.Attempts[i-1]
			if a.Quality != prev.Quality-QualityStep {
				t.Errorf("attempt %d: quality %d after %d", i, a.Quality, prev.Quality)
			}
			if a.Size > prev.Size {
				t.Errorf("attempt %d: size grew %d -> %d", i, prev.Size, a.Size)
			}
		}
	}
}

func TestSearchSoftMinimumAtMaxQuality(t *testing.T) {
	enc := &stubEncoder{size: constSize(50), lossy: true}
	res, err := New().Search(sizedImage{10, 10}, enc, mustBand(t, 100, 1000))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !res.Achieved {
		t.Error("too-small output at max quality must count as achieved")
	}
	if res.Quality != MaxQuality {
		t.Errorf("quality: got %d, want %d", res.Quality, MaxQuality)
	}
	if len(res.Attempts) != 2 {
		t.Errorf("attempts: got %d, want 2 (90, 95)", len(res.Attempts))
	}
	if res.Size() != 50 {
		t.Errorf("size: got %d", res.Size())
	}
}

func TestSearchNeverFitsStopsBelowMinScale(t *testing.T) {
	var resamples int
	s := &Searcher{Resample: countingResampler(&resamples)}
	enc := &stubEncoder{size: constSize(5000), lossy: true}

	res, err := s.Search(sizedImage{1000, 500}, enc, mustBand(t, 100, 1000))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Achieved {
		t.Error("expected not achieved")
	}
	// 17 quality levels at full scale, then one attempt per scale level
	// 0.9^1 .. 0.9^11; 0.9^12 < MinScale ends the search.
	if len(res.Attempts) != 17+11 {
		t.Errorf("attempts: got %d, want 28", len(res.Attempts))
	}
	if resamples != 11 || res.Resamples != 11 {
		t.Errorf("resamples: got %d/%d, want 11", resamples, res.Resamples)
	}
	if res.Scale < MinScale {
		t.Errorf("final scale %v below MinScale", res.Scale)
	}
	if res.Width != 314 || res.Height != 157 {
		t.Errorf("final dims: got %dx%d, want 314x157", res.Width, res.Height)
	}
	if res.Quality != MinQuality {
		t.Errorf("final quality: got %d", res.Quality)
	}
	if res.Size() == 0 {
		t.Error("failed search must still return an artifact")
	}
}

func TestSearchUnreachableCeilingWritesValidJPEG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 5), B: uint8(x ^ y), A: 255})
		}
	}

	// No JPEG fits in 100 bytes: the headers alone are larger.
	res, err := Search(img, &encoder.JPEGEncoder{}, mustBand(t, 1, 100))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Achieved {
		t.Fatal("expected not achieved")
	}
	if res.Size() == 0 {
		t.Fatal("empty artifact")
	}
	got, err := jpeg.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("artifact does not decode: %v", err)
	}
	if got.Bounds().Dx() != 20 || got.Bounds().Dy() != 15 {
		t.Errorf("bounds: got %v, want 20x15", got.Bounds())
	}
}

func TestSearchOscillationHitsCeiling(t *testing.T) {
	// Full scale never fits. Below it, q10 is too small and q15 too big,
	// so quality ping-pongs until the attempt ceiling.
	size := func(w, h, q int) int {
		switch {
		case w == 100:
			return 5000
		case q <= MinQuality:
			return 50
		default:
			return 5000
		}
	}
	var resamples int
	s := &Searcher{Resample: countingResampler(&resamples)}
	enc := &stubEncoder{size: size, lossy: true}

	res, err := s.Search(sizedImage{100, 100}, enc, mustBand(t, 100, 1000))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !res.CeilingHit {
		t.Fatal("expected ceiling")
	}
	if res.Achieved {
		t.Error("ceiling result must not be achieved")
	}
	if len(res.Attempts) != MaxAttempts {
		t.Errorf("attempts: got %d, want %d", len(res.Attempts), MaxAttempts)
	}
	if res.Size() != 50 || res.Quality != MinQuality {
		t.Errorf("expected the under-max artifact, got size=%d q=%d", res.Size(), res.Quality)
	}
	if resamples != 1 {
		t.Errorf("resamples: got %d, want 1", resamples)
	}
}

func TestSearchCustomCeiling(t *testing.T) {
	enc := &stubEncoder{size: constSize(5000), lossy: true}
	s := &Searcher{MaxAttempts: 3}
	res, err := s.Search(sizedImage{10, 10}, enc, mustBand(t, 100, 1000))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !res.CeilingHit || len(res.Attempts) != 3 {
		t.Errorf("got ceiling=%v attempts=%d", res.CeilingHit, len(res.Attempts))
	}
	if res.Size() != 5000 {
		t.Errorf("no under-max artifact, expected last: got %d", res.Size())
	}
}

func TestSearchLosslessReusesEncode(t *testing.T) {
	var resamples int
	s := &Searcher{Resample: countingResampler(&resamples)}
	enc := &stubEncoder{size: constSize(5000), lossy: false}

	res, err := s.Search(sizedImage{200, 100}, enc, mustBand(t, 100, 1000))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Attempts) != 28 {
		t.Errorf("attempts: got %d, want 28", len(res.Attempts))
	}
	// One real encode per scale level.
	if enc.calls != 12 {
		t.Errorf("encode calls: got %d, want 12", enc.calls)
	}
}

func TestSearchEncodeError(t *testing.T) {
	boom := errors.New("disk full")
	enc := &stubEncoder{size: constSize(1), lossy: true, err: boom}

	res, err := New().Search(sizedImage{10, 10}, enc, mustBand(t, 100, 1000))
	if !errors.Is(err, boom) {
		t.Fatalf("err: got %v, want %v", err, boom)
	}
	if res.Achieved || res.Size() != 0 {
		t.Errorf("error result should be empty, got %+v", res)
	}
}

func TestSearchRejectsInvalidBand(t *testing.T) {
	enc := &stubEncoder{size: constSize(1), lossy: true}
	if _, err := New().Search(sizedImage{10, 10}, enc, Band{Min: 10, Max: 5}); !errors.Is(err, ErrInvalidBand) {
		t.Errorf("got %v, want ErrInvalidBand", err)
	}
	if enc.calls != 0 {
		t.Errorf("encoder called %d times", enc.calls)
	}
}

func TestScaledSizeNeverZero(t *testing.T) {
	w, h := scaledSize(3, 1, 0.31)
	if w != 1 || h != 1 {
		t.Errorf("got %dx%d, want 1x1", w, h)
	}
}

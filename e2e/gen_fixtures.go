//go:build ignore

// gen_fixtures creates sample inputs for a bandfit smoke run.
// Usage: go run gen_fixtures.go <output_dir>
//
//	bandfit run --no-tui --report -o <out> <output_dir>
//	bandfit validate <out>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "scans"), 0o755)

	// Noisy photo (JPEG q100, 2400x1600) lands well above the default 1 MB ceiling.
	writeJPEG(filepath.Join(dir, "photo.jpg"), noisy(2400, 1600, 1), 100)

	// Already in band for most profiles.
	writeJPEG(filepath.Join(dir, "banner.JPEG"), gradient(800, 450), 85)

	// Lossless inputs: only downscaling can shrink these.
	writeImage(filepath.Join(dir, "scans", "page-1.png"), noisy(1200, 1600, 2))
	writeBMP(filepath.Join(dir, "scans", "page-2.bmp"), gradient(640, 480))

	// Skipped: bad content under an accepted extension, and an unsupported one.
	os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("not really a jpeg"), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644)

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 6 fixtures in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func noisy(w, h int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := gradient(w, h)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] ^= uint8(rng.Intn(64))
		img.Pix[i+1] ^= uint8(rng.Intn(64))
		img.Pix[i+2] ^= uint8(rng.Intn(64))
	}
	return img
}

func writeImage(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}

func writeBMP(path string, img *image.NRGBA) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := bmp.Encode(f, img); err != nil {
		panic(err)
	}
}

func writeJPEG(path string, img *image.NRGBA, quality int) {
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		panic(err)
	}
}

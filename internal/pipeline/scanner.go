package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/bandfit/internal/encoder"
)

// Source is an accepted input file.
type Source struct {
	// Path is the input path as given.
	Path string
	// Name is the base file name, reused for the output.
	Name string
	// Ext is the format implied by the file extension.
	Ext encoder.Format
}

// imageExtensions lists accepted extensions (lower-case, with dot).
var imageExtensions = map[string]encoder.Format{
	".jpg":  encoder.FormatJPEG,
	".jpeg": encoder.FormatJPEG,
	".png":  encoder.FormatPNG,
	".bmp":  encoder.FormatBMP,
	".webp": encoder.FormatWebP,
}

// Supported reports whether path has an accepted extension, ignoring case.
func Supported(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Filter keeps supported files in input order.
func Filter(paths []string) []Source {
	var sources []Source
	for _, p := range paths {
		f, ok := imageExtensions[strings.ToLower(filepath.Ext(p))]
		if !ok {
			continue
		}
		sources = append(sources, Source{Path: p, Name: filepath.Base(p), Ext: f})
	}
	return sources
}

// ScanDir walks dir and returns supported image files in lexical order.
// Hidden directories are skipped.
func ScanDir(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != dir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if Supported(path) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// Expand replaces directory arguments with their scanned contents. Plain
// files are kept as given, supported or not; Run does the filtering.
func Expand(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, a)
			continue
		}
		files, err := ScanDir(a)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/AnyUserName/bandfit/internal/encoder"
	"github.com/AnyUserName/bandfit/internal/hasher"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// decoded is the per-file image buffer. It never outlives processFile.
type decoded struct {
	img    image.Image
	format encoder.Format
}

// decode reads and decodes src. The format comes from the content, not
// the extension; formats outside the supported set decode as Unknown.
func decode(path string, autoOrient bool) (decoded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return decoded{}, fmt.Errorf("read: %w", err)
	}

	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return decoded{}, err
	}

	var img image.Image
	if autoOrient {
		img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return decoded{}, err
	}
	return decoded{img: img, format: encoder.ParseFormat(name)}, nil
}

// processFile handles one source image: decode, search, write. A returned
// error is always a decode failure; everything later is reported through
// the outcome.
func (r *Runner) processFile(src Source) (FileOutcome, error) {
	dst := filepath.Join(r.cfg.OutputDir, src.Name)
	outcome := FileOutcome{Source: src.Path, Destination: dst}

	buf, err := decode(src.Path, r.cfg.AutoOrient)
	if err != nil {
		return outcome, fileErr(ErrDecode, src.Path, err)
	}
	bounds := buf.img.Bounds()
	r.cfg.Log.Debugf("decoded %s: %dx%d %s", src.Name, bounds.Dx(), bounds.Dy(), buf.format)

	enc, err := r.cfg.Registry.For(buf.format)
	if err != nil {
		return r.fail(outcome, fileErr(ErrEncode, src.Path, err)), nil
	}
	outcome.Format = enc.Format()

	res, err := r.cfg.Searcher.Search(buf.img, enc, r.cfg.Band)
	if err != nil {
		return r.fail(outcome, fileErr(ErrEncode, src.Path, err)), nil
	}

	for i, a := range res.Attempts {
		r.cfg.Log.Debugf("  %s attempt %d: q=%d scale=%.3f %dx%d -> %d bytes",
			src.Name, i+1, a.Quality, a.Scale, a.Width, a.Height, a.Size)
	}
	if res.CeilingHit {
		r.cfg.Log.Warnf("%s: search stopped after %d attempts", src.Name, len(res.Attempts))
	}

	if err := writeAtomic(dst, res.Data); err != nil {
		return r.fail(outcome, fileErr(ErrIO, dst, err)), nil
	}

	outcome.Achieved = res.Achieved
	outcome.Bytes = res.Size()
	outcome.Width = res.Width
	outcome.Height = res.Height
	outcome.Quality = res.Quality
	outcome.Scale = res.Scale
	outcome.Attempts = len(res.Attempts)
	outcome.Hash = hasher.Sum(res.Data)
	return outcome, nil
}

func (r *Runner) fail(o FileOutcome, err error) FileOutcome {
	r.cfg.Log.Errorf("%v", err)
	o.Achieved = false
	o.Bytes = 0
	o.Err = err.Error()
	o.cause = err
	return o
}

// writeAtomic writes data next to dst and renames it into place, so a
// failed write never leaves a partial file at dst.
func writeAtomic(dst string, data []byte) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	committed = true
	return nil
}

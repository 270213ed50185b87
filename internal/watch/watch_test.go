package watch

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AnyUserName/bandfit/internal/fit"
	"github.com/AnyUserName/bandfit/internal/jobs"
	"github.com/AnyUserName/bandfit/internal/pipeline"
)

var wideBand = fit.Band{Min: 1, Max: 10 << 20}

func writeJPEG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 10), B: 90, A: 255})
		}
	}
	// Write under a hidden name and rename so the watcher sees a complete file.
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path))
	f, err := os.Create(tmp)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename: %v", err)
	}
}

func TestNewValidates(t *testing.T) {
	m := jobs.NewManager(pipeline.Config{})
	dir := t.TempDir()

	if _, err := New(Config{OutputDir: dir, Band: wideBand}, m); err == nil {
		t.Error("expected error for empty dir")
	}
	if _, err := New(Config{Dir: dir, OutputDir: dir, Band: wideBand}, m); err == nil {
		t.Error("expected error when output equals watched dir")
	}
	if _, err := New(Config{Dir: dir, OutputDir: filepath.Join(dir, "out")}, m); err == nil {
		t.Error("expected error for zero band")
	}

	w, err := New(Config{Dir: dir, OutputDir: filepath.Join(dir, "out"), Band: wideBand}, m)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w.cfg.Settle != DefaultSettle {
		t.Errorf("settle: got %v", w.cfg.Settle)
	}
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "/in/a.jpg", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/in/a.PNG", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/in/a.jpg", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "/in/a.jpg", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/in/.a.jpg", Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: "/in/a.txt", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		if got := relevant(tt.ev); got != tt.want {
			t.Errorf("relevant(%v) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestPendingSet(t *testing.T) {
	p := newPendingSet()
	p.add("/b.jpg")
	p.add("/a.jpg")
	p.add("/b.jpg")
	if p.len() != 2 {
		t.Fatalf("len: got %d", p.len())
	}

	files := p.take()
	if len(files) != 2 || files[0] != "/a.jpg" || files[1] != "/b.jpg" {
		t.Errorf("take: got %v", files)
	}
	if p.len() != 0 {
		t.Error("take should empty the set")
	}

	p.restore(files)
	if p.len() != 2 {
		t.Errorf("restore: got %d", p.len())
	}
}

func TestWatcherSubmitsDroppedFiles(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")

	jobsSeen := make(chan *jobs.Job, 4)
	m := jobs.NewManager(pipeline.Config{})
	w, err := New(Config{
		Dir:       in,
		OutputDir: out,
		Band:      wideBand,
		Settle:    50 * time.Millisecond,
		OnJob:     func(j *jobs.Job) { jobsSeen <- j },
	}, m)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before dropping files.
	time.Sleep(100 * time.Millisecond)
	writeJPEG(t, filepath.Join(in, "photo.jpg"))
	os.WriteFile(filepath.Join(in, "notes.txt"), []byte("ignored"), 0o644)

	select {
	case job := <-jobsSeen:
		res := job.Wait()
		if len(res.Outcomes) != 1 {
			t.Fatalf("outcomes: got %d, want 1", len(res.Outcomes))
		}
		if res.Outcomes[0].Destination != filepath.Join(out, "photo.jpg") {
			t.Errorf("destination: got %s", res.Outcomes[0].Destination)
		}
		if !res.Outcomes[0].Achieved {
			t.Errorf("expected achieved: %+v", res.Outcomes[0])
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no job submitted")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunFailsForMissingDir(t *testing.T) {
	m := jobs.NewManager(pipeline.Config{})
	w, err := New(Config{
		Dir:       filepath.Join(t.TempDir(), "missing"),
		OutputDir: t.TempDir(),
		Band:      wideBand,
	}, m)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Run(context.Background()); err == nil {
		t.Error("expected error watching a missing dir")
	}
}

package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/raster-bridge/internal/encoding"
	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/ironsheep/raster-bridge/internal/layout"
)

// writePNG encodes img into a PNG file under the test's temp dir.
func writePNG(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := writePNG(t, "red.png", createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255}))

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	bounds := img1.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x100", bounds.Dx(), bounds.Dy())
	}

	// Second load should return cached image
	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
}

func TestImageCache_Load_Invalid(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load("/nonexistent/path/to/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}

	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := cache.Load(bad); err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestImageCache_ClearAndEvict(t *testing.T) {
	cache := NewImageCache()
	a := writePNG(t, "a.png", createInMemoryImage(8, 8, color.RGBA{0, 255, 0, 255}))
	b := writePNG(t, "b.png", createInMemoryImage(8, 8, color.RGBA{0, 0, 255, 255}))
	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	cache.Evict(a)
	cache.Evict("/nonexistent/path")
	cache.mu.RLock()
	_, hasA := cache.images[a]
	_, hasB := cache.images[b]
	cache.mu.RUnlock()
	if hasA || !hasB {
		t.Errorf("after Evict: has a=%v b=%v, want false true", hasA, hasB)
	}

	cache.Clear()
	cache.mu.RLock()
	count := len(cache.images)
	cache.mu.RUnlock()
	if count != 0 {
		t.Errorf("Clear did not empty cache: %d images remain", count)
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := writePNG(t, "gray.png", createInMemoryImage(50, 50, color.RGBA{128, 128, 128, 255}))

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestImport(t *testing.T) {
	h := host.New(host.Options{})
	cache := NewImageCache()
	imgPath := writePNG(t, "pattern.png", createPatternImage(40, 20))

	e, info, err := Import(h, cache, imgPath, "")
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if info.Element != "pattern.png" || e.Filename() != imgPath {
		t.Errorf("got element %q filename %q", info.Element, e.Filename())
	}
	if info.Width != 40 || info.Height != 20 || info.Format != "png" || info.FileSizeBytes <= 0 {
		t.Errorf("unexpected info %+v", info)
	}

	rows, cols, bands := e.Extents()
	if rows != 20 || cols != 40 || bands != ImportBands {
		t.Fatalf("extents: got %dx%dx%d", rows, cols, bands)
	}
	if e.Encoding() != encoding.Int8u || e.Interleave() != layout.BSQ {
		t.Errorf("got %s %s, want int8u bsq", e.Encoding(), e.Interleave())
	}

	tests := []struct {
		name     string
		row, col int
		rgb      [3]float64
	}{
		{"red top-left", 2, 2, [3]float64{255, 0, 0}},
		{"green top-right", 2, 30, [3]float64{0, 255, 0}},
		{"blue bottom-left", 15, 2, [3]float64{0, 0, 255}},
		{"white bottom-right", 15, 30, [3]float64{255, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for band, want := range tt.rgb {
				if got := real(e.Value(tt.row, tt.col, band)); got != want {
					t.Errorf("band %d: got %v, want %v", band, got, want)
				}
			}
		})
	}

	if _, _, err := Import(h, cache, imgPath, ""); !errors.Is(err, host.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists on second import, got %v", err)
	}
	if _, _, err := Import(h, cache, imgPath, "copy"); err != nil {
		t.Errorf("Import under another name failed: %v", err)
	}
}

func TestImport_ErrorsLeaveModelUnchanged(t *testing.T) {
	h := host.New(host.Options{})
	cache := NewImageCache()
	imgPath := writePNG(t, "pattern.png", createPatternImage(8, 8))
	if _, _, err := Import(h, cache, imgPath, "taken"); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	before := h.Model.Len()

	tests := []struct {
		name string
		path string
		elem string
	}{
		{"missing file", filepath.Join(t.TempDir(), "missing.png"), ""},
		{"name taken", imgPath, "taken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Import(h, cache, tt.path, tt.elem); err == nil {
				t.Fatal("expected an error")
			}
			if got := h.Model.Len(); got != before {
				t.Errorf("element count changed from %d to %d", before, got)
			}
		})
	}
}

package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/raster-bridge/internal/encoding"
	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/ironsheep/raster-bridge/internal/layout"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestSampleColor(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 128, 64, 255})

	result, err := SampleColor(img, 50, 50)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}
	if result.RGB.R != 255 || result.RGB.G != 128 || result.RGB.B != 64 {
		t.Errorf("RGB: got (%d,%d,%d), want (255,128,64)", result.RGB.R, result.RGB.G, result.RGB.B)
	}
	// #FF8040 is hue 20, full saturation, lightness 62
	if result.HSL.H != 20 || result.HSL.S < 99 || result.HSL.L < 62 || result.HSL.L > 63 {
		t.Errorf("HSL: got %+v", result.HSL)
	}
}

func TestSampleColor_Gray(t *testing.T) {
	img := createInMemoryImage(4, 4, color.RGBA{128, 128, 128, 255})

	result, err := SampleColor(img, 0, 0)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if result.HSL.H != 0 || result.HSL.S != 0 {
		t.Errorf("gray should have no hue or saturation, got %+v", result.HSL)
	}
}

func TestSampleColor_Quadrants(t *testing.T) {
	img := createPatternImage(100, 100)

	tests := []struct {
		name string
		x, y int
		hex  string
	}{
		{"top-left", 10, 10, "#FF0000"},
		{"top-right", 90, 10, "#00FF00"},
		{"bottom-left", 10, 90, "#0000FF"},
		{"bottom-right", 90, 90, "#FFFFFF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := SampleColor(img, tt.x, tt.y)
			if err != nil {
				t.Fatalf("SampleColor failed: %v", err)
			}
			if result.Hex != tt.hex {
				t.Errorf("got %s, want %s", result.Hex, tt.hex)
			}
		})
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 50},
		{"negative y", 50, -1},
		{"x at width", 100, 50},
		{"y at height", 50, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SampleColor(img, tt.x, tt.y); err == nil {
				t.Error("SampleColor should fail for out-of-bounds coordinates")
			}
		})
	}
}

func TestProbe(t *testing.T) {
	e, err := host.NewRasterElement(host.ElementSpec{
		Name: "probe", Rows: 2, Cols: 3, Bands: 2,
		Encoding: encoding.Complex64, Interleave: layout.BIP,
	})
	if err != nil {
		t.Fatalf("NewRasterElement failed: %v", err)
	}
	l := host.NewRasterLayer("probe", e)
	img := createInMemoryImage(3, 2, color.RGBA{10, 20, 30, 255})

	probe, err := Probe(l, img, 1, 2)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if len(probe.Values) != 2 {
		t.Fatalf("Values: got %d bands, want 2", len(probe.Values))
	}
	if probe.Displayed.Hex != "#0A141E" {
		t.Errorf("Displayed: got %s, want #0A141E", probe.Displayed.Hex)
	}

	if _, err := Probe(l, img, 2, 0); err == nil {
		t.Error("Probe should fail outside the raster")
	}
}

func TestSampleColor_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 20, 14, 24))
	img.Set(10, 20, color.RGBA{1, 2, 3, 255})

	got, err := SampleColor(img, 10, 20)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if got.Hex != "#010203" {
		t.Errorf("got %s, want #010203", got.Hex)
	}
	if _, err := SampleColor(img, 0, 0); err == nil {
		t.Error("(0, 0) lies outside bounds starting at (10, 20)")
	}
}

func TestProbe_Errors(t *testing.T) {
	img := createInMemoryImage(3, 2, color.RGBA{10, 20, 30, 255})
	if _, err := Probe(host.NewRasterLayer("empty", nil), img, 0, 0); !errors.Is(err, ErrNothingToRender) {
		t.Errorf("expected ErrNothingToRender, got %v", err)
	}

	e, err := host.NewRasterElement(host.ElementSpec{
		Name: "wide", Rows: 2, Cols: 5, Bands: 1,
		Encoding: encoding.Int8u, Interleave: layout.BSQ,
	})
	if err != nil {
		t.Fatalf("NewRasterElement failed: %v", err)
	}
	// The rendering is narrower than the raster.
	if _, err := Probe(host.NewRasterLayer("wide", e), img, 0, 4); err == nil {
		t.Error("Probe should fail outside the rendered image")
	}
}

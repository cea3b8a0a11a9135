package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult is one displayed color in several notations.
type ColorResult struct {
	Hex string   `json:"hex"` // "#RRGGBB"
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`
}

// BandValue is the data under a probed pixel in one band.
type BandValue struct {
	Band int     `json:"band"`
	Real float64 `json:"real"`
	Imag float64 `json:"imag,omitempty"`
}

// PixelProbe reports the data and the displayed color at one pixel.
type PixelProbe struct {
	Row       int         `json:"row"`
	Column    int         `json:"column"`
	Values    []BandValue `json:"values"`
	Displayed ColorResult `json:"displayed"`
}

// Probe reads every band of the layer's element at one pixel along with
// the color the rendering shows there.
//
// Parameters:
//   - l: The raster layer whose element is read.
//   - img: The layer as rendered, with the element's pixel grid.
//   - row: Row in the element (0-based).
//   - col: Column in the element (0-based).
//
// Returns:
//   - *PixelProbe: Every band's value, real and imaginary, plus the
//     displayed color.
//   - error: Non-nil if the layer has no element or the pixel is outside it.
//
// # Errors
//
// A layer without an element returns ErrNothingToRender. A pixel outside
// the raster, or outside img, returns a bounds error naming the pixel.
func Probe(l *host.RasterLayer, img image.Image, row, col int) (*PixelProbe, error) {
	e := l.Element()
	if e == nil {
		return nil, fmt.Errorf("%w: %q", ErrNothingToRender, l.Name())
	}
	rows, cols, bands := e.Extents()
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return nil, fmt.Errorf("pixel (%d,%d) outside %dx%d raster", col, row, cols, rows)
	}

	probe := &PixelProbe{Row: row, Column: col, Values: make([]BandValue, bands)}
	for b := 0; b < bands; b++ {
		v := e.Value(row, col, b)
		probe.Values[b] = BandValue{Band: b, Real: real(v), Imag: imag(v)}
	}

	bounds := img.Bounds()
	result, err := SampleColor(img, bounds.Min.X+col, bounds.Min.Y+row)
	if err != nil {
		return nil, err
	}
	probe.Displayed = *result
	return probe, nil
}

// SampleColor extracts the color at a pixel coordinate.
//
// Parameters:
//   - img: The source image to sample from.
//   - x: X coordinate in img's bounds.
//   - y: Y coordinate in img's bounds.
//
// Returns:
//   - *ColorResult: The color at (x, y) as hex, RGB, RGBA and HSL.
//   - error: Non-nil if the coordinates are outside the image bounds.
//
// # Errors
//
// Coordinates are checked against img.Bounds(), so an image whose bounds do
// not start at the origin rejects (0, 0) when it lies outside them.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c, _ := colorful.MakeColor(img.At(x, y))
	r8, g8, b8 := c.RGB255()
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}

	return &ColorResult{
		Hex: fmt.Sprintf("#%02X%02X%02X", r8, g8, b8),
		RGB: RGBColor{R: r8, G: g8, B: b8},
		HSL: HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}, nil
}

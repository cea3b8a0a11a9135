package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/parallel"
	"github.com/ironsheep/raster-bridge/internal/host"
)

// ErrNothingToRender is returned for a layer without a raster element.
var ErrNothingToRender = errors.New("layer has no raster element")

// channelMap resolves one display channel to its band, statistics and raw
// stretch bounds.
type channelMap struct {
	band   int
	stats  Statistics
	lo, hi float64
	kind   host.StretchType
}

func newChannelMap(l *host.RasterLayer, c host.Channel, stats map[int]Statistics) channelMap {
	e := l.Element()
	band := l.DisplayedBand(c)
	s, ok := stats[band]
	if !ok {
		s = BandStatistics(e, band)
		stats[band] = s
	}
	st := l.Stretch(c)
	return channelMap{
		band:  band,
		stats: s,
		lo:    s.ToRaw(st.Lower, st.Units),
		hi:    s.ToRaw(st.Upper, st.Units),
		kind:  l.StretchType(l.DisplayMode()),
	}
}

// value maps a data value onto 0..1 through the stretch.
func (m channelMap) value(v float64) float64 {
	if m.kind == host.Equalization {
		return m.stats.Rank(v)
	}
	if m.hi == m.lo {
		if v >= m.hi {
			return 1
		}
		return 0
	}
	t := math.Max(0, math.Min(1, (v-m.lo)/(m.hi-m.lo)))
	switch m.kind {
	case host.Logarithmic:
		return math.Log10(1 + 9*t)
	case host.Exponential:
		return (math.Pow(10, t) - 1) / 9
	default:
		return t
	}
}

func (m channelMap) level(e *host.RasterElement, row, col int) uint8 {
	return uint8(math.Round(m.value(sample(e, row, col, m.band)) * 255))
}

// Render draws a raster layer. Grayscale layers go through the layer's
// colormap when one is set. With GPU display on, enabled filters run in
// their supported order.
func Render(l *host.RasterLayer) (image.Image, error) {
	e := l.Element()
	if e == nil {
		return nil, fmt.Errorf("%w: %q", ErrNothingToRender, l.Name())
	}
	rows, cols, _ := e.Extents()
	out := image.NewRGBA(image.Rect(0, 0, cols, rows))

	stats := map[int]Statistics{}
	_, cmap := l.Colormap()
	var draw func(row, col int) color.RGBA

	if l.DisplayMode() == host.RGBMode {
		red := newChannelMap(l, host.Red, stats)
		green := newChannelMap(l, host.Green, stats)
		blue := newChannelMap(l, host.Blue, stats)
		draw = func(row, col int) color.RGBA {
			return color.RGBA{
				R: red.level(e, row, col),
				G: green.level(e, row, col),
				B: blue.level(e, row, col),
				A: 255,
			}
		}
	} else {
		gray := newChannelMap(l, host.Gray, stats)
		draw = func(row, col int) color.RGBA {
			v := gray.level(e, row, col)
			if len(cmap) == host.ColormapSize {
				c := cmap[v]
				return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
			}
			return color.RGBA{R: v, G: v, B: v, A: 255}
		}
	}

	parallel.Line(rows, func(start, end int) {
		for row := start; row < end; row++ {
			for col := 0; col < cols; col++ {
				out.SetRGBA(col, row, draw(row, col))
			}
		}
	})

	var img image.Image = out
	if l.GpuImageEnabled() {
		for _, f := range l.EnabledFilters() {
			img = applyFilter(img, f)
		}
	}
	log.Debugf("rendered layer %q (%dx%d)", l.Name(), cols, rows)
	return img, nil
}

func applyFilter(img image.Image, name string) image.Image {
	switch name {
	case host.FilterEdgeDetection:
		return effect.EdgeDetection(img, 1)
	case host.FilterSharpening:
		return effect.Sharpen(img)
	case host.FilterSmoothing:
		return blur.Gaussian(img, 1.5)
	case host.FilterEmboss:
		return effect.Emboss(img)
	default:
		return img
	}
}

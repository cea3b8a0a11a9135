package host

import (
	"fmt"
	"image/color"
	"strings"
)

// Channel is a display channel of a raster layer.
type Channel int

const (
	Gray Channel = iota
	Red
	Green
	Blue
)

var channelNames = [...]string{"GRAY", "RED", "GREEN", "BLUE"}

func (c Channel) String() string {
	if c >= Gray && c <= Blue {
		return channelNames[c]
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// ParseChannel accepts GRAY, RED, GREEN or BLUE in any case.
func ParseChannel(s string) (Channel, error) {
	for i, name := range channelNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Channel(i), nil
		}
	}
	return Gray, fmt.Errorf("%w: unknown channel %q", ErrInvalid, s)
}

// RegionUnits says how stretch bounds are measured.
type RegionUnits int

const (
	RawValue RegionUnits = iota
	Percentage
	Percentile
	StdDev
)

var regionUnitNames = [...]string{"raw", "percentage", "percentile", "stddev"}

func (u RegionUnits) String() string {
	if u >= RawValue && u <= StdDev {
		return regionUnitNames[u]
	}
	return fmt.Sprintf("units(%d)", int(u))
}

// ParseRegionUnits accepts "raw", "percentage", "percentile" or "stddev"
// in any case. "raw_value" and "std_dev" are also accepted.
func ParseRegionUnits(s string) (RegionUnits, error) {
	v := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "")
	if v == "rawvalue" {
		v = "raw"
	}
	for i, name := range regionUnitNames {
		if v == name {
			return RegionUnits(i), nil
		}
	}
	return RawValue, fmt.Errorf("%w: unknown stretch method %q", ErrInvalid, s)
}

// StretchType is the transfer function applied between the stretch bounds.
type StretchType int

const (
	Linear StretchType = iota
	Logarithmic
	Exponential
	Equalization
)

var stretchTypeNames = [...]string{"linear", "logarithmic", "exponential", "equalization"}

func (t StretchType) String() string {
	if t >= Linear && t <= Equalization {
		return stretchTypeNames[t]
	}
	return fmt.Sprintf("stretch(%d)", int(t))
}

// ParseStretchType accepts the String forms in any case.
func ParseStretchType(s string) (StretchType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, name := range stretchTypeNames {
		if v == name {
			return StretchType(i), nil
		}
	}
	return Linear, fmt.Errorf("%w: unknown stretch type %q", ErrInvalid, s)
}

// DisplayMode selects single-channel or three-channel display.
type DisplayMode int

const (
	GrayscaleMode DisplayMode = iota
	RGBMode
)

func (m DisplayMode) String() string {
	switch m {
	case GrayscaleMode:
		return "grayscale"
	case RGBMode:
		return "rgb"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseDisplayMode accepts "grayscale"/"gray" or "rgb".
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grayscale", "gray", "grayscale_mode":
		return GrayscaleMode, nil
	case "rgb", "rgb_mode":
		return RGBMode, nil
	default:
		return GrayscaleMode, fmt.Errorf("%w: unknown display mode %q", ErrInvalid, s)
	}
}

// Stretch holds one channel's display bounds.
type Stretch struct {
	Lower float64
	Upper float64
	Units RegionUnits
}

// Filter names a display filter a raster layer can apply.
const (
	FilterEdgeDetection = "Edge Detection"
	FilterSharpening    = "Sharpening"
	FilterSmoothing     = "Gaussian Smoothing"
	FilterEmboss        = "Emboss"
)

var supportedFilters = []string{FilterEdgeDetection, FilterSharpening, FilterSmoothing, FilterEmboss}

// RasterLayer displays a raster element.
type RasterLayer struct {
	layerBase

	stretch      [4]Stretch
	stretchTypes [2]StretchType
	mode         DisplayMode
	bands        [4]int

	colormapName string
	colormap     []color.NRGBA

	gpu       bool
	filters   map[string]bool
	animation *Animation
}

// NewRasterLayer returns a layer over e with percentile 2..98 linear
// stretches. Elements with three or more bands start in RGB mode.
func NewRasterLayer(name string, e *RasterElement) *RasterLayer {
	l := &RasterLayer{
		layerBase: layerBase{name: name, element: e},
		filters:   map[string]bool{},
	}
	for i := range l.stretch {
		l.stretch[i] = Stretch{Lower: 2, Upper: 98, Units: Percentile}
	}
	if e != nil {
		_, _, bands := e.Extents()
		if bands >= 3 {
			l.mode = RGBMode
		}
		for c := Red; c <= Blue; c++ {
			l.bands[c] = min(int(c)-1, bands-1)
		}
	}
	return l
}

func (l *RasterLayer) Stretch(c Channel) Stretch { return l.stretch[c] }

// SetStretchValues changes the bounds of channel c, keeping its units.
func (l *RasterLayer) SetStretchValues(c Channel, lower, upper float64) {
	l.stretch[c].Lower = lower
	l.stretch[c].Upper = upper
}

func (l *RasterLayer) SetStretchUnits(c Channel, u RegionUnits) { l.stretch[c].Units = u }

func (l *RasterLayer) StretchType(m DisplayMode) StretchType { return l.stretchTypes[m] }

func (l *RasterLayer) SetStretchType(m DisplayMode, t StretchType) { l.stretchTypes[m] = t }

func (l *RasterLayer) DisplayMode() DisplayMode { return l.mode }

func (l *RasterLayer) SetDisplayMode(m DisplayMode) { l.mode = m }

// DisplayedBand returns the band shown on channel c.
func (l *RasterLayer) DisplayedBand(c Channel) int { return l.bands[c] }

// SetDisplayedBand shows band b on channel c.
func (l *RasterLayer) SetDisplayedBand(c Channel, b int) error {
	if l.element != nil {
		if _, _, bands := l.element.Extents(); b < 0 || b >= bands {
			return fmt.Errorf("%w: band %d outside [0, %d)", ErrInvalid, b, bands)
		}
	}
	l.bands[c] = b
	return nil
}

// Colormap returns the colormap name and table used in grayscale mode. The
// table is nil when no colormap is set.
func (l *RasterLayer) Colormap() (string, []color.NRGBA) { return l.colormapName, l.colormap }

// ColormapSize is the number of entries in a colormap table, one per
// display level.
const ColormapSize = 256

// SetColormap installs a colormap table of ColormapSize entries.
func (l *RasterLayer) SetColormap(name string, table []color.NRGBA) error {
	if len(table) != ColormapSize {
		return fmt.Errorf("%w: colormap %q has %d entries, want %d", ErrInvalid, name, len(table), ColormapSize)
	}
	l.colormapName = name
	l.colormap = append([]color.NRGBA(nil), table...)
	return nil
}

func (l *RasterLayer) GpuImageEnabled() bool { return l.gpu }

// EnableGpuImage turns GPU display on or off. Turning it off drops every
// enabled filter.
func (l *RasterLayer) EnableGpuImage(on bool) {
	l.gpu = on
	if !on {
		l.filters = map[string]bool{}
	}
}

// SupportedFilters lists the filters the layer can apply. Filters need
// GPU display, so the list is empty while it is off.
func (l *RasterLayer) SupportedFilters() []string {
	if !l.gpu {
		return nil
	}
	return append([]string(nil), supportedFilters...)
}

// EnableFilter turns on a supported filter.
func (l *RasterLayer) EnableFilter(name string) error {
	if !l.supports(name) {
		return fmt.Errorf("%w: filter %q is not supported by layer %q", ErrInvalid, name, l.name)
	}
	l.filters[name] = true
	return nil
}

// DisableFilter turns off a supported filter.
func (l *RasterLayer) DisableFilter(name string) error {
	if !l.supports(name) {
		return fmt.Errorf("%w: filter %q is not supported by layer %q", ErrInvalid, name, l.name)
	}
	delete(l.filters, name)
	return nil
}

func (l *RasterLayer) supports(name string) bool {
	for _, f := range l.SupportedFilters() {
		if f == name {
			return true
		}
	}
	return false
}

// EnabledFilters returns the enabled filters in supported order.
func (l *RasterLayer) EnabledFilters() []string {
	var out []string
	for _, f := range supportedFilters {
		if l.filters[f] {
			out = append(out, f)
		}
	}
	return out
}

func (l *RasterLayer) Animation() *Animation { return l.animation }

func (l *RasterLayer) SetAnimation(a *Animation) { l.animation = a }

package imaging

import (
	"image"
	"math"
	"math/cmplx"

	"github.com/anthonynsimon/bild/histogram"
	"github.com/ironsheep/raster-bridge/internal/encoding"
	"github.com/ironsheep/raster-bridge/internal/host"
)

// Statistics summarizes one band of a raster element.
type Statistics struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64

	// cumulative[i] counts samples in histogram bins 0..i.
	cumulative []int
	count      int
}

// sample reads one element as a real number. Complex data is displayed by
// magnitude.
func sample(e *host.RasterElement, row, col, band int) float64 {
	v := e.Value(row, col, band)
	if encoding.IsComplex(e.Encoding()) {
		return cmplx.Abs(v)
	}
	return real(v)
}

// BandStatistics scans a band once for its range and moments, then bins it
// into a 256-level histogram for percentile and equalization lookups.
func BandStatistics(e *host.RasterElement, band int) Statistics {
	rows, cols, _ := e.Extents()
	s := Statistics{Min: math.Inf(1), Max: math.Inf(-1), count: rows * cols}
	if s.count == 0 {
		return Statistics{}
	}

	var sum, sumSq float64
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := sample(e, r, c, band)
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
			sum += v
			sumSq += v * v
		}
	}
	n := float64(s.count)
	s.Mean = sum / n
	s.StdDev = math.Sqrt(math.Max(0, sumSq/n-s.Mean*s.Mean))

	gray := image.NewGray(image.Rect(0, 0, cols, rows))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			gray.Pix[r*gray.Stride+c] = s.level(sample(e, r, c, band))
		}
	}
	hist := histogram.NewRGBAHistogram(gray).Cumulative()
	s.cumulative = hist.R.Bins
	return s
}

// level maps v onto 0..255 across the band's data range.
func (s Statistics) level(v float64) uint8 {
	if s.Max <= s.Min {
		return 0
	}
	t := (v - s.Min) / (s.Max - s.Min)
	return uint8(math.Round(math.Max(0, math.Min(1, t)) * 255))
}

// binValue is the data value at the lower edge of histogram bin i.
func (s Statistics) binValue(i int) float64 {
	return s.Min + float64(i)/255*(s.Max-s.Min)
}

// Percentile returns the data value below which p percent of the band
// lies, to histogram resolution.
func (s Statistics) Percentile(p float64) float64 {
	if s.count == 0 || len(s.cumulative) == 0 {
		return 0
	}
	target := math.Max(0, math.Min(100, p)) / 100 * float64(s.count)
	for i, c := range s.cumulative {
		if float64(c) >= target {
			return s.binValue(i)
		}
	}
	return s.Max
}

// Rank returns the fraction of the band at or below v, for histogram
// equalization.
func (s Statistics) Rank(v float64) float64 {
	if s.count == 0 || len(s.cumulative) == 0 {
		return 0
	}
	return float64(s.cumulative[s.level(v)]) / float64(s.count)
}

// ToRaw converts a stretch bound in units u to a data value.
func (s Statistics) ToRaw(v float64, u host.RegionUnits) float64 {
	switch u {
	case host.Percentage:
		return s.Min + v/100*(s.Max-s.Min)
	case host.Percentile:
		return s.Percentile(v)
	case host.StdDev:
		return s.Mean + v*s.StdDev
	default:
		return v
	}
}

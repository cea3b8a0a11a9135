package raster

import "fmt"

// Bound is an optional inclusive index along one axis.
type Bound struct {
	Value int
	Set   bool
}

// At returns a set Bound.
func At(v int) Bound { return Bound{Value: v, Set: true} }

// Region selects a sub-cube. Unset bounds default to the full extent of
// their axis.
type Region struct {
	RowStart, RowEnd   Bound
	ColStart, ColEnd   Bound
	BandStart, BandEnd Bound
}

// Bounds is a Region with every bound resolved against a cube's extents.
// All ends are inclusive.
type Bounds struct {
	RowStart, RowEnd   int
	ColStart, ColEnd   int
	BandStart, BandEnd int
}

// Full returns the bounds of the whole cube.
func Full(rows, cols, bands int) Bounds {
	return Bounds{RowEnd: rows - 1, ColEnd: cols - 1, BandEnd: bands - 1}
}

// Resolve fills unset bounds from the extents and checks that every axis
// satisfies 0 <= start <= end < extent.
func (r Region) Resolve(rows, cols, bands int) (Bounds, error) {
	b := Bounds{
		RowStart:  pick(r.RowStart, 0),
		RowEnd:    pick(r.RowEnd, rows-1),
		ColStart:  pick(r.ColStart, 0),
		ColEnd:    pick(r.ColEnd, cols-1),
		BandStart: pick(r.BandStart, 0),
		BandEnd:   pick(r.BandEnd, bands-1),
	}
	if err := checkAxis("row", b.RowStart, b.RowEnd, rows); err != nil {
		return Bounds{}, err
	}
	if err := checkAxis("column", b.ColStart, b.ColEnd, cols); err != nil {
		return Bounds{}, err
	}
	if err := checkAxis("band", b.BandStart, b.BandEnd, bands); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

func pick(b Bound, def int) int {
	if b.Set {
		return b.Value
	}
	return def
}

func checkAxis(name string, start, end, extent int) error {
	if start < 0 || start > end || end >= extent {
		return fmt.Errorf("%w: %s range [%d, %d] outside [0, %d)", ErrInvalidRegion, name, start, end, extent)
	}
	return nil
}

// Extents returns the size of the selected sub-cube along each axis.
func (b Bounds) Extents() (rows, cols, bands int) {
	return b.RowEnd - b.RowStart + 1, b.ColEnd - b.ColStart + 1, b.BandEnd - b.BandStart + 1
}

// Volume returns the number of elements in the sub-cube.
func (b Bounds) Volume() int {
	r, c, n := b.Extents()
	return r * c * n
}

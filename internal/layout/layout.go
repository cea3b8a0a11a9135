package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/raster-bridge/internal/encoding"
)

// ErrInvalidExtent is returned when an extent or a dimension list cannot
// describe a raster cube.
var ErrInvalidExtent = errors.New("invalid raster extent")

// Interleave is the host's storage arrangement of a multi-band cube.
type Interleave int

const (
	BSQ Interleave = iota + 1
	BIL
	BIP
)

func (i Interleave) String() string {
	switch i {
	case BSQ:
		return "BSQ"
	case BIL:
		return "BIL"
	case BIP:
		return "BIP"
	default:
		return fmt.Sprintf("interleave(%d)", int(i))
	}
}

// ParseInterleave accepts "bsq", "bil" or "bip" in any case.
func ParseInterleave(s string) (Interleave, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BSQ":
		return BSQ, nil
	case "BIL":
		return BIL, nil
	case "BIP":
		return BIP, nil
	default:
		return 0, fmt.Errorf("unknown interleave %q", s)
	}
}

// Axis names one dimension of a raster cube.
type Axis int

const (
	Rows Axis = iota
	Columns
	Bands
)

func (a Axis) String() string {
	switch a {
	case Rows:
		return "rows"
	case Columns:
		return "columns"
	case Bands:
		return "bands"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Dim is one axis of an Order together with its extent.
type Dim struct {
	Axis   Axis
	Extent int
}

// Order lists the axes of an array, fastest varying first.
type Order []Dim

// Compute returns the dimension order an interpreter array uses for a cube
// of the given interleave and extents.
func Compute(il Interleave, rows, cols, bands int) (Order, error) {
	if err := checkExtents(rows, cols, bands); err != nil {
		return nil, err
	}
	r, c, b := Dim{Rows, rows}, Dim{Columns, cols}, Dim{Bands, bands}
	if bands == 1 {
		return Order{c, r}, nil
	}
	switch il {
	case BSQ:
		return Order{b, c, r}, nil
	case BIL:
		return Order{c, b, r}, nil
	case BIP:
		return Order{c, r, b}, nil
	default:
		return nil, fmt.Errorf("%w: unknown interleave %s", ErrInvalidExtent, il)
	}
}

// Storage returns the order in which the host keeps a cube's elements in
// memory, fastest varying first. A single-band cube is [cols, rows] in every
// interleave.
func Storage(il Interleave, rows, cols, bands int) (Order, error) {
	if err := checkExtents(rows, cols, bands); err != nil {
		return nil, err
	}
	r, c, b := Dim{Rows, rows}, Dim{Columns, cols}, Dim{Bands, bands}
	if bands == 1 {
		return Order{c, r}, nil
	}
	switch il {
	case BSQ:
		return Order{c, r, b}, nil
	case BIL:
		return Order{c, b, r}, nil
	case BIP:
		return Order{b, c, r}, nil
	default:
		return nil, fmt.Errorf("%w: unknown interleave %s", ErrInvalidExtent, il)
	}
}

// Extents inverts Compute: given the dimensions of an interpreter array and
// the interleave it is meant to have, it recovers the cube extents. Two
// dimensions always mean a single-band [cols, rows] array and one dimension
// a single row.
func Extents(il Interleave, dims []int) (rows, cols, bands int, err error) {
	if _, err := encoding.Count(dims...); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrInvalidExtent, err)
	}
	switch len(dims) {
	case 1:
		return 1, dims[0], 1, nil
	case 2:
		return dims[1], dims[0], 1, nil
	case 3:
	default:
		return 0, 0, 0, fmt.Errorf("%w: %d dimensions", ErrInvalidExtent, len(dims))
	}
	switch il {
	case BSQ:
		return dims[2], dims[1], dims[0], nil
	case BIL:
		return dims[2], dims[0], dims[1], nil
	case BIP:
		return dims[1], dims[0], dims[2], nil
	default:
		return 0, 0, 0, fmt.Errorf("%w: unknown interleave %s", ErrInvalidExtent, il)
	}
}

func checkExtents(rows, cols, bands int) error {
	if _, err := encoding.Count(rows, cols, bands); err != nil {
		return fmt.Errorf("%w: rows=%d cols=%d bands=%d", ErrInvalidExtent, rows, cols, bands)
	}
	return nil
}

// Dims returns the extents in order.
func (o Order) Dims() []int {
	dims := make([]int, len(o))
	for i, d := range o {
		dims[i] = d.Extent
	}
	return dims
}

// Len returns the number of elements an array of this order holds, or 0
// when the extents do not describe a countable cube.
func (o Order) Len() int {
	n, err := encoding.Count(o.Dims()...)
	if err != nil {
		return 0
	}
	return n
}

// Strides returns the element stride of each axis, indexed by Axis. An axis
// absent from the order has stride 0.
func (o Order) Strides() [3]int {
	var strides [3]int
	step := 1
	for _, d := range o {
		strides[d.Axis] = step
		step *= d.Extent
	}
	return strides
}

// Index returns the flat offset of (row, col, band) in an array of this
// order. The coordinates must lie within the extents.
func (o Order) Index(row, col, band int) int {
	s := o.Strides()
	return row*s[Rows] + col*s[Columns] + band*s[Bands]
}

// Extent returns the extent of axis a, or 1 when the order omits it.
func (o Order) Extent(a Axis) int {
	for _, d := range o {
		if d.Axis == a {
			return d.Extent
		}
	}
	return 1
}

// Equal reports whether two orders list the same axes and extents.
func Equal(a, b Order) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (o Order) String() string {
	parts := make([]string, len(o))
	for i, d := range o {
		parts[i] = fmt.Sprintf("%s=%d", d.Axis, d.Extent)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

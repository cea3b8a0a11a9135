package host

import (
	"fmt"

	"github.com/ironsheep/raster-bridge/internal/encoding"
	"github.com/ironsheep/raster-bridge/internal/layout"
	"github.com/ironsheep/raster-bridge/internal/raster"
)

// NameSeparator joins a parent element's name to a child's.
const NameSeparator = "=>"

// DimensionDescriptor numbers one row, column or band three ways: its
// position in the loaded cube, its position in the file it came from, and
// its position in the original acquisition.
type DimensionDescriptor struct {
	Active   int
	OnDisk   int
	Original int
}

func identityDescriptors(n int) []DimensionDescriptor {
	d := make([]DimensionDescriptor, n)
	for i := range d {
		d[i] = DimensionDescriptor{Active: i, OnDisk: i, Original: i}
	}
	return d
}

// ElementSpec describes a raster element to create.
type ElementSpec struct {
	Name       string
	Parent     *RasterElement
	Rows       int
	Cols       int
	Bands      int
	Encoding   encoding.Encoding
	Interleave layout.Interleave
	// OnDisk creates the element without exposing a raw storage block.
	OnDisk bool
	Units  string
}

// RasterElement is a host raster cube.
type RasterElement struct {
	name     string
	parent   *RasterElement
	filename string
	units    string

	enc        encoding.Encoding
	interleave layout.Interleave
	rows       []DimensionDescriptor
	cols       []DimensionDescriptor
	bands      []DimensionDescriptor

	data    encoding.Data
	strides [3]int
	onDisk  bool

	revision  int
	available bool
}

// NewRasterElement allocates a zeroed cube. It does not register the
// element with a Model.
func NewRasterElement(spec ElementSpec) (*RasterElement, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: element name is empty", ErrInvalid)
	}
	if !spec.Encoding.Valid() {
		return nil, fmt.Errorf("%w: unknown encoding %s", ErrInvalid, spec.Encoding)
	}
	storage, err := layout.Storage(spec.Interleave, spec.Rows, spec.Cols, spec.Bands)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	data, err := encoding.Alloc(spec.Encoding, storage.Len())
	if err != nil {
		return nil, err
	}
	return &RasterElement{
		name:       spec.Name,
		parent:     spec.Parent,
		units:      spec.Units,
		enc:        spec.Encoding,
		interleave: spec.Interleave,
		rows:       identityDescriptors(spec.Rows),
		cols:       identityDescriptors(spec.Cols),
		bands:      identityDescriptors(spec.Bands),
		data:       data,
		strides:    storage.Strides(),
		onDisk:     spec.OnDisk,
		available:  true,
	}, nil
}

func (e *RasterElement) Name() string { return e.name }

// FullName is the element's name qualified by its parent chain.
func (e *RasterElement) FullName() string {
	if e.parent == nil {
		return e.name
	}
	return e.parent.FullName() + NameSeparator + e.name
}

func (e *RasterElement) Parent() *RasterElement { return e.parent }

func (e *RasterElement) Filename() string              { return e.filename }
func (e *RasterElement) SetFilename(name string)       { e.filename = name }
func (e *RasterElement) Units() string                 { return e.units }
func (e *RasterElement) SetUnits(units string)         { e.units = units }
func (e *RasterElement) Encoding() encoding.Encoding   { return e.enc }
func (e *RasterElement) Interleave() layout.Interleave { return e.interleave }
func (e *RasterElement) OnDisk() bool                  { return e.onDisk }

// Extents returns the row, column and band counts.
func (e *RasterElement) Extents() (rows, cols, bands int) {
	return len(e.rows), len(e.cols), len(e.bands)
}

// Descriptors returns a copy of the descriptors along axis a.
func (e *RasterElement) Descriptors(a layout.Axis) []DimensionDescriptor {
	var src []DimensionDescriptor
	switch a {
	case layout.Rows:
		src = e.rows
	case layout.Columns:
		src = e.cols
	case layout.Bands:
		src = e.bands
	}
	return append([]DimensionDescriptor(nil), src...)
}

// SetBandDescriptors replaces the band descriptors. The count must match
// the band extent.
func (e *RasterElement) SetBandDescriptors(d []DimensionDescriptor) error {
	if len(d) != len(e.bands) {
		return fmt.Errorf("%w: %d band descriptors for %d bands", ErrInvalid, len(d), len(e.bands))
	}
	e.bands = append([]DimensionDescriptor(nil), d...)
	return nil
}

// RawData returns the element's storage block when it is held in memory
// and laid out in layout.Storage order.
func (e *RasterElement) RawData() (encoding.Data, bool) {
	if e.onDisk || !e.available {
		return nil, false
	}
	return e.data, true
}

// UpdateData marks the element's data as changed so views redraw it.
func (e *RasterElement) UpdateData() { e.revision++ }

// Revision counts UpdateData calls.
func (e *RasterElement) Revision() int { return e.revision }

// SetAvailable simulates storage going away: while unavailable every
// accessor row fails.
func (e *RasterElement) SetAvailable(ok bool) { e.available = ok }

// Value returns one element widened to complex128.
func (e *RasterElement) Value(row, col, band int) complex128 {
	return e.data.At(e.offset(row, col, band))
}

func (e *RasterElement) offset(row, col, band int) int {
	return row*e.strides[layout.Rows] + col*e.strides[layout.Columns] + band*e.strides[layout.Bands]
}

// OpenAccessor returns a row accessor over one band of the element.
func (e *RasterElement) OpenAccessor(req raster.AccessRequest) (raster.Accessor, error) {
	rows, cols, bands := e.Extents()
	if req.Band < 0 || req.Band >= bands {
		return nil, fmt.Errorf("%w: band %d outside [0, %d)", raster.ErrAccessorInvalid, req.Band, bands)
	}
	if req.RowStart < 0 || req.RowStart > req.RowEnd || req.RowEnd >= rows {
		return nil, fmt.Errorf("%w: rows [%d, %d] outside [0, %d)", raster.ErrAccessorInvalid, req.RowStart, req.RowEnd, rows)
	}
	if req.ColStart < 0 || req.ColStart > req.ColEnd || req.ColEnd >= cols {
		return nil, fmt.Errorf("%w: columns [%d, %d] outside [0, %d)", raster.ErrAccessorInvalid, req.ColStart, req.ColEnd, cols)
	}
	return &accessor{element: e, req: req}, nil
}

type accessor struct {
	element *RasterElement
	req     raster.AccessRequest
}

func (a *accessor) Rows() int { return a.req.RowEnd - a.req.RowStart + 1 }

func (a *accessor) Row(i int) (raster.RowView, error) {
	e := a.element
	if !e.available {
		return raster.RowView{}, fmt.Errorf("%w: storage for %s is unavailable", raster.ErrAccessorInvalid, e.name)
	}
	if i < 0 || i >= a.Rows() {
		return raster.RowView{}, fmt.Errorf("%w: row %d outside accessor window", raster.ErrAccessorInvalid, i)
	}
	return raster.RowView{
		Data:   e.data,
		Offset: e.offset(a.req.RowStart+i, a.req.ColStart, a.req.Band),
		Stride: e.strides[layout.Columns],
		Len:    a.req.ColEnd - a.req.ColStart + 1,
	}, nil
}

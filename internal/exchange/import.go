package exchange

import (
	"fmt"

	"github.com/ironsheep/raster-bridge/internal/encoding"
	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/ironsheep/raster-bridge/internal/layout"
	"github.com/ironsheep/raster-bridge/internal/raster"
)

// Mode selects where ImportArray puts the array.
type Mode int

const (
	// AttachToCurrentView creates a child of the dataset and shows it as a
	// new layer of the current spatial data view.
	AttachToCurrentView Mode = iota
	// CreateNewWindow creates a top-level element in its own window.
	CreateNewWindow
	// OverwriteExisting writes into an element that already exists.
	OverwriteExisting
)

func (m Mode) String() string {
	switch m {
	case AttachToCurrentView:
		return "attach"
	case CreateNewWindow:
		return "new_window"
	case OverwriteExisting:
		return "overwrite"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ImportRequest describes an array to place in the host.
type ImportRequest struct {
	Array encoding.Array
	// Name of the element to create, or of the child to overwrite.
	Name string
	// Dataset is the reference of the parent element. Empty selects the
	// primary element of the current window.
	Dataset string

	// Rows, Cols and Bands give the array's extents. When all three are
	// zero they are recovered from Array.Dims. Bands alone defaults to 1.
	Rows, Cols, Bands int
	// Interleave is the order the array is laid out in and the interleave
	// of created elements. Zero means BSQ.
	Interleave layout.Interleave

	Mode Mode

	// Offsets of the written block when overwriting.
	RowStart, ColStart, BandStart int

	// OnDisk creates the element without in-memory raw storage.
	OnDisk bool
	Units  string
}

func (req *ImportRequest) extents() (rows, cols, bands int, err error) {
	rows, cols, bands = req.Rows, req.Cols, req.Bands
	if rows == 0 && cols == 0 && bands == 0 {
		rows, cols, bands, err = layout.Extents(req.interleave(), req.Array.Dims)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: %v", ErrArgumentInvalid, err)
		}
	}
	if bands == 0 {
		bands = 1
	}
	want, err := encoding.Count(rows, cols, bands)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: extents rows=%d cols=%d bands=%d", ErrArgumentInvalid, rows, cols, bands)
	}
	if n := req.Array.Len(); n != want {
		return 0, 0, 0, fmt.Errorf("%w: array holds %d elements, size keywords describe %d", ErrArgumentInvalid, n, want)
	}
	return rows, cols, bands, nil
}

func (req *ImportRequest) interleave() layout.Interleave {
	if req.Interleave == 0 {
		return layout.BSQ
	}
	return req.Interleave
}

// ImportArray places req.Array in the host according to req.Mode and
// returns the element that received it. The element count, names and
// encodings are all checked before the host is changed.
func (f *Facade) ImportArray(req ImportRequest) (*host.RasterElement, error) {
	if req.Array.Data == nil {
		return nil, fmt.Errorf("%w: no array", ErrArgumentInvalid)
	}
	rows, cols, bands, err := req.extents()
	if err != nil {
		return nil, err
	}
	enc, err := encoding.EncodingOf(req.Array.Type())
	if err != nil {
		return nil, err
	}
	if req.Mode != OverwriteExisting && req.Name == "" {
		return nil, fmt.Errorf("%w: element name is empty", ErrArgumentInvalid)
	}

	spec := host.ElementSpec{
		Name:       req.Name,
		Rows:       rows,
		Cols:       cols,
		Bands:      bands,
		Encoding:   enc,
		Interleave: req.interleave(),
		OnDisk:     req.OnDisk,
		Units:      req.Units,
	}

	switch req.Mode {
	case CreateNewWindow:
		return f.importNewWindow(spec, req.Array)
	case OverwriteExisting:
		return f.importOverwrite(req, rows, cols, bands, enc)
	case AttachToCurrentView:
		return f.importAttach(req, spec)
	default:
		return nil, fmt.Errorf("%w: unknown import mode %s", ErrArgumentInvalid, req.Mode)
	}
}

func (f *Facade) importNewWindow(spec host.ElementSpec, arr encoding.Array) (*host.RasterElement, error) {
	e, err := f.create(spec, arr.Data, spec.Interleave)
	if err != nil {
		return nil, err
	}
	if _, _, err := f.host.OpenWindow(e); err != nil {
		f.host.Model.Destroy(e)
		return nil, err
	}
	log.Infof("imported %q into a new window", e.FullName())
	return e, nil
}

func (f *Facade) importOverwrite(req ImportRequest, rows, cols, bands int, enc encoding.Encoding) (*host.RasterElement, error) {
	parent, err := f.Resolve(req.Dataset)
	if err != nil {
		return nil, err
	}
	target := parent
	if req.Name != "" {
		if child := f.host.Model.Element(req.Name, parent); child != nil {
			target = child
		}
	}
	if target.Encoding() != enc {
		return nil, fmt.Errorf("%w: data type of new array (%s) is not the same as the old (%s)",
			raster.ErrEncodingMismatch, enc, target.Encoding())
	}

	region := raster.Region{
		RowStart:  raster.At(req.RowStart),
		RowEnd:    raster.At(req.RowStart + rows - 1),
		ColStart:  raster.At(req.ColStart),
		ColEnd:    raster.At(req.ColStart + cols - 1),
		BandStart: raster.At(req.BandStart),
		BandEnd:   raster.At(req.BandStart + bands - 1),
	}
	tr, tc, tb := target.Extents()
	if _, err := region.Resolve(tr, tc, tb); err != nil {
		return nil, err
	}
	data, err := toElementOrder(req.Array.Data, req.interleave(), target.Interleave(), rows, cols, bands)
	if err != nil {
		return nil, err
	}
	if err := raster.Write(target, encoding.Array{Data: data}, region); err != nil {
		return nil, err
	}
	log.Infof("overwrote %dx%dx%d block of %q at (%d,%d,%d)",
		rows, cols, bands, target.FullName(), req.RowStart, req.ColStart, req.BandStart)
	return target, nil
}

func (f *Facade) importAttach(req ImportRequest, spec host.ElementSpec) (*host.RasterElement, error) {
	parent, err := f.Resolve(req.Dataset)
	if err != nil {
		return nil, err
	}
	w := f.host.Desktop.Current()
	if w == nil {
		return nil, fmt.Errorf("%w: no current window to attach %q to", ErrNotFound, req.Name)
	}
	view, ok := w.SpatialDataView()
	if !ok {
		return nil, fmt.Errorf("%w: window %q is not a spatial data window", ErrNotFound, w.Name())
	}
	if f.host.Model.Element(req.Name, parent) != nil {
		return nil, fmt.Errorf("%w: %q already has a child named %q", ErrAlreadyExists, parent.FullName(), req.Name)
	}

	spec.Parent = parent
	e, err := f.create(spec, req.Array.Data, spec.Interleave)
	if err != nil {
		return nil, err
	}
	if _, err := view.CreateRasterLayer(e); err != nil {
		f.host.Model.Destroy(e)
		return nil, err
	}
	log.Infof("attached %q to view %q", e.FullName(), view.Name())
	return e, nil
}

// create registers a new element and fills it from data, which is laid out
// in the compute order of from. The element is destroyed again if the
// write fails.
func (f *Facade) create(spec host.ElementSpec, data encoding.Data, from layout.Interleave) (*host.RasterElement, error) {
	e, err := f.host.Model.CreateElement(spec)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return e, nil
	}
	data, err = toElementOrder(data, from, spec.Interleave, spec.Rows, spec.Cols, spec.Bands)
	if err == nil {
		err = raster.Write(e, encoding.Array{Data: data}, raster.Region{})
	}
	if err != nil {
		f.host.Model.Destroy(e)
		return nil, err
	}
	return e, nil
}

func toElementOrder(data encoding.Data, from, to layout.Interleave, rows, cols, bands int) (encoding.Data, error) {
	src, err := layout.Compute(from, rows, cols, bands)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArgumentInvalid, err)
	}
	dst, err := layout.Compute(to, rows, cols, bands)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArgumentInvalid, err)
	}
	return relayout(data, src, dst, rows, cols, bands)
}

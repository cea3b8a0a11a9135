package exchange

import (
	"fmt"

	"github.com/ironsheep/raster-bridge/internal/encoding"
	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/ironsheep/raster-bridge/internal/layout"
	"github.com/ironsheep/raster-bridge/internal/raster"
)

// CreateElement registers a new element described by spec. When seed is
// not nil it must hold exactly rows*cols*bands elements, laid out in the
// compute order of spec.Interleave; it is converted to spec.Encoding when
// its type differs.
func (f *Facade) CreateElement(spec host.ElementSpec, seed *encoding.Array) (*host.RasterElement, error) {
	if spec.Interleave == 0 {
		spec.Interleave = layout.BSQ
	}
	if seed == nil {
		return f.create(spec, nil, spec.Interleave)
	}
	if seed.Data == nil {
		return nil, fmt.Errorf("%w: seed array has no data", ErrArgumentInvalid)
	}
	want, err := encoding.Count(spec.Rows, spec.Cols, spec.Bands)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArgumentInvalid, err)
	}
	if n := seed.Len(); n != want {
		return nil, fmt.Errorf("%w: seed holds %d elements, element needs %d", ErrArgumentInvalid, n, want)
	}
	data := seed.Data
	if data.Encoding() != spec.Encoding {
		converted, err := encoding.ConvertTo(spec.Encoding, data)
		if err != nil {
			return nil, err
		}
		data = converted
	}
	return f.create(spec, data, spec.Interleave)
}

// CopyElement copies a region of the element named by ref into a new
// top-level element called name. A nil region copies the whole cube. The
// copy keeps the source's encoding, interleave and units, and its bands
// keep their on-disk and original numbers.
func (f *Facade) CopyElement(ref string, region *raster.Region, name string) (*host.RasterElement, error) {
	return f.copyAs(ref, region, name, 0)
}

// ChangeDataType copies the element named by ref into a new top-level
// element of encoding enc. The copy is called name, or after the source
// and the encoding when name is empty. Complex data cannot be converted to
// a real encoding.
func (f *Facade) ChangeDataType(ref string, enc encoding.Encoding, name string) (*host.RasterElement, error) {
	if !enc.Valid() {
		return nil, fmt.Errorf("%w: unknown encoding %s", ErrArgumentInvalid, enc)
	}
	return f.copyAs(ref, nil, name, enc)
}

func (f *Facade) copyAs(ref string, region *raster.Region, name string, enc encoding.Encoding) (*host.RasterElement, error) {
	src, err := f.Resolve(ref)
	if err != nil {
		return nil, err
	}
	if region == nil {
		region = &raster.Region{}
	}
	if enc == 0 {
		enc = src.Encoding()
	}
	if name == "" {
		if enc == src.Encoding() {
			return nil, fmt.Errorf("%w: copy needs a name", ErrArgumentInvalid)
		}
		name = fmt.Sprintf("%s_%s", src.Name(), enc)
	}

	rows, cols, bands := src.Extents()
	b, err := region.Resolve(rows, cols, bands)
	if err != nil {
		return nil, err
	}
	arr, err := raster.Extract(src, *region, enc)
	if err != nil {
		return nil, err
	}
	nr, nc, nb := b.Extents()
	e, err := f.create(host.ElementSpec{
		Name:       name,
		Rows:       nr,
		Cols:       nc,
		Bands:      nb,
		Encoding:   enc,
		Interleave: src.Interleave(),
		Units:      src.Units(),
	}, arr.Data, src.Interleave())
	if err != nil {
		return nil, err
	}

	descriptors := src.Descriptors(layout.Bands)[b.BandStart : b.BandEnd+1]
	for i := range descriptors {
		descriptors[i].Active = i
	}
	if err := e.SetBandDescriptors(descriptors); err != nil {
		f.host.Model.Destroy(e)
		return nil, err
	}
	e.SetFilename(src.Filename())
	log.Infof("copied %q to %q as %s", src.FullName(), e.FullName(), enc)
	return e, nil
}

// Dimensions describes the shape and storage of an element.
type Dimensions struct {
	Rows, Cols, Bands int
	Interleave        layout.Interleave
	Encoding          encoding.Encoding
	BytesPerElement   int
}

// Dimensions reports the shape of the element named by ref.
func (f *Facade) Dimensions(ref string) (Dimensions, error) {
	e, err := f.Resolve(ref)
	if err != nil {
		return Dimensions{}, err
	}
	rows, cols, bands := e.Extents()
	return Dimensions{
		Rows:            rows,
		Cols:            cols,
		Bands:           bands,
		Interleave:      e.Interleave(),
		Encoding:        e.Encoding(),
		BytesPerElement: encoding.ElementSize(e.Encoding()),
	}, nil
}

// NumberKind selects which numbering of an axis Numbers returns.
type NumberKind int

const (
	// OnDiskNumbers are positions in the file the element was loaded from.
	OnDiskNumbers NumberKind = iota
	// OriginalNumbers are positions in the original acquisition.
	OriginalNumbers
)

// Numbers returns the on-disk or original number of every row, column or
// band of the element named by ref, in active order.
func (f *Facade) Numbers(ref string, axis layout.Axis, kind NumberKind) ([]int, error) {
	e, err := f.Resolve(ref)
	if err != nil {
		return nil, err
	}
	descriptors := e.Descriptors(axis)
	if descriptors == nil {
		return nil, fmt.Errorf("%w: unknown axis %s", ErrArgumentInvalid, axis)
	}
	out := make([]int, len(descriptors))
	for i, d := range descriptors {
		if kind == OriginalNumbers {
			out[i] = d.Original
		} else {
			out[i] = d.OnDisk
		}
	}
	return out, nil
}

package exchange

import (
	"github.com/ironsheep/raster-bridge/internal/encoding"
	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/ironsheep/raster-bridge/internal/layout"
	"github.com/ironsheep/raster-bridge/internal/raster"
)

// Export is an array read out of a raster element.
type Export struct {
	Element *host.RasterElement
	Array   encoding.Array

	// Rows, Cols and Bands are the extents of the exported sub-cube.
	Rows, Cols, Bands int

	// Shared is set when Array.Data is the element's own storage rather
	// than a copy. Writes through a shared buffer change the element.
	Shared bool
}

// ExportArray reads the element named by ref. A nil region exports the
// whole cube, without copying when the element's storage is in memory and
// already in the exchange order.
func (f *Facade) ExportArray(ref string, region *raster.Region) (*Export, error) {
	e, err := f.Resolve(ref)
	if err != nil {
		return nil, err
	}
	if _, err := encoding.ExchangeTypeOf(e.Encoding()); err != nil {
		return nil, err
	}
	rows, cols, bands := e.Extents()

	if region == nil {
		if data, ok := e.RawData(); ok {
			compute, err := layout.Compute(e.Interleave(), rows, cols, bands)
			if err != nil {
				return nil, err
			}
			storage, err := layout.Storage(e.Interleave(), rows, cols, bands)
			if err != nil {
				return nil, err
			}
			if layout.Equal(compute, storage) {
				log.Debugf("exporting %q without copy", e.FullName())
				return &Export{
					Element: e,
					Array:   encoding.Array{Dims: compute.Dims(), Data: data},
					Rows:    rows,
					Cols:    cols,
					Bands:   bands,
					Shared:  true,
				}, nil
			}
		}
		region = &raster.Region{}
	}

	b, err := region.Resolve(rows, cols, bands)
	if err != nil {
		return nil, err
	}
	arr, err := raster.Extract(e, *region, e.Encoding())
	if err != nil {
		return nil, err
	}
	nr, nc, nb := b.Extents()
	return &Export{Element: e, Array: arr, Rows: nr, Cols: nc, Bands: nb}, nil
}

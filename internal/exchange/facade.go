package exchange

import (
	"fmt"

	"github.com/ironsheep/raster-bridge/internal/encoding"
	"github.com/ironsheep/raster-bridge/internal/host"
	"github.com/ironsheep/raster-bridge/internal/layout"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("raster-bridge.exchange")

// Facade moves arrays in and out of one host.
type Facade struct {
	host *host.Host
}

// New returns a façade over h.
func New(h *host.Host) *Facade {
	return &Facade{host: h}
}

// Host returns the host the façade operates on.
func (f *Facade) Host() *host.Host { return f.host }

// Resolve turns a reference into a raster element. See the package
// documentation for the reference syntax.
func (f *Facade) Resolve(ref string) (*host.RasterElement, error) {
	if ref == "" {
		return f.host.PrimaryElement()
	}
	return f.host.Model.Lookup(ref)
}

// relayout copies data from one array order to another. Both orders must
// describe the same rows, cols and bands.
func relayout(data encoding.Data, from, to layout.Order, rows, cols, bands int) (encoding.Data, error) {
	if layout.Equal(from, to) {
		return data, nil
	}
	out, err := encoding.Alloc(data.Encoding(), data.Len())
	if err != nil {
		return nil, err
	}
	fs, ts := from.Strides(), to.Strides()
	for b := 0; b < bands; b++ {
		for r := 0; r < rows; r++ {
			src := r*fs[layout.Rows] + b*fs[layout.Bands]
			dst := r*ts[layout.Rows] + b*ts[layout.Bands]
			if err := encoding.CopyStrided(out, dst, ts[layout.Columns], data, src, fs[layout.Columns], cols); err != nil {
				return nil, fmt.Errorf("relayout %s to %s: %w", from, to, err)
			}
		}
	}
	return out, nil
}

package raster

import (
	"github.com/ironsheep/raster-bridge/internal/encoding"
	"github.com/ironsheep/raster-bridge/internal/layout"
)

// AccessRequest scopes an accessor to one band and an inclusive window of
// rows and columns.
type AccessRequest struct {
	Band             int
	RowStart, RowEnd int
	ColStart, ColEnd int
	Writable         bool
}

// RowView addresses one row of an accessor's window inside a host buffer:
// element i of the row is Data[Offset+i*Stride]. Writable accessors return
// views into the host's storage.
type RowView struct {
	Data   encoding.Data
	Offset int
	Stride int
	Len    int
}

// Accessor walks the rows of one band within an AccessRequest window. Row
// returns an error wrapping ErrAccessorInvalid once the accessor can no
// longer be used.
type Accessor interface {
	Rows() int
	Row(i int) (RowView, error)
}

// Source is a raster cube that can be read through accessors.
type Source interface {
	Encoding() encoding.Encoding
	Interleave() layout.Interleave
	Extents() (rows, cols, bands int)
	OpenAccessor(req AccessRequest) (Accessor, error)
}

// Target is a Source that can be written and told its data changed.
type Target interface {
	Source
	UpdateData()
}

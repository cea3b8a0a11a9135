package raster

import (
	"context"
	"fmt"

	"github.com/ironsheep/raster-bridge/internal/encoding"
	"github.com/ironsheep/raster-bridge/internal/layout"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("raster-bridge.raster")

// Extract copies the region of src into a new array laid out in the order
// layout.Compute gives for src's interleave. When enc differs from the
// source encoding the gathered buffer is converted with encoding.ConvertTo.
func Extract(src Source, region Region, enc encoding.Encoding) (encoding.Array, error) {
	return ExtractContext(context.Background(), src, region, enc)
}

// ExtractContext is Extract with a cancellation check before every row.
//
// One accessor is opened per band in the region. A row that cannot be
// fetched aborts the whole extraction and the partial buffer is dropped.
func ExtractContext(ctx context.Context, src Source, region Region, enc encoding.Encoding) (encoding.Array, error) {
	rows, cols, bands := src.Extents()
	b, err := region.Resolve(rows, cols, bands)
	if err != nil {
		return encoding.Array{}, err
	}
	nr, nc, nb := b.Extents()
	order, err := layout.Compute(src.Interleave(), nr, nc, nb)
	if err != nil {
		return encoding.Array{}, err
	}
	buf, err := encoding.Alloc(src.Encoding(), order.Len())
	if err != nil {
		return encoding.Array{}, err
	}
	strides := order.Strides()

	for band := b.BandStart; band <= b.BandEnd; band++ {
		acc, err := src.OpenAccessor(AccessRequest{
			Band:     band,
			RowStart: b.RowStart,
			RowEnd:   b.RowEnd,
			ColStart: b.ColStart,
			ColEnd:   b.ColEnd,
		})
		if err != nil {
			return encoding.Array{}, fmt.Errorf("%w: band %d: %w", ErrAccessorInvalid, band, err)
		}
		base := (band - b.BandStart) * strides[layout.Bands]
		for r := 0; r < nr; r++ {
			if err := ctx.Err(); err != nil {
				return encoding.Array{}, err
			}
			view, err := fetchRow(acc, band, r, nc)
			if err != nil {
				return encoding.Array{}, err
			}
			off := base + r*strides[layout.Rows]
			if err := encoding.CopyStrided(buf, off, strides[layout.Columns], view.Data, view.Offset, view.Stride, nc); err != nil {
				return encoding.Array{}, fmt.Errorf("%w: band %d row %d: %v", ErrAccessorInvalid, band, r, err)
			}
		}
	}

	if enc != src.Encoding() {
		converted, err := encoding.ConvertTo(enc, buf)
		if err != nil {
			return encoding.Array{}, err
		}
		buf = converted
	}
	log.Debugf("extracted %s from %s cube as %s", order, src.Interleave(), enc)
	return encoding.Array{Dims: order.Dims(), Data: buf}, nil
}

// Write copies arr into the region of dst. The array must be laid out in
// the order layout.Compute gives for the region and dst's interleave, and
// its element type must equal dst's encoding.
//
// Every accessor and row is fetched before the first element is written,
// so a failure leaves dst untouched. On success dst.UpdateData is called.
func Write(dst Target, arr encoding.Array, region Region) error {
	return WriteContext(context.Background(), dst, arr, region)
}

// WriteContext is Write with a cancellation check while rows are fetched.
func WriteContext(ctx context.Context, dst Target, arr encoding.Array, region Region) error {
	if arr.Data == nil {
		return fmt.Errorf("%w: array has no data", ErrInvalidRegion)
	}
	if arr.Data.Encoding() != dst.Encoding() {
		return fmt.Errorf("%w: array is %s, raster is %s", ErrEncodingMismatch, arr.Data.Encoding(), dst.Encoding())
	}
	rows, cols, bands := dst.Extents()
	b, err := region.Resolve(rows, cols, bands)
	if err != nil {
		return err
	}
	if arr.Len() != b.Volume() {
		return fmt.Errorf("%w: array holds %d elements, region holds %d", ErrInvalidRegion, arr.Len(), b.Volume())
	}
	nr, nc, nb := b.Extents()
	order, err := layout.Compute(dst.Interleave(), nr, nc, nb)
	if err != nil {
		return err
	}
	strides := order.Strides()

	views := make([][]RowView, nb)
	for i := range views {
		band := b.BandStart + i
		acc, err := dst.OpenAccessor(AccessRequest{
			Band:     band,
			RowStart: b.RowStart,
			RowEnd:   b.RowEnd,
			ColStart: b.ColStart,
			ColEnd:   b.ColEnd,
			Writable: true,
		})
		if err != nil {
			return fmt.Errorf("%w: band %d: %w", ErrAccessorInvalid, band, err)
		}
		views[i] = make([]RowView, nr)
		for r := 0; r < nr; r++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if views[i][r], err = fetchRow(acc, band, r, nc); err != nil {
				return err
			}
		}
	}

	for i, bandViews := range views {
		base := i * strides[layout.Bands]
		for r, view := range bandViews {
			off := base + r*strides[layout.Rows]
			if err := encoding.CopyStrided(view.Data, view.Offset, view.Stride, arr.Data, off, strides[layout.Columns], nc); err != nil {
				return fmt.Errorf("%w: band %d row %d: %v", ErrAccessorInvalid, b.BandStart+i, r, err)
			}
		}
	}
	dst.UpdateData()
	log.Debugf("wrote %s into %s cube", order, dst.Interleave())
	return nil
}

func fetchRow(acc Accessor, band, r, width int) (RowView, error) {
	if r >= acc.Rows() {
		return RowView{}, fmt.Errorf("%w: band %d has %d rows, need row %d", ErrAccessorInvalid, band, acc.Rows(), r)
	}
	view, err := acc.Row(r)
	if err != nil {
		return RowView{}, fmt.Errorf("%w: band %d row %d: %w", ErrAccessorInvalid, band, r, err)
	}
	if view.Len != width {
		return RowView{}, fmt.Errorf("%w: band %d row %d has %d columns, want %d", ErrAccessorInvalid, band, r, view.Len, width)
	}
	return view, nil
}

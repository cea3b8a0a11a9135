// Package layout translates between a host raster cube's interleave and the
// dimension order of the interpreter array that carries it.
//
// A raster cube has three axes: rows, columns and bands. The host stores
// a cube in one of three interleaves:
//
//   - BSQ (band sequential): every row of band 0, then every row of band 1.
//   - BIL (band interleaved by line): for each row, that row of every band.
//   - BIP (band interleaved by pixel): for each pixel, every band value.
//
// Interpreter arrays are column-major, so an [Order] lists axes fastest
// varying first. [Compute] gives the order the interpreter sees:
//
//	bands == 1   [cols, rows]
//	BSQ          [bands, cols, rows]
//	BIL          [cols, bands, rows]
//	BIP          [cols, rows, bands]
//
// [Storage] gives the order the host keeps the bytes in. When the two are
// [Equal] a cube can be handed over without copying.
//
// This package is the only place that knows which axis an interleave puts
// where; extraction and writing work purely from [Order.Strides].
package layout

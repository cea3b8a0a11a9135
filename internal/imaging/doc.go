// Package imaging moves pictures in and out of the host.
//
// Image files are imported as three-band unsigned byte cubes in BSQ order,
// one band per color channel. Raster layers are rendered to RGBA images
// using the layer's display mode, stretch bounds, stretch type, colormap
// and, when GPU display is on, its enabled filters. Snapshots crop and
// scale a rendered image and encode it as base64 PNG.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with the origin at the top-left corner:
//   - X (column) increases rightward
//   - Y (row) increases downward
//   - For regions, (x1,y1) is inclusive and (x2,y2) is exclusive
//
// Row r, column c of a raster element is pixel (c, r) of its rendering.
//
// # Stretch Units
//
// Stretch bounds are converted to raw data values per band:
//   - raw: used as is
//   - percentage: fraction of the [min, max] data range
//   - percentile: read from a 256-bin histogram of the band
//   - stddev: mean plus the bound times the standard deviation
//
// # Colormap Files
//
// A colormap file lists colors as "#RRGGBB", one per line, spread evenly
// over the 256 display levels, or as "<level> #RRGGBB" control points.
// Levels between control points are blended in Lab space. Blank lines and
// lines starting with ";" are ignored.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Rendering reads host elements
// without locking, so it must not run concurrently with writes to the same
// element.
package imaging

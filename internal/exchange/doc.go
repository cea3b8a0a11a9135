// Package exchange is the raster exchange façade: the entry points scripts
// reach through commands to move arrays between the interpreter and host
// raster elements.
//
// Elements are named by reference strings. An empty reference is the
// primary raster element of the current spatial data window. Otherwise the
// reference is a chain of names joined with "=>", walked from the top level
// of the model:
//
//	scene=>mask
//
// names the child "mask" of the top-level element "scene".
//
// Arrays crossing the boundary are always laid out in the order
// layout.Compute gives for the element's interleave and the selected
// extents. Every import checks that the buffer holds exactly
// rows*cols*bands elements before anything in the host is touched.
package exchange

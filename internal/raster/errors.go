package raster

import "errors"

var (
	// ErrAccessorInvalid is returned when the host cannot provide a valid
	// row accessor, or an accessor becomes invalid while rows are copied.
	ErrAccessorInvalid = errors.New("raster accessor invalid")

	// ErrEncodingMismatch is returned when an array's element type does not
	// match the encoding of the cube it is written into.
	ErrEncodingMismatch = errors.New("array type does not match raster encoding")

	// ErrInvalidRegion is returned when region bounds fall outside the cube
	// or a buffer does not hold exactly the region's volume.
	ErrInvalidRegion = errors.New("invalid raster region")
)

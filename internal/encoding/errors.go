package encoding

import "errors"

var (
	ErrUnsupported           = errors.New("unsupported data type")
	ErrConversionUnsupported = errors.New("type conversion unsupported")
	ErrShape                 = errors.New("array shape does not match data length")
)

package encoding

import (
	"fmt"
	"math"
)

// Array is an interpreter-side exchange array: a flat buffer of one
// exchange type plus its dimensions, fastest-varying first.
type Array struct {
	Dims []int
	Data Data
}

// NewArray allocates a zeroed array of type t with the given dimensions.
func NewArray(t Type, dims ...int) (Array, error) {
	e, err := EncodingOf(t)
	if err != nil {
		return Array{}, err
	}
	n, err := Count(dims...)
	if err != nil {
		return Array{}, err
	}
	data, err := Alloc(e, n)
	if err != nil {
		return Array{}, err
	}
	return Array{Dims: append([]int(nil), dims...), Data: data}, nil
}

// Type returns the exchange type of the array, or Unsupported when the
// buffer holds a host-only encoding.
func (a Array) Type() Type {
	if a.Data == nil {
		return Unsupported
	}
	t, err := ExchangeTypeOf(a.Data.Encoding())
	if err != nil {
		return Unsupported
	}
	return t
}

// Len returns the number of elements in the buffer.
func (a Array) Len() int {
	if a.Data == nil {
		return 0
	}
	return a.Data.Len()
}

// Validate checks that the array carries an exchange type and that its
// dimensions describe exactly the buffer length.
func (a Array) Validate() error {
	if a.Data == nil {
		return fmt.Errorf("%w: array has no data", ErrShape)
	}
	if _, err := ExchangeTypeOf(a.Data.Encoding()); err != nil {
		return err
	}
	n, err := Count(a.Dims...)
	if err != nil {
		return err
	}
	if n != a.Data.Len() {
		return fmt.Errorf("%w: dims %v hold %d elements, buffer has %d", ErrShape, a.Dims, n, a.Data.Len())
	}
	return nil
}

// Count returns the number of elements the dimensions describe. No
// dimensions describe an empty array. A dimension that is not positive, or
// a product that does not fit in an int, is an ErrShape.
func Count(dims ...int) (int, error) {
	if len(dims) == 0 {
		return 0, nil
	}
	n := 1
	for _, d := range dims {
		if d <= 0 {
			return 0, fmt.Errorf("%w: dimension %d is not positive", ErrShape, d)
		}
		if d > math.MaxInt/n {
			return 0, fmt.Errorf("%w: dims %v overflow the element count", ErrShape, dims)
		}
		n *= d
	}
	return n, nil
}

// FromComplex builds a buffer of type t from widened values. Real types
// take the real part and convert it the way Go converts numbers.
func FromComplex(t Type, values []complex128) (Data, error) {
	e, err := EncodingOf(t)
	if err != nil {
		return nil, err
	}
	n := len(values)
	switch e {
	case Int8s:
		return fill(make(Int8Slice, n), values), nil
	case Int8u:
		return fill(make(Uint8Slice, n), values), nil
	case Int16s:
		return fill(make(Int16Slice, n), values), nil
	case Int16u:
		return fill(make(Uint16Slice, n), values), nil
	case Int32s:
		return fill(make(Int32Slice, n), values), nil
	case Int32u:
		return fill(make(Uint32Slice, n), values), nil
	case Float32:
		return fill(make(Float32Slice, n), values), nil
	case Float64:
		return fill(make(Float64Slice, n), values), nil
	default:
		out := make(Complex64Slice, n)
		for i, v := range values {
			out[i] = complex64(v)
		}
		return out, nil
	}
}

// FromFloats is FromComplex for purely real input.
func FromFloats(t Type, values []float64) (Data, error) {
	widened := make([]complex128, len(values))
	for i, v := range values {
		widened[i] = complex(v, 0)
	}
	return FromComplex(t, widened)
}

func fill[S ~[]E, E realNumber](dst S, values []complex128) S {
	for i, v := range values {
		dst[i] = E(real(v))
	}
	return dst
}


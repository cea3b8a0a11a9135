package encoding

import "fmt"

// ComplexInt16 is one element of a Complex32Int cube.
type ComplexInt16 struct {
	Real int16
	Imag int16
}

// Data is a typed element buffer. The set of implementations is closed:
// one slice type per Encoding.
type Data interface {
	Len() int
	Encoding() Encoding
	// At returns element i widened to complex128.
	At(i int) complex128
	Slice(lo, hi int) Data
	Clone() Data
	sealed()
}

type (
	Int8Slice         []int8
	Uint8Slice        []uint8
	Int16Slice        []int16
	Uint16Slice       []uint16
	Int32Slice        []int32
	Uint32Slice       []uint32
	Float32Slice      []float32
	Float64Slice      []float64
	Complex64Slice    []complex64
	ComplexInt16Slice []ComplexInt16
)

func (s Int8Slice) Len() int               { return len(s) }
func (s Int8Slice) Encoding() Encoding     { return Int8s }
func (s Int8Slice) At(i int) complex128    { return complex(float64(s[i]), 0) }
func (s Int8Slice) Slice(lo, hi int) Data  { return s[lo:hi] }
func (s Int8Slice) Clone() Data            { return append(Int8Slice(nil), s...) }
func (Int8Slice) sealed()                  {}
func (s Uint8Slice) Len() int              { return len(s) }
func (s Uint8Slice) Encoding() Encoding    { return Int8u }
func (s Uint8Slice) At(i int) complex128   { return complex(float64(s[i]), 0) }
func (s Uint8Slice) Slice(lo, hi int) Data { return s[lo:hi] }
func (s Uint8Slice) Clone() Data           { return append(Uint8Slice(nil), s...) }
func (Uint8Slice) sealed()                 {}

func (s Int16Slice) Len() int               { return len(s) }
func (s Int16Slice) Encoding() Encoding     { return Int16s }
func (s Int16Slice) At(i int) complex128    { return complex(float64(s[i]), 0) }
func (s Int16Slice) Slice(lo, hi int) Data  { return s[lo:hi] }
func (s Int16Slice) Clone() Data            { return append(Int16Slice(nil), s...) }
func (Int16Slice) sealed()                  {}
func (s Uint16Slice) Len() int              { return len(s) }
func (s Uint16Slice) Encoding() Encoding    { return Int16u }
func (s Uint16Slice) At(i int) complex128   { return complex(float64(s[i]), 0) }
func (s Uint16Slice) Slice(lo, hi int) Data { return s[lo:hi] }
func (s Uint16Slice) Clone() Data           { return append(Uint16Slice(nil), s...) }
func (Uint16Slice) sealed()                 {}

func (s Int32Slice) Len() int               { return len(s) }
func (s Int32Slice) Encoding() Encoding     { return Int32s }
func (s Int32Slice) At(i int) complex128    { return complex(float64(s[i]), 0) }
func (s Int32Slice) Slice(lo, hi int) Data  { return s[lo:hi] }
func (s Int32Slice) Clone() Data            { return append(Int32Slice(nil), s...) }
func (Int32Slice) sealed()                  {}
func (s Uint32Slice) Len() int              { return len(s) }
func (s Uint32Slice) Encoding() Encoding    { return Int32u }
func (s Uint32Slice) At(i int) complex128   { return complex(float64(s[i]), 0) }
func (s Uint32Slice) Slice(lo, hi int) Data { return s[lo:hi] }
func (s Uint32Slice) Clone() Data           { return append(Uint32Slice(nil), s...) }
func (Uint32Slice) sealed()                 {}

func (s Float32Slice) Len() int              { return len(s) }
func (s Float32Slice) Encoding() Encoding    { return Float32 }
func (s Float32Slice) At(i int) complex128   { return complex(float64(s[i]), 0) }
func (s Float32Slice) Slice(lo, hi int) Data { return s[lo:hi] }
func (s Float32Slice) Clone() Data           { return append(Float32Slice(nil), s...) }
func (Float32Slice) sealed()                 {}
func (s Float64Slice) Len() int              { return len(s) }
func (s Float64Slice) Encoding() Encoding    { return Float64 }
func (s Float64Slice) At(i int) complex128   { return complex(s[i], 0) }
func (s Float64Slice) Slice(lo, hi int) Data { return s[lo:hi] }
func (s Float64Slice) Clone() Data           { return append(Float64Slice(nil), s...) }
func (Float64Slice) sealed()                 {}

func (s Complex64Slice) Len() int              { return len(s) }
func (s Complex64Slice) Encoding() Encoding    { return Complex64 }
func (s Complex64Slice) At(i int) complex128   { return complex128(s[i]) }
func (s Complex64Slice) Slice(lo, hi int) Data { return s[lo:hi] }
func (s Complex64Slice) Clone() Data           { return append(Complex64Slice(nil), s...) }
func (Complex64Slice) sealed()                 {}

func (s ComplexInt16Slice) Len() int           { return len(s) }
func (s ComplexInt16Slice) Encoding() Encoding { return Complex32Int }
func (s ComplexInt16Slice) At(i int) complex128 {
	return complex(float64(s[i].Real), float64(s[i].Imag))
}
func (s ComplexInt16Slice) Slice(lo, hi int) Data { return s[lo:hi] }
func (s ComplexInt16Slice) Clone() Data           { return append(ComplexInt16Slice(nil), s...) }
func (ComplexInt16Slice) sealed()                 {}

// Alloc returns a zeroed buffer of n elements in encoding e.
func Alloc(e Encoding, n int) (Data, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative element count %d", n)
	}
	switch e {
	case Int8s:
		return make(Int8Slice, n), nil
	case Int8u:
		return make(Uint8Slice, n), nil
	case Int16s:
		return make(Int16Slice, n), nil
	case Int16u:
		return make(Uint16Slice, n), nil
	case Int32s:
		return make(Int32Slice, n), nil
	case Int32u:
		return make(Uint32Slice, n), nil
	case Float32:
		return make(Float32Slice, n), nil
	case Float64:
		return make(Float64Slice, n), nil
	case Complex64:
		return make(Complex64Slice, n), nil
	case Complex32Int:
		return make(ComplexInt16Slice, n), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, e)
	}
}

// CopyStrided copies n elements from src[srcOff], src[srcOff+srcStride], ...
// into dst[dstOff], dst[dstOff+dstStride], ... Both buffers must hold the
// same encoding.
func CopyStrided(dst Data, dstOff, dstStride int, src Data, srcOff, srcStride, n int) error {
	if dst.Encoding() != src.Encoding() {
		return fmt.Errorf("%w: cannot copy %s into %s", ErrConversionUnsupported, src.Encoding(), dst.Encoding())
	}
	if n == 0 {
		return nil
	}
	if last := dstOff + (n-1)*dstStride; dstOff < 0 || last >= dst.Len() {
		return fmt.Errorf("destination range [%d, %d] outside buffer of %d", dstOff, last, dst.Len())
	}
	if last := srcOff + (n-1)*srcStride; srcOff < 0 || last >= src.Len() {
		return fmt.Errorf("source range [%d, %d] outside buffer of %d", srcOff, last, src.Len())
	}
	switch d := dst.(type) {
	case Int8Slice:
		stridedCopy(d, dstOff, dstStride, src.(Int8Slice), srcOff, srcStride, n)
	case Uint8Slice:
		stridedCopy(d, dstOff, dstStride, src.(Uint8Slice), srcOff, srcStride, n)
	case Int16Slice:
		stridedCopy(d, dstOff, dstStride, src.(Int16Slice), srcOff, srcStride, n)
	case Uint16Slice:
		stridedCopy(d, dstOff, dstStride, src.(Uint16Slice), srcOff, srcStride, n)
	case Int32Slice:
		stridedCopy(d, dstOff, dstStride, src.(Int32Slice), srcOff, srcStride, n)
	case Uint32Slice:
		stridedCopy(d, dstOff, dstStride, src.(Uint32Slice), srcOff, srcStride, n)
	case Float32Slice:
		stridedCopy(d, dstOff, dstStride, src.(Float32Slice), srcOff, srcStride, n)
	case Float64Slice:
		stridedCopy(d, dstOff, dstStride, src.(Float64Slice), srcOff, srcStride, n)
	case Complex64Slice:
		stridedCopy(d, dstOff, dstStride, src.(Complex64Slice), srcOff, srcStride, n)
	case ComplexInt16Slice:
		stridedCopy(d, dstOff, dstStride, src.(ComplexInt16Slice), srcOff, srcStride, n)
	}
	return nil
}

func stridedCopy[S ~[]E, E any](dst S, dstOff, dstStride int, src S, srcOff, srcStride, n int) {
	if dstStride == 1 && srcStride == 1 {
		copy(dst[dstOff:dstOff+n], src[srcOff:srcOff+n])
		return
	}
	for i := 0; i < n; i++ {
		dst[dstOff+i*dstStride] = src[srcOff+i*srcStride]
	}
}

// Equal reports whether a and b hold the same encoding and elements.
func Equal(a, b Data) bool {
	if a.Encoding() != b.Encoding() || a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if a.At(i) != b.At(i) {
			return false
		}
	}
	return true
}

package encoding

import "fmt"

type realNumber interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~float32 | ~float64
}

// ConvertTo copies src into a new buffer of encoding dst. Integer targets
// truncate toward zero and wrap the way Go numeric conversions do.
// Converting complex data to a real encoding fails with
// ErrConversionUnsupported.
func ConvertTo(dst Encoding, src Data) (Data, error) {
	if src.Encoding() == dst {
		return src.Clone(), nil
	}
	if IsComplex(src.Encoding()) && !IsComplex(dst) {
		return nil, fmt.Errorf("%w: %s to %s", ErrConversionUnsupported, src.Encoding(), dst)
	}
	switch dst {
	case Int8s:
		return convertReal[Int8Slice](src)
	case Int8u:
		return convertReal[Uint8Slice](src)
	case Int16s:
		return convertReal[Int16Slice](src)
	case Int16u:
		return convertReal[Uint16Slice](src)
	case Int32s:
		return convertReal[Int32Slice](src)
	case Int32u:
		return convertReal[Uint32Slice](src)
	case Float32:
		return convertReal[Float32Slice](src)
	case Float64:
		return convertReal[Float64Slice](src)
	case Complex64:
		out := make(Complex64Slice, src.Len())
		for i := range out {
			out[i] = complex64(src.At(i))
		}
		return out, nil
	case Complex32Int:
		out := make(ComplexInt16Slice, src.Len())
		for i := range out {
			v := src.At(i)
			out[i] = ComplexInt16{Real: int16(real(v)), Imag: int16(imag(v))}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, dst)
	}
}

func convertReal[D ~[]E, E realNumber](src Data) (Data, error) {
	out := make(D, src.Len())
	switch s := src.(type) {
	case Int8Slice:
		castInto(out, s)
	case Uint8Slice:
		castInto(out, s)
	case Int16Slice:
		castInto(out, s)
	case Uint16Slice:
		castInto(out, s)
	case Int32Slice:
		castInto(out, s)
	case Uint32Slice:
		castInto(out, s)
	case Float32Slice:
		castInto(out, s)
	case Float64Slice:
		castInto(out, s)
	default:
		return nil, fmt.Errorf("%w: %s is not a real encoding", ErrConversionUnsupported, src.Encoding())
	}
	return any(out).(Data), nil
}

func castInto[D ~[]E, S ~[]F, E, F realNumber](dst D, src S) {
	for i, v := range src {
		dst[i] = E(v)
	}
}

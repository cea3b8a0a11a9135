package encoding

import (
	"fmt"
	"strings"
)

// Encoding is the numeric encoding of a host raster cube.
type Encoding int

const (
	Int8s Encoding = iota + 1
	Int8u
	Int16s
	Int16u
	Int32s
	Int32u
	Float32
	Float64
	Complex64
	// Complex32Int is a complex value made of two signed 16-bit integers.
	// The interpreter has no matching type.
	Complex32Int
)

// Type is the numeric type of an interpreter-side exchange array.
// The zero value is Unsupported.
type Type int

const (
	Unsupported Type = iota
	TypeInt8
	TypeUint8
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeFloat32
	TypeFloat64
	TypeComplex64
)

var encodingNames = map[Encoding]string{
	Int8s:        "int8s",
	Int8u:        "int8u",
	Int16s:       "int16s",
	Int16u:       "int16u",
	Int32s:       "int32s",
	Int32u:       "int32u",
	Float32:      "float32",
	Float64:      "float64",
	Complex64:    "complex64",
	Complex32Int: "complex32int",
}

// hostEncodingNames are the spellings the host uses in its own settings and
// file headers.
var hostEncodingNames = map[string]Encoding{
	"INT1SBYTE":    Int8s,
	"INT1UBYTE":    Int8u,
	"INT2SBYTES":   Int16s,
	"INT2UBYTES":   Int16u,
	"INT4SBYTES":   Int32s,
	"INT4UBYTES":   Int32u,
	"FLT4BYTES":    Float32,
	"FLT8BYTES":    Float64,
	"FLT8COMPLEX":  Complex64,
	"INT4SCOMPLEX": Complex32Int,
}

var typeNames = map[Type]string{
	Unsupported:   "unsupported",
	TypeInt8:      "int8",
	TypeUint8:     "uint8",
	TypeInt16:     "int16",
	TypeUint16:    "uint16",
	TypeInt32:     "int32",
	TypeUint32:    "uint32",
	TypeFloat32:   "float32",
	TypeFloat64:   "float64",
	TypeComplex64: "complex64",
}

// typeAliases accepts the interpreter-style type names scripts tend to use.
var typeAliases = map[string]Type{
	"byte":    TypeUint8,
	"int":     TypeInt16,
	"uint":    TypeUint16,
	"long":    TypeInt32,
	"ulong":   TypeUint32,
	"float":   TypeFloat32,
	"double":  TypeFloat64,
	"complex": TypeComplex64,
}

func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return fmt.Sprintf("encoding(%d)", int(e))
}

// Valid reports whether e is one of the known host encodings.
func (e Encoding) Valid() bool {
	_, ok := encodingNames[e]
	return ok
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ExchangeTypeOf maps a host encoding to its interpreter type.
// Complex32Int and unknown encodings yield ErrUnsupported.
func ExchangeTypeOf(e Encoding) (Type, error) {
	switch e {
	case Int8s:
		return TypeInt8, nil
	case Int8u:
		return TypeUint8, nil
	case Int16s:
		return TypeInt16, nil
	case Int16u:
		return TypeUint16, nil
	case Int32s:
		return TypeInt32, nil
	case Int32u:
		return TypeUint32, nil
	case Float32:
		return TypeFloat32, nil
	case Float64:
		return TypeFloat64, nil
	case Complex64:
		return TypeComplex64, nil
	case Complex32Int:
		return Unsupported, fmt.Errorf("%w: %s has no interpreter equivalent", ErrUnsupported, e)
	default:
		return Unsupported, fmt.Errorf("%w: %s", ErrUnsupported, e)
	}
}

// EncodingOf maps an interpreter type to the host encoding that stores it.
func EncodingOf(t Type) (Encoding, error) {
	switch t {
	case TypeInt8:
		return Int8s, nil
	case TypeUint8:
		return Int8u, nil
	case TypeInt16:
		return Int16s, nil
	case TypeUint16:
		return Int16u, nil
	case TypeInt32:
		return Int32s, nil
	case TypeUint32:
		return Int32u, nil
	case TypeFloat32:
		return Float32, nil
	case TypeFloat64:
		return Float64, nil
	case TypeComplex64:
		return Complex64, nil
	default:
		return 0, fmt.Errorf("%w: %s cannot be stored by the host", ErrUnsupported, t)
	}
}

// ParseEncoding accepts both the short names ("float32") and the host's
// byte-size spellings ("FLT4BYTES"), case-insensitively.
func ParseEncoding(s string) (Encoding, error) {
	name := strings.TrimSpace(s)
	if e, ok := hostEncodingNames[strings.ToUpper(name)]; ok {
		return e, nil
	}
	lower := strings.ToLower(name)
	for e, n := range encodingNames {
		if n == lower {
			return e, nil
		}
	}
	if t, err := ParseType(lower); err == nil {
		return EncodingOf(t)
	}
	return 0, fmt.Errorf("%w: unknown encoding %q", ErrUnsupported, s)
}

// ParseType resolves an interpreter type name such as "float32" or "double".
func ParseType(s string) (Type, error) {
	lower := strings.ToLower(strings.TrimSpace(s))
	if t, ok := typeAliases[lower]; ok {
		return t, nil
	}
	for t, n := range typeNames {
		if t != Unsupported && n == lower {
			return t, nil
		}
	}
	return Unsupported, fmt.Errorf("%w: unknown type %q", ErrUnsupported, s)
}

// ElementSize returns the number of bytes one element of e occupies.
func ElementSize(e Encoding) int {
	switch e {
	case Int8s, Int8u:
		return 1
	case Int16s, Int16u:
		return 2
	case Int32s, Int32u, Float32, Complex32Int:
		return 4
	case Float64, Complex64:
		return 8
	default:
		return 0
	}
}

// IsComplex reports whether e stores complex values.
func IsComplex(e Encoding) bool {
	return e == Complex64 || e == Complex32Int
}

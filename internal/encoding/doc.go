// Package encoding maps host raster encodings to the numeric types used by
// interpreter-side exchange arrays, and holds the typed buffers that carry
// raster data across the interpreter boundary.
//
// # Encodings and Exchange Types
//
// The host stores raster cubes in one of ten encodings. Nine of them have an
// exact interpreter counterpart:
//
//	Int8s     -> TypeInt8        Int8u   -> TypeUint8
//	Int16s    -> TypeInt16       Int16u  -> TypeUint16
//	Int32s    -> TypeInt32       Int32u  -> TypeUint32
//	Float32   -> TypeFloat32     Float64 -> TypeFloat64
//	Complex64 -> TypeComplex64
//
// Complex32Int (a pair of signed 16-bit integers) has no interpreter type.
// ExchangeTypeOf reports it as ErrUnsupported and callers turn that into a
// command failure; it is never coerced silently.
//
// # Buffers
//
// Data is a closed set of slice types, one per encoding. Code that moves
// elements between buffers type-switches on the concrete variant, so a
// buffer is never reinterpreted as a different element type.
//
// # Conversion
//
// ConvertTo copies a buffer into another encoding. Real to real, real to
// complex and complex to complex are supported; complex to real fails with
// ErrConversionUnsupported because it would discard the imaginary part.
package encoding

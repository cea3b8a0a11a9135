package commands

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ironsheep/raster-bridge/internal/encoding"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindArray
	KindList
)

var kindNames = [...]string{"null", "string", "int", "float", "bool", "array", "list"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is a command argument or result. The zero Value is Null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	arr  encoding.Array
	list []Value
}

func Null() Value                    { return Value{} }
func String(s string) Value          { return Value{kind: KindString, s: s} }
func Int(i int64) Value              { return Value{kind: KindInt, i: i} }
func Float(f float64) Value          { return Value{kind: KindFloat, f: f} }
func Bool(b bool) Value              { return Value{kind: KindBool, b: b} }
func List(vs ...Value) Value         { return Value{kind: KindList, list: vs} }
func ArrayOf(a encoding.Array) Value { return Value{kind: KindArray, arr: a} }

// Strings builds a List of String values.
func Strings(ss []string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return List(vs...)
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsInt returns v as an integer. Floats convert only when integral.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) {
			return int64(v.f), true
		}
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// AsFloat returns v as a float.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// Truthy reports v as a flag: true Bools and non-zero numbers are set.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	}
	return false
}

// AsArray returns v as an exchange array. A List of numbers becomes a
// one-dimensional float64 array, or an int32 array when every item is an
// Int.
func (v Value) AsArray() (encoding.Array, bool) {
	switch v.kind {
	case KindArray:
		return v.arr, true
	case KindList:
		allInt := true
		for _, item := range v.list {
			switch item.kind {
			case KindInt:
			case KindFloat:
				allInt = false
			default:
				return encoding.Array{}, false
			}
		}
		if allInt {
			data := make(encoding.Int32Slice, len(v.list))
			for i, item := range v.list {
				data[i] = int32(item.i)
			}
			return encoding.Array{Dims: []int{len(data)}, Data: data}, true
		}
		data := make(encoding.Float64Slice, len(v.list))
		for i, item := range v.list {
			data[i], _ = item.AsFloat()
		}
		return encoding.Array{Dims: []int{len(data)}, Data: data}, true
	}
	return encoding.Array{}, false
}

// AsList returns the items of a List, or the elements of a real
// one-dimensional Array as Floats.
func (v Value) AsList() ([]Value, bool) {
	switch v.kind {
	case KindList:
		return v.list, true
	case KindArray:
		out := make([]Value, v.arr.Len())
		for i := range out {
			out[i] = elementValue(v.arr.Data, i)
		}
		return out, true
	}
	return nil, false
}

func elementValue(d encoding.Data, i int) Value {
	switch d := d.(type) {
	case encoding.Int8Slice:
		return Int(int64(d[i]))
	case encoding.Uint8Slice:
		return Int(int64(d[i]))
	case encoding.Int16Slice:
		return Int(int64(d[i]))
	case encoding.Uint16Slice:
		return Int(int64(d[i]))
	case encoding.Int32Slice:
		return Int(int64(d[i]))
	case encoding.Uint32Slice:
		return Int(int64(d[i]))
	case encoding.Float32Slice:
		return Float(float64(d[i]))
	case encoding.Float64Slice:
		return Float(d[i])
	case encoding.Complex64Slice:
		return Float(float64(real(d[i])))
	}
	return Null()
}

// Floats returns v as a slice of floats, for the numeric list keywords.
func (v Value) Floats() ([]float64, bool) {
	items, ok := v.AsList()
	if !ok {
		if f, ok := v.AsFloat(); ok {
			return []float64{f}, true
		}
		return nil, false
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, ok := item.AsFloat()
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// Any converts v to plain Go values: nil, string, int64, float64, bool,
// encoding.Array or []any.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindArray:
		return v.arr
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Any()
		}
		return out
	}
	return nil
}

// FromAny converts a decoded JSON or runtime value into a Value.
func FromAny(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		// JSON numbers arrive as float64; keep whole numbers integral.
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return Int(int64(x)), nil
		}
		return Float(x), nil
	case encoding.Array:
		return ArrayOf(x), nil
	case []any:
		vs := make([]Value, len(x))
		for i, item := range x {
			v, err := FromAny(item)
			if err != nil {
				return Null(), err
			}
			vs[i] = v
		}
		return List(vs...), nil
	case []string:
		return Strings(x), nil
	case []float64:
		vs := make([]Value, len(x))
		for i, f := range x {
			vs[i] = Float(f)
		}
		return List(vs...), nil
	}
	return Null(), fmt.Errorf("%w: cannot use %T as a command value", ErrArgumentInvalid, x)
}

// String renders v the way a console prints it.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindArray:
		return fmt.Sprintf("<%s array %v>", v.arr.Type(), v.arr.Dims)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "null"
}

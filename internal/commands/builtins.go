package commands

import (
	"fmt"

	"github.com/ironsheep/raster-bridge/internal/encoding"
)

// MakeArray builds an exchange array for the make_array builtin of the
// runtimes. With no values the array is zeroed; otherwise values must fill
// it exactly.
func MakeArray(typeName string, dims []int, values []float64) (encoding.Array, error) {
	t, err := encoding.ParseType(typeName)
	if err != nil {
		return encoding.Array{}, err
	}
	if len(dims) == 0 {
		dims = []int{len(values)}
	}
	if values == nil {
		arr, err := encoding.NewArray(t, dims...)
		if err != nil {
			return encoding.Array{}, err
		}
		return arr, arr.Validate()
	}
	data, err := encoding.FromFloats(t, values)
	if err != nil {
		return encoding.Array{}, err
	}
	arr := encoding.Array{Dims: append([]int(nil), dims...), Data: data}
	if err := arr.Validate(); err != nil {
		return encoding.Array{}, fmt.Errorf("make_array: %w", err)
	}
	return arr, nil
}

// Element returns element i of a as a Value, the way array_values reports
// it: integers for integer types, floats otherwise.
func Element(a encoding.Array, i int) (Value, error) {
	if i < 0 || i >= a.Len() {
		return Null(), fmt.Errorf("%w: index %d out of range for %d elements", ErrArgumentInvalid, i, a.Len())
	}
	return elementValue(a.Data, i), nil
}

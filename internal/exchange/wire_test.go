package exchange

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ironsheep/raster-bridge/internal/encoding"
)

func TestMarshalArray_RoundTrip(t *testing.T) {
	tests := []encoding.Array{
		{Dims: []int{3}, Data: encoding.Int8Slice{-1, 0, 1}},
		{Dims: []int{2, 2}, Data: encoding.Uint16Slice{1, 2, 65535, 4}},
		{Dims: []int{2, 1, 2}, Data: encoding.Float64Slice{0.5, -1.25, 3, 1e300}},
		{Dims: []int{2}, Data: encoding.Complex64Slice{complex(1, -1), complex(0, 2)}},
	}
	for _, arr := range tests {
		t.Run(arr.Type().String(), func(t *testing.T) {
			raw, err := MarshalArray(arr)
			if err != nil {
				t.Fatalf("MarshalArray failed: %v", err)
			}
			got, err := UnmarshalArray(raw)
			if err != nil {
				t.Fatalf("UnmarshalArray failed: %v", err)
			}
			if got.Type() != arr.Type() || fmt.Sprint(got.Dims) != fmt.Sprint(arr.Dims) {
				t.Errorf("got %s%v, want %s%v", got.Type(), got.Dims, arr.Type(), arr.Dims)
			}
			if !encoding.Equal(got.Data, arr.Data) {
				t.Errorf("data: got %v, want %v", got.Data, arr.Data)
			}
		})
	}
}

func TestMarshalArray_Deterministic(t *testing.T) {
	arr := encoding.Array{Dims: []int{2}, Data: encoding.Int32Slice{7, 8}}
	a, _ := MarshalArray(arr)
	b, _ := MarshalArray(arr)
	if string(a) != string(b) {
		t.Error("canonical encoding should be byte-for-byte stable")
	}
}

func TestMarshalArray_Rejects(t *testing.T) {
	if _, err := MarshalArray(encoding.Array{Dims: []int{3}, Data: encoding.Int8Slice{1}}); !errors.Is(err, encoding.ErrShape) {
		t.Errorf("bad shape: expected ErrShape, got %v", err)
	}
	if _, err := MarshalArray(encoding.Array{Dims: []int{1}, Data: encoding.ComplexInt16Slice{{}}}); !errors.Is(err, encoding.ErrUnsupported) {
		t.Errorf("host-only type: expected ErrUnsupported, got %v", err)
	}
}

func TestUnmarshalArray_Truncated(t *testing.T) {
	raw, err := cborEncMode.Marshal(wireArray{Type: "float32", Dims: []int{2}, Data: []byte{0, 0, 0}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if _, err := UnmarshalArray(raw); !errors.Is(err, encoding.ErrShape) {
		t.Errorf("expected ErrShape, got %v", err)
	}
	if _, err := UnmarshalArray([]byte{0xff}); err == nil {
		t.Error("garbage input should fail")
	}
}

func TestUnmarshalArray_OversizedDims(t *testing.T) {
	tests := []struct {
		name string
		w    wireArray
	}{
		{"huge single dimension", wireArray{Type: "uint8", Dims: []int{1 << 40}, Data: []byte{1, 2}}},
		{"wrapping element count", wireArray{Type: "uint8", Dims: []int{1 << 32, 1 << 32}}},
		{"wrapping byte count", wireArray{Type: "float64", Dims: []int{1 << 61}}},
		{"non-positive dimension", wireArray{Type: "int16", Dims: []int{2, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := cborEncMode.Marshal(tt.w)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if _, err := UnmarshalArray(raw); !errors.Is(err, encoding.ErrShape) {
				t.Errorf("expected ErrShape, got %v", err)
			}
		})
	}
}

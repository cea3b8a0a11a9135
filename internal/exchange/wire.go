package exchange

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/ironsheep/raster-bridge/internal/encoding"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("exchange: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// wireArray is the CBOR form of an exchange array. Data holds the
// elements packed little-endian, fastest dimension first.
type wireArray struct {
	Type string `cbor:"1,keyasint"`
	Dims []int  `cbor:"2,keyasint"`
	Data []byte `cbor:"3,keyasint"`
}

// MarshalArray serializes an exchange array to canonical CBOR.
func MarshalArray(a encoding.Array) ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, a.Data); err != nil {
		return nil, fmt.Errorf("exchange: pack %s array: %w", a.Type(), err)
	}
	return cborEncMode.Marshal(wireArray{
		Type: a.Type().String(),
		Dims: a.Dims,
		Data: buf.Bytes(),
	})
}

// UnmarshalArray deserializes an exchange array from CBOR.
func UnmarshalArray(data []byte) (encoding.Array, error) {
	var w wireArray
	if err := cbor.Unmarshal(data, &w); err != nil {
		return encoding.Array{}, fmt.Errorf("exchange: unmarshal array: %w", err)
	}
	t, err := encoding.ParseType(w.Type)
	if err != nil {
		return encoding.Array{}, err
	}
	e, err := encoding.EncodingOf(t)
	if err != nil {
		return encoding.Array{}, err
	}
	n, err := encoding.Count(w.Dims...)
	if err != nil {
		return encoding.Array{}, err
	}
	size := encoding.ElementSize(e)
	if n > math.MaxInt/size {
		return encoding.Array{}, fmt.Errorf("%w: %s%v overflows the byte count", encoding.ErrShape, t, w.Dims)
	}
	// The payload length is checked before anything is allocated.
	if want := n * size; len(w.Data) != want {
		return encoding.Array{}, fmt.Errorf("%w: %s%v needs %d bytes, got %d", encoding.ErrShape, t, w.Dims, want, len(w.Data))
	}
	a, err := encoding.NewArray(t, w.Dims...)
	if err != nil {
		return encoding.Array{}, err
	}
	if err := binary.Read(bytes.NewReader(w.Data), binary.LittleEndian, a.Data); err != nil {
		return encoding.Array{}, fmt.Errorf("exchange: unpack %s array: %w", t, err)
	}
	return a, nil
}

package runtime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterGrowthAndFinish(t *testing.T) {
	w := NewWriter(WithCapacity(1))
	for i := 0; i < 100; i++ {
		w.WriteUint8(byte(i))
	}
	data := w.Finish()
	require.Len(t, data, 100)
	for i := 0; i < 100; i++ {
		require.Equal(t, byte(i), data[i])
	}
}

func TestWriterResetReusesBuffer(t *testing.T) {
	w := NewWriter()
	w.WriteBytes([]byte("hello"))
	require.Positive(t, w.Len())

	w.Reset()
	require.Equal(t, 0, w.Len())

	w.WriteBytes([]byte("x"))
	data := w.Finish()
	require.Equal(t, []byte{0x01, 'x'}, data)
}

func TestFinishPanicsOnSecondCall(t *testing.T) {
	w := NewWriter()
	w.Finish()
	require.Panics(t, func() {
		w.Finish()
	})
}

func TestWriteAfterFinishPanics(t *testing.T) {
	w := NewWriter()
	w.Finish()
	require.Panics(t, func() {
		w.WriteUint8(1)
	})
}

func TestBytesPeeksWithoutFinalizing(t *testing.T) {
	w := NewWriter()
	w.WriteUint8(0x2A)
	require.Equal(t, []byte{0x2A}, w.Bytes())
	// still Open: further writes are legal.
	w.WriteUint8(0x2B)
	require.Equal(t, []byte{0x2A, 0x2B}, w.Finish())
}

func TestFloatMarkerTable(t *testing.T) {
	// §8 scenario 2.
	w := NewWriter()
	w.WriteFloat32(0.0)
	w.WriteFloat32(1.0)
	w.WriteFloat32(-1.0)
	w.WriteFloat32(3.14159)
	data := w.Bytes()

	require.Equal(t, byte(0x00), data[0])
	require.Equal(t, byte(0x01), data[1])
	require.Equal(t, byte(0x02), data[2])
	require.Equal(t, byte(0xFF), data[3])
	require.Len(t, data, 4+4)
}

func TestFloatNegativeZeroTakesShortForm(t *testing.T) {
	w := NewWriter()
	w.WriteFloat64(math.Copysign(0, -1))
	data := w.Finish()
	require.Equal(t, []byte{0x00}, data)
}

func TestStringRoundTripScenario(t *testing.T) {
	// §8 scenario 1.
	input := "Hello, world! \U0001F680"
	require.Len(t, []byte(input), 18)

	w := NewWriter()
	w.WriteString(input)
	data := w.Finish()

	require.Len(t, data, 19)
	require.Equal(t, byte(0x12), data[0])

	r := NewReader(data)
	got, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, input, got)
}

func TestBoolSliceWireBytes(t *testing.T) {
	// §8 scenario 6.
	bools := make([]bool, 10)
	for i := range bools {
		bools[i] = i%2 == 0
	}
	w := NewWriter()
	w.WriteBoolSlice(bools)
	data := w.Finish()
	require.Equal(t, []byte{0x0A, 0x55, 0x01}, data)

	r := NewReader(data)
	got, err := r.ReadBoolSlice()
	require.NoError(t, err)
	require.Equal(t, bools, got)
}

func TestBoolSliceCompressesBelowOneBytePerBool(t *testing.T) {
	n := 10000
	bools := make([]bool, n)
	for i := range bools {
		bools[i] = i%3 == 0
	}
	w := NewWriter()
	w.WriteBoolSlice(bools)
	data := w.Finish()
	require.Less(t, len(data), n/2)

	r := NewReader(data)
	got, err := r.ReadBoolSlice()
	require.NoError(t, err)
	require.Equal(t, bools, got)
}

func TestUint128MaxRoundTrip(t *testing.T) {
	// §8 scenario 3: 2^128 - 1.
	v := Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}
	w := NewWriter()
	w.WriteUint128(v)
	data := w.Finish()
	require.Len(t, data, 20)

	r := NewReader(data)
	got, err := r.ReadUint128()
	require.NoError(t, err)
	require.Equal(t, v, got)
}

func TestFixedByteArrayNoLengthPrefix(t *testing.T) {
	// §8 scenario 4: [1; 32], no length prefix.
	in := make([]byte, 32)
	for i := range in {
		in[i] = 1
	}
	w := NewWriter()
	w.WriteFixedBytes(in)
	data := w.Finish()
	require.Len(t, data, 32)
	for _, b := range data {
		require.Equal(t, byte(1), b)
	}

	r := NewReader(data)
	got, err := r.ReadFixedBytes(32)
	require.NoError(t, err)
	require.Equal(t, in, got)
}

func TestFixedArrayInvalidLength(t *testing.T) {
	w := NewWriter()
	w.WriteVarint(3)
	for _, v := range []uint32{1, 2, 3} {
		w.WriteVarint(uint64(v))
	}
	data := w.Finish()

	r := NewReader(data)
	_, err := ReadFixedArray(r, 4, func(r *Reader) (uint32, error) {
		v, err := r.ReadVarint()
		return uint32(v), err
	})
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, InvalidLength, kind)
}

func TestUint32SliceIsRawNotVarint(t *testing.T) {
	// §4.7: a u32 slice is a raw-copy path, not scalar-varint-per-element.
	w := NewWriter()
	w.WriteUint32Slice([]uint32{1, 2, 3, 4})
	data := w.Finish()
	// varint(4) + 4*4 raw bytes
	require.Len(t, data, 1+16)

	r := NewReader(data)
	got, err := r.ReadUint32Slice()
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2, 3, 4}, got)
}

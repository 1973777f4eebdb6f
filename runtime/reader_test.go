package runtime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadBufferTooSmall(t *testing.T) {
	r := NewReader([]byte{})
	_, err := r.ReadUint8()
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, BufferTooSmall, kind)
}

func TestReadBytesCrossingEndFails(t *testing.T) {
	w := NewWriter()
	w.WriteVarint(10) // claim 10 bytes but supply none
	data := w.Finish()

	r := NewReader(data)
	_, err := r.ReadBytes()
	require.Error(t, err)
	kind, _ := KindOf(err)
	require.Equal(t, BufferTooSmall, kind)
}

func TestReadStringInvalidUTF8(t *testing.T) {
	w := NewWriter()
	w.WriteVarint(3)
	data := w.Finish()
	data = append(data, 0xFF, 0xFE, 0xFD)

	r := NewReader(data)
	_, err := r.ReadString()
	require.Error(t, err)
	kind, _ := KindOf(err)
	require.Equal(t, InvalidData, kind)
}

func TestReadFloatUnknownMarker(t *testing.T) {
	r := NewReader([]byte{0x7F})
	_, err := r.ReadFloat32()
	require.Error(t, err)
	kind, _ := KindOf(err)
	require.Equal(t, InvalidData, kind)
}

func TestNaNRoundTripsAsNaN(t *testing.T) {
	w := NewWriter()
	w.WriteFloat64(math.NaN())
	data := w.Finish()
	require.Equal(t, byte(floatMarkerFull), data[0])

	r := NewReader(data)
	got, err := r.ReadFloat64()
	require.NoError(t, err)
	require.True(t, math.IsNaN(got))
}

func TestMoreAndPosition(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	require.True(t, r.More())
	require.Equal(t, 0, r.Position())
	_, err := r.ReadUint8()
	require.NoError(t, err)
	require.Equal(t, 1, r.Position())
	require.True(t, r.More())
}

func TestBorrowedStringAliasesInput(t *testing.T) {
	w := NewWriter()
	w.WriteString("abc")
	data := w.Finish()

	r := NewReader(data)
	b, err := r.ReadStringBytes()
	require.NoError(t, err)
	require.Equal(t, "abc", b.String())

	// The borrowed view shares memory with the input region.
	data[1] = 'z'
	require.Equal(t, "zbc", b.String())
}

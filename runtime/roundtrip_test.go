package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// manualRecord mirrors §8 scenario 5's record:
//
//	{a: u8, b: String, c: (u16, u32), d: [u8; 2]}
//
// encoded by hand (without the codegen package) to prove the derivation
// contract is just sequential field encoding with no tag or length prefix
// around the record itself.
type manualRecord struct {
	A uint8
	B string
	C1 uint16
	C2 uint32
	D  []byte // fixed-length 2
}

func (m manualRecord) encode(w *Writer) {
	w.WriteUint8(m.A)
	w.WriteString(m.B)
	w.WriteVarint(uint64(m.C1))
	w.WriteVarint(uint64(m.C2))
	w.WriteFixedBytes(m.D)
}

func decodeManualRecord(r *Reader) (manualRecord, error) {
	var m manualRecord
	var err error
	if m.A, err = r.ReadUint8(); err != nil {
		return m, err
	}
	if m.B, err = r.ReadString(); err != nil {
		return m, err
	}
	c1, err := r.ReadVarint()
	if err != nil {
		return m, err
	}
	m.C1 = uint16(c1)
	c2, err := r.ReadVarint()
	if err != nil {
		return m, err
	}
	m.C2 = uint32(c2)
	if m.D, err = r.ReadFixedBytes(2); err != nil {
		return m, err
	}
	return m, nil
}

func TestRecordCompositionScenario(t *testing.T) {
	rec := manualRecord{A: 0x2A, B: "x", C1: 128, C2: 25600, D: []byte{9, 9}}

	w := NewWriter()
	rec.encode(w)
	data := w.Finish()

	want := []byte{0x2A, 0x01, 'x', 0x80, 0x01, 0x80, 0xC8, 0x01, 0x09, 0x09}
	require.Equal(t, want, data)

	r := NewReader(data)
	got, err := decodeManualRecord(r)
	require.NoError(t, err)
	require.Equal(t, rec, got)
}

func TestUnitRecordEncodesEmpty(t *testing.T) {
	w := NewWriter()
	data := w.Finish()
	require.Empty(t, data)
}

func TestSliceKindRoundTrips(t *testing.T) {
	w := NewWriter()
	w.WriteUint8Slice([]uint8{1, 2, 3})
	w.WriteUint16Slice([]uint16{1, 300, 70000 & 0xFFFF})
	w.WriteUint32Slice([]uint32{1, 2, 3})
	w.WriteUint64Slice([]uint64{1, 2, 1 << 40})
	w.WriteInt8Slice([]int8{-1, 0, 1})
	w.WriteInt16Slice([]int16{-1000, 0, 1000})
	w.WriteInt32Slice([]int32{-100000, 0, 100000})
	w.WriteInt64Slice([]int64{-1 << 40, 0, 1 << 40})
	w.WriteFloat32Slice([]float32{0, 1, -1, 2.5})
	w.WriteFloat64Slice([]float64{0, 1, -1, 2.5})
	w.WriteStringSlice([]string{"a", "bb", ""})
	w.WriteBoolSlice([]bool{true, false, true})
	data := w.Finish()

	r := NewReader(data)

	u8s, err := r.ReadUint8Slice()
	require.NoError(t, err)
	require.Equal(t, []uint8{1, 2, 3}, u8s)

	u16s, err := r.ReadUint16Slice()
	require.NoError(t, err)
	require.Equal(t, []uint16{1, 300, 70000 & 0xFFFF}, u16s)

	u32s, err := r.ReadUint32Slice()
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2, 3}, u32s)

	u64s, err := r.ReadUint64Slice()
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 1 << 40}, u64s)

	i8s, err := r.ReadInt8Slice()
	require.NoError(t, err)
	require.Equal(t, []int8{-1, 0, 1}, i8s)

	i16s, err := r.ReadInt16Slice()
	require.NoError(t, err)
	require.Equal(t, []int16{-1000, 0, 1000}, i16s)

	i32s, err := r.ReadInt32Slice()
	require.NoError(t, err)
	require.Equal(t, []int32{-100000, 0, 100000}, i32s)

	i64s, err := r.ReadInt64Slice()
	require.NoError(t, err)
	require.Equal(t, []int64{-1 << 40, 0, 1 << 40}, i64s)

	f32s, err := r.ReadFloat32Slice()
	require.NoError(t, err)
	require.Equal(t, []float32{0, 1, -1, 2.5}, f32s)

	f64s, err := r.ReadFloat64Slice()
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, -1, 2.5}, f64s)

	strs, err := r.ReadStringSlice()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "bb", ""}, strs)

	bools, err := r.ReadBoolSlice()
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, true}, bools)

	require.False(t, r.More())
}

func TestFixedArrayGenericRoundTrip(t *testing.T) {
	w := NewWriter()
	WriteFixedArray(w, []uint32{1, 2, 3, 4}, func(w *Writer, v uint32) {
		w.WriteVarint(uint64(v))
	})
	data := w.Finish()

	r := NewReader(data)
	got, err := ReadFixedArray(r, 4, func(r *Reader) (uint32, error) {
		v, err := r.ReadVarint()
		return uint32(v), err
	})
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 2, 3, 4}, got)
}

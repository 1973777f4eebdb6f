package runtime

import (
	"math"
	"unicode/utf8"
)

// Reader walks a borrowed byte region with a read cursor. A failed decode
// leaves the cursor at an unspecified but bounded position; per §3 the
// reader must not be retried without reconstructing it at a known-safe
// offset.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a reader over a borrowed byte region. The region must
// not be mutated while the reader exists.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current read cursor.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the length of the borrowed region.
func (r *Reader) Len() int {
	return len(r.data)
}

// More reports whether any unconsumed bytes remain.
func (r *Reader) More() bool {
	return r.pos < len(r.data)
}

// readByte reads a single raw byte, the common low-level path used by
// every other decode operation.
func (r *Reader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, newError(BufferTooSmall, r.pos, "unexpected end of input")
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// readRaw returns a borrowed slice of exactly n bytes, advancing the
// cursor, or BufferTooSmall if fewer than n bytes remain.
func (r *Reader) readRaw(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, newError(BufferTooSmall, r.pos, "need %d bytes, have %d", n, len(r.data)-r.pos)
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	return r.readByte()
}

// ReadBool reads one byte; zero decodes false, any other value decodes
// true (§4.3: no InvalidData for an out-of-range byte).
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadFloat32 reads a value encoded by WriteFloat32 (§4.4). A marker byte
// other than {0,1,2,255} is InvalidData.
func (r *Reader) ReadFloat32() (float32, error) {
	start := r.pos
	marker, err := r.readByte()
	if err != nil {
		return 0, err
	}
	switch marker {
	case floatMarkerZero:
		return 0, nil
	case floatMarkerOne:
		return 1, nil
	case floatMarkerNegOne:
		return -1, nil
	case floatMarkerFull:
		raw, err := r.readRaw(4)
		if err != nil {
			return 0, err
		}
		bits := uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16 | uint32(raw[3])<<24
		return math.Float32frombits(bits), nil
	default:
		return 0, newError(InvalidData, start, "unknown float32 marker byte 0x%02x", marker)
	}
}

// ReadFloat64 is the 64-bit counterpart of ReadFloat32.
func (r *Reader) ReadFloat64() (float64, error) {
	start := r.pos
	marker, err := r.readByte()
	if err != nil {
		return 0, err
	}
	switch marker {
	case floatMarkerZero:
		return 0, nil
	case floatMarkerOne:
		return 1, nil
	case floatMarkerNegOne:
		return -1, nil
	case floatMarkerFull:
		raw, err := r.readRaw(8)
		if err != nil {
			return 0, err
		}
		bits := uint64(raw[0]) | uint64(raw[1])<<8 | uint64(raw[2])<<16 | uint64(raw[3])<<24 |
			uint64(raw[4])<<32 | uint64(raw[5])<<40 | uint64(raw[6])<<48 | uint64(raw[7])<<56
		return math.Float64frombits(bits), nil
	default:
		return 0, newError(InvalidData, start, "unknown float64 marker byte 0x%02x", marker)
	}
}

// ReadBytes reads a length-prefixed byte slice (§4.5). The returned slice
// is borrowed from the reader's input region and is valid only while that
// region lives. No validation of content occurs.
func (r *Reader) ReadBytes() ([]byte, error) {
	length, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	return r.readRaw(int(length))
}

// BorrowedString is a length-prefixed UTF-8 payload that still aliases the
// reader's underlying byte region: converting it to a string only copies
// when String is actually called, mirroring the original codec's
// zero-copy string borrow (see SPEC_FULL.md §D).
type BorrowedString []byte

// String copies the borrowed bytes into a new Go string.
func (b BorrowedString) String() string {
	return string(b)
}

// ReadStringBytes reads a length-prefixed string's bytes without copying
// them into a string, validating UTF-8 but returning the borrowed view.
func (r *Reader) ReadStringBytes() (BorrowedString, error) {
	start := r.pos
	length, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	raw, err := r.readRaw(int(length))
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, newError(InvalidData, start, "invalid UTF-8 in length-prefixed string")
	}
	return BorrowedString(raw), nil
}

// ReadString reads a length-prefixed UTF-8 string, allocating a fresh,
// independently-owned copy (§5: "owned-string decoding ... copies bytes
// into a freshly allocated string").
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadStringBytes()
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// ReadFixedBytes reads exactly n raw bytes with no length prefix (§4.8).
// The returned slice is borrowed; copy it if it must outlive the input
// region.
func (r *Reader) ReadFixedBytes(n int) ([]byte, error) {
	return r.readRaw(n)
}

// ReadBoolSlice decodes a bit-packed boolean sequence written by
// WriteBoolSlice (§4.6).
func (r *Reader) ReadBoolSlice() ([]bool, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	count := int(n)
	nBytes := (count + 7) / 8
	raw, err := r.readRaw(nBytes)
	if err != nil {
		return nil, err
	}
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		byteIdx := i / 8
		bitIdx := uint(i % 8)
		out[i] = raw[byteIdx]&(1<<bitIdx) != 0
	}
	return out, nil
}

// ReadUint8Slice decodes a length-prefixed sequence of raw bytes (§4.7).
func (r *Reader) ReadUint8Slice() ([]uint8, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	raw, err := r.readRaw(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]uint8, len(raw))
	copy(out, raw)
	return out, nil
}

// ReadUint16Slice decodes a length-prefixed sequence of varint-coded
// uint16 elements (§4.7).
func (r *Reader) ReadUint16Slice() ([]uint16, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := range out {
		v, err := r.ReadVarint()
		if err != nil {
			return nil, err
		}
		out[i] = uint16(v)
	}
	return out, nil
}

// ReadUint32Slice decodes a length-prefixed sequence of raw
// little-endian-equivalent uint32 words (§4.7's raw-copy asymmetry; not
// the same wire shape as reading each element as a scalar varint).
func (r *Reader) ReadUint32Slice() ([]uint32, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	raw, err := r.readRaw(int(n) * 4)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		base := i * 4
		out[i] = uint32(raw[base]) | uint32(raw[base+1])<<8 | uint32(raw[base+2])<<16 | uint32(raw[base+3])<<24
	}
	return out, nil
}

// ReadUint64Slice decodes a length-prefixed sequence of varint-coded
// uint64 elements (§4.7).
func (r *Reader) ReadUint64Slice() ([]uint64, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	out := make([]uint64, n)
	for i := range out {
		v, err := r.ReadVarint()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadInt8Slice decodes a length-prefixed sequence of signed-varint-coded
// int8 elements (§4.7).
func (r *Reader) ReadInt8Slice() ([]int8, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	out := make([]int8, n)
	for i := range out {
		v, err := r.ReadSignedVarint()
		if err != nil {
			return nil, err
		}
		out[i] = int8(v)
	}
	return out, nil
}

// ReadInt16Slice decodes a length-prefixed sequence of signed-varint-coded
// int16 elements (§4.7).
func (r *Reader) ReadInt16Slice() ([]int16, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	out := make([]int16, n)
	for i := range out {
		v, err := r.ReadSignedVarint()
		if err != nil {
			return nil, err
		}
		out[i] = int16(v)
	}
	return out, nil
}

// ReadInt32Slice decodes a length-prefixed sequence of signed-varint-coded
// int32 elements (§4.7).
func (r *Reader) ReadInt32Slice() ([]int32, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		v, err := r.ReadSignedVarint()
		if err != nil {
			return nil, err
		}
		out[i] = int32(v)
	}
	return out, nil
}

// ReadInt64Slice decodes a length-prefixed sequence of signed-varint-coded
// int64 elements (§4.7).
func (r *Reader) ReadInt64Slice() ([]int64, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	out := make([]int64, n)
	for i := range out {
		v, err := r.ReadSignedVarint()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadFloat32Slice decodes a length-prefixed sequence of float-shortcut
// float32 elements (§4.7).
func (r *Reader) ReadFloat32Slice() ([]float32, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i := range out {
		v, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadFloat64Slice decodes a length-prefixed sequence of float-shortcut
// float64 elements (§4.7).
func (r *Reader) ReadFloat64Slice() ([]float64, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		v, err := r.ReadFloat64()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadStringSlice decodes a length-prefixed sequence of length-prefixed
// UTF-8 strings (§4.7).
func (r *Reader) ReadStringSlice() ([]string, error) {
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	out := make([]string, n)
	for i := range out {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// ReadUint128 decodes a 128-bit unsigned integer written by WriteUint128
// (§4.10).
func (r *Reader) ReadUint128() (Uint128, error) {
	hi, err := r.ReadVarint()
	if err != nil {
		return Uint128{}, err
	}
	lo, err := r.ReadVarint()
	if err != nil {
		return Uint128{}, err
	}
	return Uint128{Hi: hi, Lo: lo}, nil
}

// ReadFixedArray decodes varint(n) followed by n elements read with
// decodeElem, failing with InvalidLength if the prefix disagrees with the
// caller's expected length (§4.8).
func ReadFixedArray[T any](r *Reader, expected int, decodeElem func(*Reader) (T, error)) ([]T, error) {
	start := r.pos
	n, err := r.ReadVarint()
	if err != nil {
		return nil, err
	}
	if int(n) != expected {
		return nil, newError(InvalidLength, start, "expected length %d, got %d", expected, n)
	}
	out := make([]T, expected)
	for i := range out {
		v, err := decodeElem(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

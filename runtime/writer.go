package runtime

import "math"

// defaultCapacity is the writer's initial buffer size when no WriterOption
// overrides it (§3).
const defaultCapacity = 1024

// Writer accumulates bytes into a growing buffer while tracking a write
// cursor. It follows the {Open -> Finalized} state machine of §4.12: every
// Write* method is legal only before Finish is called.
type Writer struct {
	buf       []byte
	pos       int
	finalized bool
}

// WriterOption configures a Writer at construction time.
type WriterOption func(*Writer)

// WithCapacity sets the writer's initial physical buffer size. The default
// is 1024 bytes.
func WithCapacity(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.buf = make([]byte, n)
		}
	}
}

// NewWriter creates a writer in the Open state.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{buf: make([]byte, defaultCapacity)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Len reports the number of bytes written so far (the cursor position).
func (w *Writer) Len() int {
	return w.pos
}

// Bytes returns the currently-written slice without finalizing the writer.
// The returned slice aliases the writer's internal buffer and is only
// valid until the next Write* call grows it.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.pos]
}

// Reset zeroes the cursor without shrinking the physical buffer, so the
// writer can be reused without reallocating (§4.11). Reset does not clear
// Finalized state back to Open on its own instance after Finish, since
// Finish already transferred buffer ownership away.
func (w *Writer) Reset() {
	if w.finalized {
		panic("compactcodec: Reset called on a finalized Writer")
	}
	w.pos = 0
}

// Finish truncates the buffer to the cursor and transfers ownership of the
// byte slice to the caller. The writer transitions to Finalized; any
// further Write* call panics.
func (w *Writer) Finish() []byte {
	if w.finalized {
		panic("compactcodec: Finish called twice on the same Writer")
	}
	out := w.buf[:w.pos]
	w.finalized = true
	w.buf = nil
	return out
}

// ensureCapacity grows the physical buffer so that k more bytes can be
// written starting at the cursor, per the §4.11 growth policy: grow to
// max(pos+k, 2*physicalLength) and zero-fill the new tail.
func (w *Writer) ensureCapacity(k int) {
	if w.finalized {
		panic("compactcodec: write on a finalized Writer")
	}
	required := w.pos + k
	if required <= len(w.buf) {
		return
	}
	newLen := required
	if doubled := 2 * len(w.buf); doubled > newLen {
		newLen = doubled
	}
	grown := make([]byte, newLen)
	copy(grown, w.buf[:w.pos])
	w.buf = grown
}

// putByte is the single-byte write path (§4.3): check capacity, grow if
// needed, store the byte, advance the cursor by one.
func (w *Writer) putByte(b byte) {
	w.ensureCapacity(1)
	w.buf[w.pos] = b
	w.pos++
}

// writeRaw copies data directly into the buffer with no length prefix. It
// backs the fixed-byte-array and dense-slice raw-copy paths (§4.7, §4.8).
func (w *Writer) writeRaw(data []byte) {
	w.ensureCapacity(len(data))
	copy(w.buf[w.pos:], data)
	w.pos += len(data)
}

// WriteUint8 writes a single byte.
func (w *Writer) WriteUint8(v uint8) {
	w.putByte(v)
}

// WriteBool writes a boolean as one byte: 0 for false, 1 for true (§4.3).
func (w *Writer) WriteBool(v bool) {
	if v {
		w.putByte(1)
	} else {
		w.putByte(0)
	}
}

// Float markers shared by WriteFloat32/64 and ReadFloat32/64 (§4.4).
const (
	floatMarkerZero = 0x00
	floatMarkerOne  = 0x01
	floatMarkerNegOne = 0x02
	floatMarkerFull = 0xFF
)

// WriteFloat32 applies the float shortcut (§4.4): +0.0, +1.0, and -1.0 take
// single-byte markers (numeric equality means -0.0 takes the +0.0 marker
// and NaN never matches, so it always takes the long form); anything else
// is a marker byte followed by the raw IEEE-754 bits in little-endian byte
// order.
func (w *Writer) WriteFloat32(v float32) {
	switch {
	case v == 0:
		w.putByte(floatMarkerZero)
	case v == 1:
		w.putByte(floatMarkerOne)
	case v == -1:
		w.putByte(floatMarkerNegOne)
	default:
		w.putByte(floatMarkerFull)
		bits := math.Float32bits(v)
		w.writeRaw([]byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)})
	}
}

// WriteFloat64 is the 64-bit counterpart of WriteFloat32.
func (w *Writer) WriteFloat64(v float64) {
	switch {
	case v == 0:
		w.putByte(floatMarkerZero)
	case v == 1:
		w.putByte(floatMarkerOne)
	case v == -1:
		w.putByte(floatMarkerNegOne)
	default:
		w.putByte(floatMarkerFull)
		bits := math.Float64bits(v)
		w.writeRaw([]byte{
			byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24),
			byte(bits >> 32), byte(bits >> 40), byte(bits >> 48), byte(bits >> 56),
		})
	}
}

// WriteBytes writes a raw byte slice as varint(length) || payload, with no
// validation of the contents (§4.5).
func (w *Writer) WriteBytes(b []byte) {
	w.WriteVarint(uint64(len(b)))
	w.writeRaw(b)
}

// WriteString writes a string as varint(byte length) || UTF-8 bytes (§4.5).
// The length counts bytes, not runes. The encoder does not validate UTF-8;
// Go's string type already guarantees well-formed content in practice, and
// validation is a decode-time concern per §4.5.
func (w *Writer) WriteString(s string) {
	w.WriteVarint(uint64(len(s)))
	w.writeRaw([]byte(s))
}

// WriteFixedBytes writes exactly len(b) raw bytes with no length prefix
// (§4.8: an array of N bytes, size known from the schema).
func (w *Writer) WriteFixedBytes(b []byte) {
	w.writeRaw(b)
}

// WriteBoolSlice bit-packs a sequence of booleans as varint(n) followed by
// ceil(n/8) bytes, bit i (LSB) of byte_index holding offset
// byte_index*8+i (§4.6). Trailing bits in the final partial byte are zero.
func (w *Writer) WriteBoolSlice(bs []bool) {
	w.WriteVarint(uint64(len(bs)))
	nBytes := (len(bs) + 7) / 8
	w.ensureCapacity(nBytes)
	for i := 0; i < nBytes; i++ {
		var b byte
		for bit := 0; bit < 8; bit++ {
			idx := i*8 + bit
			if idx >= len(bs) {
				break
			}
			if bs[idx] {
				b |= 1 << uint(bit)
			}
		}
		w.buf[w.pos] = b
		w.pos++
	}
}

// WriteUint8Slice writes a length-prefixed sequence of raw bytes (§4.7):
// one byte per element, copied directly for throughput.
func (w *Writer) WriteUint8Slice(s []uint8) {
	w.WriteVarint(uint64(len(s)))
	w.writeRaw(s)
}

// WriteUint16Slice writes each element as a varint after the length
// prefix (§4.7).
func (w *Writer) WriteUint16Slice(s []uint16) {
	w.WriteVarint(uint64(len(s)))
	for _, v := range s {
		w.WriteVarint(uint64(v))
	}
}

// WriteUint32Slice writes the elements as raw little-endian-equivalent
// words after the length prefix. This is the deliberate raw-copy
// asymmetry of §4.7: a u32 slice is NOT the same encoding as encoding each
// u32 as a scalar (which uses varint).
func (w *Writer) WriteUint32Slice(s []uint32) {
	w.WriteVarint(uint64(len(s)))
	w.ensureCapacity(len(s) * 4)
	for _, v := range s {
		w.buf[w.pos] = byte(v)
		w.buf[w.pos+1] = byte(v >> 8)
		w.buf[w.pos+2] = byte(v >> 16)
		w.buf[w.pos+3] = byte(v >> 24)
		w.pos += 4
	}
}

// WriteUint64Slice writes each element as a varint after the length
// prefix (§4.7).
func (w *Writer) WriteUint64Slice(s []uint64) {
	w.WriteVarint(uint64(len(s)))
	for _, v := range s {
		w.WriteVarint(v)
	}
}

// WriteInt8Slice writes each element as a signed varint after the length
// prefix (§4.7).
func (w *Writer) WriteInt8Slice(s []int8) {
	w.WriteVarint(uint64(len(s)))
	for _, v := range s {
		w.WriteSignedVarint(int64(v))
	}
}

// WriteInt16Slice writes each element as a signed varint after the length
// prefix (§4.7).
func (w *Writer) WriteInt16Slice(s []int16) {
	w.WriteVarint(uint64(len(s)))
	for _, v := range s {
		w.WriteSignedVarint(int64(v))
	}
}

// WriteInt32Slice writes each element as a signed varint after the length
// prefix (§4.7).
func (w *Writer) WriteInt32Slice(s []int32) {
	w.WriteVarint(uint64(len(s)))
	for _, v := range s {
		w.WriteSignedVarint(int64(v))
	}
}

// WriteInt64Slice writes each element as a signed varint after the length
// prefix (§4.7).
func (w *Writer) WriteInt64Slice(s []int64) {
	w.WriteVarint(uint64(len(s)))
	for _, v := range s {
		w.WriteSignedVarint(v)
	}
}

// WriteFloat32Slice writes each element with the float shortcut after the
// length prefix (§4.7).
func (w *Writer) WriteFloat32Slice(s []float32) {
	w.WriteVarint(uint64(len(s)))
	for _, v := range s {
		w.WriteFloat32(v)
	}
}

// WriteFloat64Slice writes each element with the float shortcut after the
// length prefix (§4.7).
func (w *Writer) WriteFloat64Slice(s []float64) {
	w.WriteVarint(uint64(len(s)))
	for _, v := range s {
		w.WriteFloat64(v)
	}
}

// WriteStringSlice writes each string length-prefixed after the slice's own
// length prefix (§4.7).
func (w *Writer) WriteStringSlice(s []string) {
	w.WriteVarint(uint64(len(s)))
	for _, v := range s {
		w.WriteString(v)
	}
}

// WriteUint128 writes a 128-bit unsigned integer as varint(high) ||
// varint(low) (§4.10). It does not zigzag; there is no signed 128-bit
// counterpart in the core surface.
func (w *Writer) WriteUint128(v Uint128) {
	w.WriteVarint(v.Hi)
	w.WriteVarint(v.Lo)
}

// WriteFixedArray writes varint(len(items)) followed by each element
// encoded with encodeElem (§4.8: a fixed-length array of any primitive
// kind other than raw bytes).
func WriteFixedArray[T any](w *Writer, items []T, encodeElem func(*Writer, T)) {
	w.WriteVarint(uint64(len(items)))
	for _, item := range items {
		encodeElem(w, item)
	}
}

// Package schema describes the in-memory model that the derivation
// facility (codegen) consumes: named record and tuple types built up from
// fields of a fixed set of primitive and composite kinds. This is the
// DERIVATION BINDING of the wire format's data model — a compile/
// generation-time mapping from a type to its ordered field codecs, with no
// runtime representation of its own.
package schema

// Kind names a primitive or composite field kind supported by the wire
// format. Sum types (variants carrying data) are deliberately absent: the
// core format does not specify them (see the wire format's own
// composition rules), so a schema cannot express one.
type Kind string

const (
	KindU8     Kind = "u8"
	KindU16    Kind = "u16"
	KindU32    Kind = "u32"
	KindU64    Kind = "u64"
	KindU128   Kind = "u128"
	KindI8     Kind = "i8"
	KindI16    Kind = "i16"
	KindI32    Kind = "i32"
	KindI64    Kind = "i64"
	KindF32    Kind = "f32"
	KindF64    Kind = "f64"
	KindBool   Kind = "bool"
	KindString Kind = "string"
	KindBytes  Kind = "bytes"  // variable-length []byte, length-prefixed
	KindArray  Kind = "array"  // Element describes the element kind; FixedSize > 0 means a fixed-length array
	KindRecord Kind = "record" // Ref names another type in the same Schema
)

// IsPrimitive reports whether k is one of the scalar kinds with a direct
// Writer/Reader method (i.e. not array or record).
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindU8, KindU16, KindU32, KindU64, KindU128,
		KindI8, KindI16, KindI32, KindI64,
		KindF32, KindF64, KindBool, KindString, KindBytes:
		return true
	default:
		return false
	}
}

// Field is one element of a record's or tuple's declared sequence, or the
// element description of an Array field.
type Field struct {
	// Name is the field's identifier. Tuple elements and array elements
	// leave Name empty; it is only meaningful for record fields.
	Name string `json:"name,omitempty"`

	// Type is the field's kind.
	Type Kind `json:"type"`

	// Ref names another type declared in the same Schema, used when Type
	// is KindRecord.
	Ref string `json:"ref,omitempty"`

	// Element describes the element kind of an Array field.
	Element *Field `json:"element,omitempty"`

	// FixedSize, for an Array field, gives the schema-declared length. A
	// zero value means the array is length-prefixed (a slice); a positive
	// value means a fixed-length array verified against the encoded
	// length prefix (or, for a byte element kind, a bare N-byte run with
	// no prefix at all).
	FixedSize int `json:"fixed_size,omitempty"`
}

// TypeKind distinguishes a named record from a positional tuple. Both
// compose their fields identically on the wire — the concatenation of
// each field's encoding in declared order, with no tag and no length
// prefix around the aggregate itself — the distinction only matters for
// the Go struct/fields the generator emits.
type TypeKind string

const (
	TypeRecord TypeKind = "record"
	TypeTuple  TypeKind = "tuple"
)

// TypeDef declares one record or tuple type and its ordered fields.
type TypeDef struct {
	Kind   TypeKind `json:"kind"`
	Fields []Field  `json:"fields"`
}

// Schema is a named collection of type declarations. Types may reference
// each other by name through Field.Ref; cycles are rejected at generation
// time (a record cannot nest itself without an indirection this core does
// not provide, e.g. a pointer/box kind).
type Schema struct {
	// Package is the Go package name the generator emits into.
	Package string `json:"package,omitempty"`

	Types map[string]*TypeDef `json:"types"`
}

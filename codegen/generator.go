// Package codegen turns a schema.Schema into Go source implementing the
// derivation contract: one struct, one Encode method and one Decode
// function per declared type, each a straight-line sequence of
// runtime.Writer/runtime.Reader calls in field order. There is no
// reflection at runtime — everything here runs once, at generation time.
package codegen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/anthropics/compactcodec/schema"
)

// Generate emits Go source declaring every type in s. typeName must name
// a type present in s; it exists only to give a clear error when a caller
// asks for a type the schema doesn't have, the same sanity check the
// teacher's generator performed before committing to a full pass.
func Generate(s *schema.Schema, typeName string) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	if _, ok := s.Types[typeName]; !ok {
		return "", fmt.Errorf("codegen: type %q not found in schema", typeName)
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("package %s\n\n", s.Package))
	buf.WriteString("import (\n")
	buf.WriteString("\t\"github.com/anthropics/compactcodec/runtime\"\n")
	buf.WriteString(")\n\n")

	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		typeDef := s.Types[name]
		if err := generateStruct(&buf, s, name, typeDef); err != nil {
			return "", err
		}
		if err := generateEncodeMethod(&buf, s, name, typeDef); err != nil {
			return "", err
		}
		if err := generateDecodeFunction(&buf, s, name, typeDef); err != nil {
			return "", err
		}
	}

	return buf.String(), nil
}

func fieldGoName(f schema.Field, index int) string {
	if f.Name != "" {
		return capitalizeFirst(f.Name)
	}
	return fmt.Sprintf("F%d", index)
}

func generateStruct(buf *bytes.Buffer, s *schema.Schema, name string, typeDef *schema.TypeDef) error {
	buf.WriteString(fmt.Sprintf("type %s struct {\n", name))
	for i, field := range typeDef.Fields {
		goType, err := mapKindToGo(s, field)
		if err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("\t%s %s\n", fieldGoName(field, i), goType))
	}
	buf.WriteString("}\n\n")
	return nil
}

// generateEncodeMethod emits the public Encode() entry point plus an
// unexported encode(w) that appends this type's fields onto a writer a
// caller already owns. The unexported form is what a parent record calls
// for a nested record field — the wire format has no sub-message framing,
// so a nested type's bytes must land directly in the parent's buffer, not
// in one of their own that then gets copied in.
func generateEncodeMethod(buf *bytes.Buffer, s *schema.Schema, typeName string, typeDef *schema.TypeDef) error {
	buf.WriteString(fmt.Sprintf("func (m *%s) Encode() []byte {\n", typeName))
	buf.WriteString("\tw := runtime.NewWriter()\n")
	buf.WriteString("\tm.encode(w)\n")
	buf.WriteString("\treturn w.Finish()\n")
	buf.WriteString("}\n\n")

	buf.WriteString(fmt.Sprintf("func (m *%s) encode(w *runtime.Writer) {\n", typeName))
	for i, field := range typeDef.Fields {
		if err := generateEncodeField(buf, s, field, i, "\t"); err != nil {
			return err
		}
	}
	buf.WriteString("}\n\n")
	return nil
}

func generateEncodeField(buf *bytes.Buffer, s *schema.Schema, field schema.Field, index int, indent string) error {
	fieldName := "m." + fieldGoName(field, index)
	return generateEncodeExpr(buf, s, field, fieldName, indent)
}

// generateEncodeExpr writes the statements that encode the Go expression
// expr (a struct field, a loop variable, whatever the caller already has
// in scope) according to field's kind.
func generateEncodeExpr(buf *bytes.Buffer, s *schema.Schema, field schema.Field, expr, indent string) error {
	switch field.Type {
	case schema.KindU8:
		buf.WriteString(fmt.Sprintf("%sw.WriteUint8(%s)\n", indent, expr))
	case schema.KindU16, schema.KindU32, schema.KindU64:
		buf.WriteString(fmt.Sprintf("%sw.WriteVarint(uint64(%s))\n", indent, expr))
	case schema.KindU128:
		buf.WriteString(fmt.Sprintf("%sw.WriteUint128(%s)\n", indent, expr))
	case schema.KindI8, schema.KindI16, schema.KindI32, schema.KindI64:
		buf.WriteString(fmt.Sprintf("%sw.WriteSignedVarint(int64(%s))\n", indent, expr))
	case schema.KindF32:
		buf.WriteString(fmt.Sprintf("%sw.WriteFloat32(%s)\n", indent, expr))
	case schema.KindF64:
		buf.WriteString(fmt.Sprintf("%sw.WriteFloat64(%s)\n", indent, expr))
	case schema.KindBool:
		buf.WriteString(fmt.Sprintf("%sw.WriteBool(%s)\n", indent, expr))
	case schema.KindString:
		buf.WriteString(fmt.Sprintf("%sw.WriteString(%s)\n", indent, expr))
	case schema.KindBytes:
		buf.WriteString(fmt.Sprintf("%sw.WriteBytes(%s)\n", indent, expr))
	case schema.KindRecord:
		buf.WriteString(fmt.Sprintf("%s{\n", indent))
		buf.WriteString(fmt.Sprintf("%s\tv := %s\n", indent, expr))
		buf.WriteString(fmt.Sprintf("%s\tv.encode(w)\n", indent))
		buf.WriteString(fmt.Sprintf("%s}\n", indent))
	case schema.KindArray:
		return generateEncodeArray(buf, s, field, expr, indent)
	default:
		return fmt.Errorf("codegen: field with unsupported kind %q (sum/variant types are not representable on this wire format)", field.Type)
	}
	return nil
}

var dedicatedSliceWriters = map[schema.Kind]string{
	schema.KindU8:     "WriteUint8Slice",
	schema.KindU16:    "WriteUint16Slice",
	schema.KindU32:    "WriteUint32Slice",
	schema.KindU64:    "WriteUint64Slice",
	schema.KindI8:     "WriteInt8Slice",
	schema.KindI16:    "WriteInt16Slice",
	schema.KindI32:    "WriteInt32Slice",
	schema.KindI64:    "WriteInt64Slice",
	schema.KindF32:    "WriteFloat32Slice",
	schema.KindF64:    "WriteFloat64Slice",
	schema.KindBool:   "WriteBoolSlice",
	schema.KindString: "WriteStringSlice",
}

var dedicatedSliceReaders = map[schema.Kind]string{
	schema.KindU8:     "ReadUint8Slice",
	schema.KindU16:    "ReadUint16Slice",
	schema.KindU32:    "ReadUint32Slice",
	schema.KindU64:    "ReadUint64Slice",
	schema.KindI8:     "ReadInt8Slice",
	schema.KindI16:    "ReadInt16Slice",
	schema.KindI32:    "ReadInt32Slice",
	schema.KindI64:    "ReadInt64Slice",
	schema.KindF32:    "ReadFloat32Slice",
	schema.KindF64:    "ReadFloat64Slice",
	schema.KindBool:   "ReadBoolSlice",
	schema.KindString: "ReadStringSlice",
}

func generateEncodeArray(buf *bytes.Buffer, s *schema.Schema, field schema.Field, expr, indent string) error {
	elem := field.Element
	if elem == nil {
		return fmt.Errorf("codegen: array field has no element description")
	}

	if field.FixedSize > 0 {
		if elem.Type == schema.KindU8 {
			buf.WriteString(fmt.Sprintf("%sw.WriteFixedBytes(%s[:])\n", indent, expr))
			return nil
		}
		elemType, err := mapKindToGo(s, *elem)
		if err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("%sruntime.WriteFixedArray(w, %s[:], func(w *runtime.Writer, v %s) {\n", indent, expr, elemType))
		if err := generateEncodeExpr(buf, s, *elem, "v", indent+"\t"); err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("%s})\n", indent))
		return nil
	}

	if method, ok := dedicatedSliceWriters[elem.Type]; ok {
		buf.WriteString(fmt.Sprintf("%sw.%s(%s)\n", indent, method, expr))
		return nil
	}

	// Fallback: element kind has no dedicated slice writer (record, u128,
	// bytes, or nested array elements) — write the length then each
	// element's own encoding in sequence.
	elemType, err := mapKindToGo(s, *elem)
	if err != nil {
		return err
	}
	buf.WriteString(fmt.Sprintf("%sw.WriteVarint(uint64(len(%s)))\n", indent, expr))
	buf.WriteString(fmt.Sprintf("%sfor _, v := range %s {\n", indent, expr))
	_ = elemType
	if err := generateEncodeExpr(buf, s, *elem, "v", indent+"\t"); err != nil {
		return err
	}
	buf.WriteString(fmt.Sprintf("%s}\n", indent))
	return nil
}

func generateDecodeFunction(buf *bytes.Buffer, s *schema.Schema, typeName string, typeDef *schema.TypeDef) error {
	buf.WriteString(fmt.Sprintf("func Decode%s(data []byte) (*%s, error) {\n", typeName, typeName))
	buf.WriteString("\tr := runtime.NewReader(data)\n")
	buf.WriteString(fmt.Sprintf("\treturn decode%sWithReader(r)\n", typeName))
	buf.WriteString("}\n\n")

	buf.WriteString(fmt.Sprintf("func decode%sWithReader(r *runtime.Reader) (*%s, error) {\n", typeName, typeName))
	buf.WriteString(fmt.Sprintf("\tresult := &%s{}\n\n", typeName))
	for i, field := range typeDef.Fields {
		if err := generateDecodeField(buf, s, field, i, "\t"); err != nil {
			return err
		}
	}
	buf.WriteString("\treturn result, nil\n")
	buf.WriteString("}\n\n")
	return nil
}

func generateDecodeField(buf *bytes.Buffer, s *schema.Schema, field schema.Field, index int, indent string) error {
	goName := fieldGoName(field, index)
	varName := strings.ToLower(goName)
	dst := "result." + goName
	return generateDecodeInto(buf, s, field, dst, varName, indent)
}

// generateDecodeInto writes the statements that decode one value of
// field's kind and assign it to dst, an already-declared lvalue in
// scope. varHint names the temporary used along the way; nested calls
// append suffixes to keep generated identifiers from colliding.
func generateDecodeInto(buf *bytes.Buffer, s *schema.Schema, field schema.Field, dst, varHint, indent string) error {
	switch field.Type {
	case schema.KindU8:
		buf.WriteString(fmt.Sprintf("%s%s, err := r.ReadUint8()\n", indent, varHint))
		buf.WriteString(errCheck(indent))
		buf.WriteString(fmt.Sprintf("%s%s = %s\n\n", indent, dst, varHint))
	case schema.KindU16, schema.KindU32, schema.KindU64:
		buf.WriteString(fmt.Sprintf("%s%s, err := r.ReadVarint()\n", indent, varHint))
		buf.WriteString(errCheck(indent))
		goType, _ := mapKindToGo(s, field)
		buf.WriteString(fmt.Sprintf("%s%s = %s(%s)\n\n", indent, dst, goType, varHint))
	case schema.KindU128:
		buf.WriteString(fmt.Sprintf("%s%s, err := r.ReadUint128()\n", indent, varHint))
		buf.WriteString(errCheck(indent))
		buf.WriteString(fmt.Sprintf("%s%s = %s\n\n", indent, dst, varHint))
	case schema.KindI8, schema.KindI16, schema.KindI32, schema.KindI64:
		buf.WriteString(fmt.Sprintf("%s%s, err := r.ReadSignedVarint()\n", indent, varHint))
		buf.WriteString(errCheck(indent))
		goType, _ := mapKindToGo(s, field)
		buf.WriteString(fmt.Sprintf("%s%s = %s(%s)\n\n", indent, dst, goType, varHint))
	case schema.KindF32:
		buf.WriteString(fmt.Sprintf("%s%s, err := r.ReadFloat32()\n", indent, varHint))
		buf.WriteString(errCheck(indent))
		buf.WriteString(fmt.Sprintf("%s%s = %s\n\n", indent, dst, varHint))
	case schema.KindF64:
		buf.WriteString(fmt.Sprintf("%s%s, err := r.ReadFloat64()\n", indent, varHint))
		buf.WriteString(errCheck(indent))
		buf.WriteString(fmt.Sprintf("%s%s = %s\n\n", indent, dst, varHint))
	case schema.KindBool:
		buf.WriteString(fmt.Sprintf("%s%s, err := r.ReadBool()\n", indent, varHint))
		buf.WriteString(errCheck(indent))
		buf.WriteString(fmt.Sprintf("%s%s = %s\n\n", indent, dst, varHint))
	case schema.KindString:
		buf.WriteString(fmt.Sprintf("%s%s, err := r.ReadString()\n", indent, varHint))
		buf.WriteString(errCheck(indent))
		buf.WriteString(fmt.Sprintf("%s%s = %s\n\n", indent, dst, varHint))
	case schema.KindBytes:
		buf.WriteString(fmt.Sprintf("%s%s, err := r.ReadBytes()\n", indent, varHint))
		buf.WriteString(errCheck(indent))
		buf.WriteString(fmt.Sprintf("%s%s = %s\n\n", indent, dst, varHint))
	case schema.KindRecord:
		buf.WriteString(fmt.Sprintf("%s%s, err := decode%sWithReader(r)\n", indent, varHint, field.Ref))
		buf.WriteString(errCheck(indent))
		buf.WriteString(fmt.Sprintf("%s%s = *%s\n\n", indent, dst, varHint))
	case schema.KindArray:
		return generateDecodeArray(buf, s, field, dst, varHint, indent)
	default:
		return fmt.Errorf("codegen: field with unsupported kind %q (sum/variant types are not representable on this wire format)", field.Type)
	}
	return nil
}

func generateDecodeArray(buf *bytes.Buffer, s *schema.Schema, field schema.Field, dst, varHint, indent string) error {
	elem := field.Element
	if elem == nil {
		return fmt.Errorf("codegen: array field has no element description")
	}

	if field.FixedSize > 0 {
		elemType, err := mapKindToGo(s, *elem)
		if err != nil {
			return err
		}
		if elem.Type == schema.KindU8 {
			buf.WriteString(fmt.Sprintf("%s%s, err := r.ReadFixedBytes(%d)\n", indent, varHint, field.FixedSize))
			buf.WriteString(errCheck(indent))
			buf.WriteString(fmt.Sprintf("%scopy(%s[:], %s)\n\n", indent, dst, varHint))
			return nil
		}
		buf.WriteString(fmt.Sprintf("%s%s, err := runtime.ReadFixedArray(r, %d, func(r *runtime.Reader) (%s, error) {\n", indent, varHint, field.FixedSize, elemType))
		buf.WriteString(fmt.Sprintf("%s\tvar v %s\n", indent, elemType))
		if err := generateDecodeInto(buf, s, *elem, "v", "elemVal", indent+"\t"); err != nil {
			return err
		}
		buf.WriteString(fmt.Sprintf("%s\treturn v, nil\n", indent))
		buf.WriteString(fmt.Sprintf("%s})\n", indent))
		buf.WriteString(errCheck(indent))
		buf.WriteString(fmt.Sprintf("%scopy(%s[:], %s)\n\n", indent, dst, varHint))
		return nil
	}

	if method, ok := dedicatedSliceReaders[elem.Type]; ok {
		buf.WriteString(fmt.Sprintf("%s%s, err := r.%s()\n", indent, varHint, method))
		buf.WriteString(errCheck(indent))
		buf.WriteString(fmt.Sprintf("%s%s = %s\n\n", indent, dst, varHint))
		return nil
	}

	elemType, err := mapKindToGo(s, *elem)
	if err != nil {
		return err
	}
	lenVar := varHint + "Len"
	itemVar := varHint + "Item"
	buf.WriteString(fmt.Sprintf("%s%s, err := r.ReadVarint()\n", indent, lenVar))
	buf.WriteString(errCheck(indent))
	buf.WriteString(fmt.Sprintf("%s%s = make([]%s, %s)\n", indent, dst, elemType, lenVar))
	buf.WriteString(fmt.Sprintf("%sfor i := range %s {\n", indent, dst))
	if err := generateDecodeInto(buf, s, *elem, fmt.Sprintf("%s[i]", dst), itemVar, indent+"\t"); err != nil {
		return err
	}
	buf.WriteString(fmt.Sprintf("%s}\n\n", indent))
	return nil
}

func errCheck(indent string) string {
	return fmt.Sprintf("%sif err != nil {\n%s\treturn nil, err\n%s}\n", indent, indent, indent)
}

func mapKindToGo(s *schema.Schema, field schema.Field) (string, error) {
	switch field.Type {
	case schema.KindU8:
		return "uint8", nil
	case schema.KindU16:
		return "uint16", nil
	case schema.KindU32:
		return "uint32", nil
	case schema.KindU64:
		return "uint64", nil
	case schema.KindU128:
		return "runtime.Uint128", nil
	case schema.KindI8:
		return "int8", nil
	case schema.KindI16:
		return "int16", nil
	case schema.KindI32:
		return "int32", nil
	case schema.KindI64:
		return "int64", nil
	case schema.KindF32:
		return "float32", nil
	case schema.KindF64:
		return "float64", nil
	case schema.KindBool:
		return "bool", nil
	case schema.KindString:
		return "string", nil
	case schema.KindBytes:
		return "[]byte", nil
	case schema.KindRecord:
		if _, ok := s.Types[field.Ref]; !ok {
			return "", fmt.Errorf("codegen: unknown referenced type %q", field.Ref)
		}
		return field.Ref, nil
	case schema.KindArray:
		if field.Element == nil {
			return "", fmt.Errorf("codegen: array field missing element description")
		}
		elemType, err := mapKindToGo(s, *field.Element)
		if err != nil {
			return "", err
		}
		if field.FixedSize > 0 {
			return fmt.Sprintf("[%d]%s", field.FixedSize, elemType), nil
		}
		return "[]" + elemType, nil
	default:
		return "", fmt.Errorf("codegen: field has unsupported kind %q (sum/variant types are not representable on this wire format)", field.Type)
	}
}

func capitalizeFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

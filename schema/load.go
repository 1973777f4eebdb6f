package schema

import (
	"fmt"
	"os"

	"github.com/aeolun/json5"
)

// Load reads and parses a schema document from path. Schema files are
// JSON5 (comments and trailing commas allowed), the same convenience the
// teacher's own test fixtures use.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a JSON5 document into a Schema.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := json5.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("schema: parse: %w", err)
	}
	if s.Package == "" {
		s.Package = "generated"
	}
	return &s, nil
}

// Validate checks that every record/tuple reference resolves within the
// schema and that no type directly or indirectly references itself,
// which the core's composition rule (field encodings concatenated in
// declared order, no indirection kind) cannot represent.
func (s *Schema) Validate() error {
	for name, def := range s.Types {
		if def.Kind != TypeRecord && def.Kind != TypeTuple {
			return fmt.Errorf("schema: type %q has unknown kind %q", name, def.Kind)
		}
		for _, f := range def.Fields {
			if err := s.validateField(name, f, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Schema) validateField(owner string, f Field, seen []string) error {
	switch f.Type {
	case KindRecord:
		if f.Ref == "" {
			return fmt.Errorf("schema: field in %q has type record but no ref", owner)
		}
		if _, ok := s.Types[f.Ref]; !ok {
			return fmt.Errorf("schema: type %q references unknown type %q", owner, f.Ref)
		}
		for _, s := range seen {
			if s == f.Ref {
				return fmt.Errorf("schema: type %q is involved in a reference cycle through %q", owner, f.Ref)
			}
		}
		next := append(append([]string{}, seen...), owner)
		for _, nested := range s.Types[f.Ref].Fields {
			if err := s.validateField(f.Ref, nested, next); err != nil {
				return err
			}
		}
	case KindArray:
		if f.Element == nil {
			return fmt.Errorf("schema: array field in %q has no element description", owner)
		}
		return s.validateField(owner, *f.Element, seen)
	default:
		if !f.Type.IsPrimitive() {
			return fmt.Errorf("schema: type %q has field with unsupported kind %q", owner, f.Type)
		}
	}
	return nil
}

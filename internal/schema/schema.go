// Package schema holds the target-schema contract transforms emit against.
// A schema is parsed once from its JSON representation at configure time and
// is read-only afterwards, so it can be shared across concurrent transform
// invocations without locking.
package schema

import (
	"encoding/json"
	"fmt"
)

// Type enumerates the primitive field types a schema may declare.
type Type int

const (
	String Type = iota
	Bytes
	Int
	Long
	Float
	Double
	Boolean
	Map
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Bytes:
		return "bytes"
	case Int:
		return "int"
	case Long:
		return "long"
	case Float:
		return "float"
	case Double:
		return "double"
	case Boolean:
		return "boolean"
	case Map:
		return "map"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Field is one (name, type) pair of a schema, in declaration order.
type Field struct {
	Name string
	Type Type
}

// Schema is an ordered, immutable set of uniquely named typed fields.
type Schema struct {
	name   string
	fields []Field
	types  map[string]Type
}

type rawField struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

type rawSchema struct {
	Kind   string     `json:"type"`
	Name   string     `json:"name"`
	Fields []rawField `json:"fields"`
}

// Parse decodes the JSON representation of a record schema:
//
//	{"type":"record","name":"out","fields":[{"name":"a","type":"string"}]}
//
// Field types are the primitive tokens string, bytes, int, long, float,
// double, boolean, or the object form {"type":"map",...} for map fields.
func Parse(raw string) (*Schema, error) {
	var rs rawSchema
	if err := json.Unmarshal([]byte(raw), &rs); err != nil {
		return nil, fmt.Errorf("schema: invalid JSON: %w", err)
	}
	if rs.Kind != "record" {
		return nil, fmt.Errorf("schema: top-level type must be %q, got %q", "record", rs.Kind)
	}
	if len(rs.Fields) == 0 {
		return nil, fmt.Errorf("schema %q: no fields declared", rs.Name)
	}

	s := &Schema{
		name:   rs.Name,
		fields: make([]Field, 0, len(rs.Fields)),
		types:  make(map[string]Type, len(rs.Fields)),
	}
	for _, rf := range rs.Fields {
		if rf.Name == "" {
			return nil, fmt.Errorf("schema %q: field with empty name", rs.Name)
		}
		if _, dup := s.types[rf.Name]; dup {
			return nil, fmt.Errorf("schema %q: duplicate field %q", rs.Name, rf.Name)
		}
		t, err := parseType(rf.Type)
		if err != nil {
			return nil, fmt.Errorf("schema %q: field %q: %w", rs.Name, rf.Name, err)
		}
		s.fields = append(s.fields, Field{Name: rf.Name, Type: t})
		s.types[rf.Name] = t
	}
	return s, nil
}

func parseType(raw json.RawMessage) (Type, error) {
	var tok string
	if err := json.Unmarshal(raw, &tok); err == nil {
		switch tok {
		case "string":
			return String, nil
		case "bytes":
			return Bytes, nil
		case "int":
			return Int, nil
		case "long":
			return Long, nil
		case "float":
			return Float, nil
		case "double":
			return Double, nil
		case "boolean":
			return Boolean, nil
		}
		return 0, fmt.Errorf("unknown type %q", tok)
	}
	// Object form; only map is supported.
	var obj struct {
		Kind string `json:"type"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, fmt.Errorf("unparsable type %s", string(raw))
	}
	if obj.Kind != "map" {
		return 0, fmt.Errorf("unknown complex type %q", obj.Kind)
	}
	return Map, nil
}

// New builds a schema from already-typed fields, for components that derive
// a projection of an existing schema rather than parse one from JSON.
func New(name string, fields []Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema %q: no fields declared", name)
	}
	s := &Schema{name: name, fields: fields, types: make(map[string]Type, len(fields))}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema %q: field with empty name", name)
		}
		if _, dup := s.types[f.Name]; dup {
			return nil, fmt.Errorf("schema %q: duplicate field %q", name, f.Name)
		}
		s.types[f.Name] = f.Type
	}
	return s, nil
}

// Name returns the record name the schema was declared with.
func (s *Schema) Name() string { return s.name }

// Fields returns the declared fields in declaration order. The returned
// slice must not be modified.
func (s *Schema) Fields() []Field { return s.fields }

// TypeOf reports the declared type of a field and whether it exists.
func (s *Schema) TypeOf(name string) (Type, bool) {
	t, ok := s.types[name]
	return t, ok
}

// Len returns the number of declared fields.
func (s *Schema) Len() int { return len(s.fields) }

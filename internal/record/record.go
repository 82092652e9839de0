// Package record implements the structured record transforms consume and
// produce: an immutable set of named, typed values bound to a schema, built
// through a Builder that enforces schema membership and type compatibility.
package record

import (
	"fmt"

	"reforge/internal/schema"
)

// Record is an immutable structured record. Values are keyed by field name
// and conform to the record's schema; an unset field reads as nil.
type Record struct {
	schema *schema.Schema
	values map[string]any
}

// Schema returns the schema the record was built against.
func (r *Record) Schema() *schema.Schema { return r.schema }

// Get returns the value of a named field, or nil when unset or undeclared.
func (r *Record) Get(name string) any { return r.values[name] }

// Builder assembles a Record against a target schema. Set rejects fields the
// schema does not declare and values whose Go type does not match the
// declared field type.
type Builder struct {
	schema *schema.Schema
	values map[string]any
}

func NewBuilder(s *schema.Schema) *Builder {
	return &Builder{schema: s, values: make(map[string]any, s.Len())}
}

func (b *Builder) Set(name string, v any) error {
	t, ok := b.schema.TypeOf(name)
	if !ok {
		return fmt.Errorf("record: field %q is not declared in schema %q", name, b.schema.Name())
	}
	if v == nil {
		b.values[name] = nil
		return nil
	}
	if !compatible(t, v) {
		return fmt.Errorf("record: field %q: value of type %T does not match declared type %s", name, v, t)
	}
	b.values[name] = v
	return nil
}

// Build finalizes the record. The builder must not be reused afterwards.
func (b *Builder) Build() *Record {
	return &Record{schema: b.schema, values: b.values}
}

func compatible(t schema.Type, v any) bool {
	switch t {
	case schema.String:
		_, ok := v.(string)
		return ok
	case schema.Bytes:
		_, ok := v.([]byte)
		return ok
	case schema.Int:
		_, ok := v.(int32)
		return ok
	case schema.Long:
		_, ok := v.(int64)
		return ok
	case schema.Float:
		_, ok := v.(float32)
		return ok
	case schema.Double:
		_, ok := v.(float64)
		return ok
	case schema.Boolean:
		_, ok := v.(bool)
		return ok
	case schema.Map:
		_, ok := v.(map[string]string)
		return ok
	}
	return false
}

// Package encoder re-encodes selected STRING/BYTES fields of a record as
// Base64, Base32 or Hex, passing every unconfigured field through unchanged.
package encoder

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"reforge/internal/record"
	"reforge/internal/schema"
	"reforge/internal/transform"
)

const Name = "encoder"

func init() { transform.Register(Name, func() transform.Transform { return &Encoder{} }) }

// Kind is an encoding action from the field mapping. The set is closed;
// unknown tokens are rejected when the mapping is parsed and never reach
// the per-record path.
type Kind int

const (
	None Kind = iota
	Base64
	StringBase64
	Base32
	StringBase32
	Hex
)

var kinds = map[string]Kind{
	"NONE":          None,
	"BASE64":        Base64,
	"STRING_BASE64": StringBase64,
	"BASE32":        Base32,
	"STRING_BASE32": StringBase32,
	"HEX":           Hex,
}

// Encoder maps field names to encoding kinds against a target schema.
// State is built in Initialize and read-only afterwards.
type Encoder struct {
	actions map[string]Kind
	out     *schema.Schema
}

func (e *Encoder) Configure(s transform.Settings) error {
	_, _, err := parseSettings(s)
	return err
}

func (e *Encoder) Initialize(s transform.Settings) error {
	actions, out, err := parseSettings(s)
	if err != nil {
		return err
	}
	e.actions, e.out = actions, out
	return nil
}

func parseSettings(s transform.Settings) (map[string]Kind, *schema.Schema, error) {
	raw, err := s.Require("encode")
	if err != nil {
		return nil, nil, fmt.Errorf("encoder: %w", err)
	}
	pairs, err := transform.ParseMapping(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("encoder: %w", err)
	}
	actions := make(map[string]Kind, len(pairs))
	for _, p := range pairs {
		k, ok := kinds[p.Action]
		if !ok {
			return nil, nil, fmt.Errorf("encoder: unknown encoding %q for field %q; allowed: NONE, BASE64, STRING_BASE64, BASE32, STRING_BASE32, HEX", p.Action, p.Field)
		}
		actions[p.Field] = k
	}
	rawSchema, err := s.Require("schema")
	if err != nil {
		return nil, nil, fmt.Errorf("encoder: %w", err)
	}
	out, err := schema.Parse(rawSchema)
	if err != nil {
		return nil, nil, fmt.Errorf("encoder: %w", err)
	}
	// Mapped fields must be a subset of the output schema.
	for _, p := range pairs {
		if _, ok := out.TypeOf(p.Field); !ok {
			return nil, nil, fmt.Errorf("encoder: mapped field %q is not declared in the output schema", p.Field)
		}
	}
	return actions, out, nil
}

// Transform walks the input record's fields in their declaration order.
// Every input field must exist in the target schema; unmapped fields and
// NONE mappings pass through unchanged.
func (e *Encoder) Transform(in *record.Record, emit transform.Emitter) error {
	b := record.NewBuilder(e.out)
	for _, f := range in.Schema().Fields() {
		outType, ok := e.out.TypeOf(f.Name)
		if !ok {
			return fmt.Errorf("encoder: input field %q is not declared in the output schema", f.Name)
		}

		kind, mapped := e.actions[f.Name]
		if !mapped || kind == None {
			if err := b.Set(f.Name, in.Get(f.Name)); err != nil {
				return fmt.Errorf("encoder: %w", err)
			}
			continue
		}

		src, err := rawBytes(f, in.Get(f.Name))
		if err != nil {
			return err
		}
		encoded := encode(kind, src)

		switch outType {
		case schema.Bytes:
			err = b.Set(f.Name, encoded)
		case schema.String:
			err = b.Set(f.Name, string(encoded))
		default:
			return fmt.Errorf("encoder: encoded field %q must be string or bytes in the output schema, not %s", f.Name, outType)
		}
		if err != nil {
			return fmt.Errorf("encoder: %w", err)
		}
	}
	return emit(b.Build())
}

func rawBytes(f schema.Field, v any) ([]byte, error) {
	switch f.Type {
	case schema.String:
		s, _ := v.(string)
		return []byte(s), nil
	case schema.Bytes:
		bs, _ := v.([]byte)
		return bs, nil
	default:
		return nil, fmt.Errorf("encoder: field %q has type %s; only string and bytes fields can be encoded", f.Name, f.Type)
	}
}

func encode(k Kind, src []byte) []byte {
	switch k {
	case Base64, StringBase64:
		return []byte(base64.StdEncoding.EncodeToString(src))
	case Base32, StringBase32:
		return []byte(base32.StdEncoding.EncodeToString(src))
	case Hex:
		return []byte(hex.EncodeToString(src))
	}
	return src
}

// Package formatter reshapes a record into a header/body envelope: selected
// fields become a string map of headers, the (optionally projected) record is
// serialized into a single body string in a configurable wire format.
package formatter

import (
	"fmt"
	"strings"

	"reforge/internal/record"
	"reforge/internal/schema"
	"reforge/internal/transform"
)

const Name = "stream-formatter"

func init() { transform.Register(Name, func() transform.Transform { return &Formatter{} }) }

var formats = map[string]string{
	"CSV":  ",",
	"TSV":  "\t",
	"PSV":  "|",
	"JSON": "", // serialized via ToJSONString
}

type Formatter struct {
	format      string
	headerNames []string
	bodyNames   []string // nil means: serialize the whole input record
	out         *schema.Schema
	headerField string
	bodyField   string
}

func (f *Formatter) Configure(s transform.Settings) error {
	_, err := parseSettings(s)
	return err
}

func (f *Formatter) Initialize(s transform.Settings) error {
	st, err := parseSettings(s)
	if err != nil {
		return err
	}
	*f = *st
	return nil
}

func parseSettings(s transform.Settings) (*Formatter, error) {
	f := &Formatter{format: strings.ToUpper(s.Get("format"))}
	if f.format == "" {
		f.format = "CSV"
	}
	if _, ok := formats[f.format]; !ok {
		return nil, fmt.Errorf("stream-formatter: invalid format %q; allowed: CSV, TSV, PSV, JSON", s.Get("format"))
	}

	header, err := s.Require("header")
	if err != nil {
		return nil, fmt.Errorf("stream-formatter: %w", err)
	}
	f.headerNames = strings.Split(header, ",")
	if body := s.Get("body"); body != "" {
		f.bodyNames = strings.Split(body, ",")
	}

	raw, err := s.Require("schema")
	if err != nil {
		return nil, fmt.Errorf("stream-formatter: %w", err)
	}
	f.out, err = schema.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("stream-formatter: %w", err)
	}
	if f.out.Len() != 2 {
		return nil, fmt.Errorf("stream-formatter: output schema needs exactly two fields (one map for headers, one string for the body), got %d", f.out.Len())
	}
	for _, fld := range f.out.Fields() {
		switch fld.Type {
		case schema.String:
			f.bodyField = fld.Name
		case schema.Map:
			f.headerField = fld.Name
		default:
			return nil, fmt.Errorf("stream-formatter: output field %q must be string or map, not %s", fld.Name, fld.Type)
		}
	}
	if f.headerField == "" || f.bodyField == "" {
		return nil, fmt.Errorf("stream-formatter: output schema needs one string field and one map field")
	}
	return f, nil
}

func (f *Formatter) Transform(in *record.Record, emit transform.Emitter) error {
	headers := make(map[string]string, len(f.headerNames))
	for _, name := range f.headerNames {
		if v := in.Get(name); v != nil {
			headers[name] = record.Text(v)
		}
	}

	bodyRec, err := f.project(in)
	if err != nil {
		return err
	}

	var body string
	if f.format == "JSON" {
		body, err = record.ToJSONString(bodyRec)
		if err != nil {
			return fmt.Errorf("stream-formatter: %w", err)
		}
	} else {
		body = record.ToDelimitedString(bodyRec, formats[f.format])
	}

	b := record.NewBuilder(f.out)
	if err := b.Set(f.headerField, headers); err != nil {
		return fmt.Errorf("stream-formatter: %w", err)
	}
	if err := b.Set(f.bodyField, body); err != nil {
		return fmt.Errorf("stream-formatter: %w", err)
	}
	return emit(b.Build())
}

// project narrows the input to the configured body fields, matched
// case-insensitively against the input schema; with no body configured the
// whole record is serialized.
func (f *Formatter) project(in *record.Record) (*record.Record, error) {
	if f.bodyNames == nil {
		return in, nil
	}
	var fields []schema.Field
	for _, fld := range in.Schema().Fields() {
		for _, want := range f.bodyNames {
			if strings.EqualFold(fld.Name, want) {
				fields = append(fields, fld)
				break
			}
		}
	}
	sub, err := schema.New("body", fields)
	if err != nil {
		return nil, fmt.Errorf("stream-formatter: no body fields match the input record: %w", err)
	}
	b := record.NewBuilder(sub)
	for _, fld := range fields {
		if err := b.Set(fld.Name, in.Get(fld.Name)); err != nil {
			return nil, fmt.Errorf("stream-formatter: %w", err)
		}
	}
	return b.Build(), nil
}

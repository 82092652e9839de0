package parsecsv

import (
	"testing"

	"reforge/internal/record"
	"reforge/internal/schema"
	"reforge/internal/transform"
)

const inputSchema = `{"type":"record","name":"input1","fields":[{"name":"body","type":"string"}]}`

const stringSchema = `{"type":"record","name":"output1","fields":[
	{"name":"a","type":"string"},
	{"name":"b","type":"string"},
	{"name":"c","type":"string"},
	{"name":"d","type":"string"},
	{"name":"e","type":"string"}]}`

const typedSchema = `{"type":"record","name":"output2","fields":[
	{"name":"a","type":"long"},
	{"name":"b","type":"string"},
	{"name":"c","type":"int"},
	{"name":"d","type":"double"},
	{"name":"e","type":"boolean"}]}`

func newParser(t *testing.T, outSchema string) *Parser {
	t.Helper()
	p := &Parser{}
	s := transform.Settings{"format": "DEFAULT", "field": "body", "schema": outSchema}
	if err := p.Configure(s); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := p.Initialize(s); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return p
}

func bodyRecord(t *testing.T, body string) *record.Record {
	t.Helper()
	in, err := schema.Parse(inputSchema)
	if err != nil {
		t.Fatalf("schema.Parse: %v", err)
	}
	b := record.NewBuilder(in)
	if err := b.Set("body", body); err != nil {
		t.Fatalf("Set body: %v", err)
	}
	return b.Build()
}

func run(t *testing.T, p *Parser, body string) ([]*record.Record, error) {
	t.Helper()
	var out []*record.Record
	err := p.Transform(bodyRecord(t, body), func(r *record.Record) error {
		out = append(out, r)
		return nil
	})
	return out, err
}

func assertFields(t *testing.T, r *record.Record, want map[string]any) {
	t.Helper()
	for name, v := range want {
		if got := r.Get(name); got != v {
			t.Fatalf("field %s: want %#v, got %#v", name, v, got)
		}
	}
}

func TestParse_MissingTrailingField(t *testing.T) {
	p := newParser(t, stringSchema)
	out, err := run(t, p, "1,2,3,4,")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("want 1 record, got %d", len(out))
	}
	assertFields(t, out[0], map[string]any{"a": "1", "b": "2", "c": "3", "d": "4", "e": ""})
}

func TestParse_QuotesAreLiteral(t *testing.T) {
	p := newParser(t, stringSchema)
	out, err := run(t, p, "1,2,3,'4',5")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	assertFields(t, out[0], map[string]any{"d": "'4'", "e": "5"})
}

func TestParse_WhitespacePreserved(t *testing.T) {
	p := newParser(t, stringSchema)
	out, err := run(t, p, "1,2, 3 ,'4',5")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	assertFields(t, out[0], map[string]any{"c": " 3 ", "d": "'4'"})
}

func TestParse_SkipsBlankLines(t *testing.T) {
	p := newParser(t, stringSchema)
	out, err := run(t, p, "1,2,3,4,5\n\n")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("want 1 record, got %d", len(out))
	}
	assertFields(t, out[0], map[string]any{"a": "1", "e": "5"})
}

func TestParse_EmptyBodyEmitsNothing(t *testing.T) {
	p := newParser(t, stringSchema)
	for _, body := range []string{"", "\n", "\n\n", "   \n\t\n"} {
		out, err := run(t, p, body)
		if err != nil {
			t.Fatalf("Transform(%q): %v", body, err)
		}
		if len(out) != 0 {
			t.Fatalf("body %q: want 0 records, got %d", body, len(out))
		}
	}
}

func TestParse_MultiLineBody(t *testing.T) {
	p := newParser(t, stringSchema)
	out, err := run(t, p, "1,2,3,4,5\n6,7,8,9,10")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 records, got %d", len(out))
	}
	assertFields(t, out[0], map[string]any{"a": "1", "e": "5"})
	assertFields(t, out[1], map[string]any{"a": "6", "e": "10"})
}

func TestParse_TypedCoercion(t *testing.T) {
	p := newParser(t, typedSchema)
	out, err := run(t, p, "10,stringA,3,4.32,true")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	assertFields(t, out[0], map[string]any{
		"a": int64(10), "b": "stringA", "c": int32(3), "d": 4.32, "e": true,
	})
}

func TestParse_EmptyNumericTokenIsFatal(t *testing.T) {
	cases := map[string]string{
		"long":   ",stringA,3,4.32,true",
		"int":    "10,stringA,,4.32,true",
		"double": "10,stringA,3,,true",
	}
	for name, body := range cases {
		p := newParser(t, typedSchema)
		out, err := run(t, p, body)
		if err == nil {
			t.Fatalf("%s: expected coercion error", name)
		}
		if len(out) != 0 {
			t.Fatalf("%s: no records may be emitted on error, got %d", name, len(out))
		}
	}
}

func TestParse_MalformedBooleanIsFatal(t *testing.T) {
	p := newParser(t, typedSchema)
	if _, err := run(t, p, "10,stringA,3,4.32,yes"); err == nil {
		t.Fatal("expected boolean coercion error")
	}
}

func TestParse_ExtraTokensDiscarded(t *testing.T) {
	p := newParser(t, stringSchema)
	out, err := run(t, p, "1,2,3,4,5,6,7")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	assertFields(t, out[0], map[string]any{"e": "5"})
}

func TestParse_DelimiterStyles(t *testing.T) {
	for style, body := range map[string]string{
		"TAB":       "1\t2\t3\t4\t5",
		"PIPE":      "1|2|3|4|5",
		"SEMICOLON": "1;2;3;4;5",
	} {
		p := &Parser{}
		s := transform.Settings{"format": style, "field": "body", "schema": stringSchema}
		if err := p.Initialize(s); err != nil {
			t.Fatalf("%s: Initialize: %v", style, err)
		}
		out, err := run(t, p, body)
		if err != nil {
			t.Fatalf("%s: Transform: %v", style, err)
		}
		assertFields(t, out[0], map[string]any{"a": "1", "e": "5"})
	}
}

func TestParse_ConfigErrors(t *testing.T) {
	cases := map[string]transform.Settings{
		"unknown style": {"format": "FIXED", "field": "body", "schema": stringSchema},
		"missing field": {"format": "DEFAULT", "schema": stringSchema},
		"bad schema":    {"format": "DEFAULT", "field": "body", "schema": "{"},
		"bytes target": {"format": "DEFAULT", "field": "body",
			"schema": `{"type":"record","name":"x","fields":[{"name":"a","type":"bytes"}]}`},
	}
	for name, s := range cases {
		if err := (&Parser{}).Configure(s); err == nil {
			t.Fatalf("%s: expected configuration error", name)
		}
	}
}

// Package parsecsv splits one text field of the input record into typed
// fields of a declared target schema, one output record per non-blank line.
//
// The dialect is deliberately simple: the delimiter is a single character,
// quotes are literal data, and whitespace inside tokens is preserved
// verbatim. This is not an RFC-4180 parser.
package parsecsv

import (
	"fmt"
	"strconv"
	"strings"

	"reforge/internal/record"
	"reforge/internal/schema"
	"reforge/internal/transform"
)

const Name = "parse-csv"

func init() { transform.Register(Name, func() transform.Transform { return &Parser{} }) }

var delimiters = map[string]string{
	"DEFAULT":   ",",
	"COMMA":     ",",
	"TAB":       "\t",
	"PIPE":      "|",
	"SEMICOLON": ";",
}

// Parser is the delimited-text field parser. All fields are set during
// Initialize and read-only afterwards.
type Parser struct {
	delim string
	field string
	out   *schema.Schema
}

func (p *Parser) Configure(s transform.Settings) error {
	_, _, _, err := parseSettings(s)
	return err
}

func (p *Parser) Initialize(s transform.Settings) error {
	delim, field, out, err := parseSettings(s)
	if err != nil {
		return err
	}
	p.delim, p.field, p.out = delim, field, out
	return nil
}

func parseSettings(s transform.Settings) (delim, field string, out *schema.Schema, err error) {
	style := s.Get("format")
	if style == "" {
		style = "DEFAULT"
	}
	delim, ok := delimiters[strings.ToUpper(style)]
	if !ok {
		return "", "", nil, fmt.Errorf("parse-csv: unknown delimiter style %q; allowed: DEFAULT, COMMA, TAB, PIPE, SEMICOLON", style)
	}
	field, err = s.Require("field")
	if err != nil {
		return "", "", nil, fmt.Errorf("parse-csv: %w", err)
	}
	raw, err := s.Require("schema")
	if err != nil {
		return "", "", nil, fmt.Errorf("parse-csv: %w", err)
	}
	out, err = schema.Parse(raw)
	if err != nil {
		return "", "", nil, fmt.Errorf("parse-csv: %w", err)
	}
	for _, f := range out.Fields() {
		switch f.Type {
		case schema.String, schema.Int, schema.Long, schema.Float, schema.Double, schema.Boolean:
		default:
			return "", "", nil, fmt.Errorf("parse-csv: field %q: type %s cannot be parsed from delimited text", f.Name, f.Type)
		}
	}
	return delim, field, out, nil
}

func (p *Parser) Transform(in *record.Record, emit transform.Emitter) error {
	v := in.Get(p.field)
	body, ok := v.(string)
	if !ok {
		return fmt.Errorf("parse-csv: source field %q is not a string (got %T)", p.field, v)
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSuffix(line, "\r")
		// Lines empty after trim never become records; the raw line is
		// split so interior whitespace survives.
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := p.parseLine(line)
		if err != nil {
			return err
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseLine(line string) (*record.Record, error) {
	tokens := strings.Split(line, p.delim)
	b := record.NewBuilder(p.out)
	for i, f := range p.out.Fields() {
		// Missing trailing tokens read as the empty string; tokens beyond
		// the schema's field count are discarded.
		tok := ""
		if i < len(tokens) {
			tok = tokens[i]
		}
		v, err := coerce(tok, f.Type)
		if err != nil {
			return nil, fmt.Errorf("parse-csv: field %q: %w", f.Name, err)
		}
		if err := b.Set(f.Name, v); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func coerce(tok string, t schema.Type) (any, error) {
	switch t {
	case schema.String:
		return tok, nil
	case schema.Int:
		n, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as int", tok)
		}
		return int32(n), nil
	case schema.Long:
		n, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as long", tok)
		}
		return n, nil
	case schema.Float:
		n, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as float", tok)
		}
		return float32(n), nil
	case schema.Double:
		n, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as double", tok)
		}
		return n, nil
	case schema.Boolean:
		if strings.EqualFold(tok, "true") {
			return true, nil
		}
		if strings.EqualFold(tok, "false") {
			return false, nil
		}
		return nil, fmt.Errorf("cannot parse %q as boolean", tok)
	}
	return nil, fmt.Errorf("unsupported type %s", t)
}

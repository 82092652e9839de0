package sink

import (
	"fmt"
	"strings"

	"reforge/internal/record"
)

// Adapter is the common behaviour every sink exposes. Push receives output
// records in emission order, FIFO toward the next stage.
type Adapter interface {
	Configure(any) error // driver-specific YAML ⇒ struct
	Push(*record.Record) error
	Close() error // idempotent
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q", name)
}

/*──────── serialization ───────*/

var formats = map[string]string{
	"json": "",
	"csv":  ",",
	"tsv":  "\t",
	"psv":  "|",
}

// Serialize renders a record in one of the supported wire formats
// (json, csv, tsv, psv). Field order follows the record's schema.
func Serialize(r *record.Record, format string) (string, error) {
	f := strings.ToLower(format)
	delim, ok := formats[f]
	if !ok {
		return "", fmt.Errorf("sink: unsupported format %q; allowed: json, csv, tsv, psv", format)
	}
	if f == "json" {
		return record.ToJSONString(r)
	}
	return record.ToDelimitedString(r, delim), nil
}

// ValidFormat reports whether Serialize accepts the format token, so
// compilers can reject bad sink config before records flow.
func ValidFormat(format string) bool {
	_, ok := formats[strings.ToLower(format)]
	return ok
}

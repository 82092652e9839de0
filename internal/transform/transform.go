package transform

import (
	"fmt"

	"reforge/internal/record"
)

// Settings carries a transform's textual configuration (the values of the
// pipeline spec's settings block).
type Settings map[string]string

// Get returns a setting value; missing keys read as the empty string.
func (s Settings) Get(key string) string { return s[key] }

// Require returns a setting value or an error naming the missing key.
func (s Settings) Require(key string) (string, error) {
	v, ok := s[key]
	if !ok || v == "" {
		return "", fmt.Errorf("missing required setting %q", key)
	}
	return v, nil
}

// Emitter receives the output records of one transform invocation, in
// emission order.
type Emitter func(*record.Record) error

// Transform is the per-record plugin contract.
//
// Configure runs at pipeline-build time and must reject invalid settings
// before any record flows. Initialize runs before processing starts and
// builds the transform's read-only state (parsed schema, mapping tables);
// it re-validates independently so a transform is safe to initialize from
// a stored configuration. Transform is invoked once per input record and
// emits zero or more output records; the first error aborts the invocation
// and is propagated to the caller unretried.
//
// After Initialize returns, implementations must not mutate their state:
// the host may invoke Transform concurrently across partitions.
type Transform interface {
	Configure(s Settings) error
	Initialize(s Settings) error
	Transform(in *record.Record, emit Emitter) error
}

/*──────── registry ───────*/

// Factory builds a fresh, unconfigured transform instance.
type Factory func() Transform

var registry = map[string]Factory{}

// Register is called from each plugin package's init().
func Register(name string, f Factory) { registry[name] = f }

// New returns a plugin instance by registry name.
func New(name string) (Transform, error) {
	if f, ok := registry[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("transform: unknown plugin %q", name)
}

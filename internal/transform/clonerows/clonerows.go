// Package clonerows emits a configurable number of copies of every input
// record, each built against the input's own schema.
package clonerows

import (
	"fmt"
	"strconv"

	"reforge/internal/record"
	"reforge/internal/transform"
)

const Name = "clone-rows"

func init() { transform.Register(Name, func() transform.Transform { return &Cloner{} }) }

type Cloner struct {
	copies int
}

func (c *Cloner) Configure(s transform.Settings) error {
	_, err := parseCopies(s)
	return err
}

func (c *Cloner) Initialize(s transform.Settings) error {
	n, err := parseCopies(s)
	if err != nil {
		return err
	}
	c.copies = n
	return nil
}

func parseCopies(s transform.Settings) (int, error) {
	raw, err := s.Require("copies")
	if err != nil {
		return 0, fmt.Errorf("clone-rows: %w", err)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("clone-rows: copies %q is not an integer", raw)
	}
	if n < 1 {
		return 0, fmt.Errorf("clone-rows: copies must be at least 1, got %d", n)
	}
	return n, nil
}

func (c *Cloner) Transform(in *record.Record, emit transform.Emitter) error {
	for i := 0; i < c.copies; i++ {
		b := record.NewBuilder(in.Schema())
		for _, f := range in.Schema().Fields() {
			if err := b.Set(f.Name, in.Get(f.Name)); err != nil {
				return fmt.Errorf("clone-rows: %w", err)
			}
		}
		if err := emit(b.Build()); err != nil {
			return err
		}
	}
	return nil
}

package stdout

import (
	"fmt"
	"sync/atomic"

	"reforge/internal/record"
	"reforge/sink"
)

/* ────────── public YAML config ────────── */
type Config struct {
	Format       string `yaml:"format"`        // json|csv|tsv|psv (default json)
	PrintCounter bool   `yaml:"print_counter"` // prepend seq#
	MaxBytes     int    `yaml:"max_bytes"`     // truncate printed value (0 = off)
}

/* ────────── driver ────────── */
type driver struct {
	cfg Config
}

var seq uint64

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	if c.Format == "" {
		c.Format = "json"
	}
	if !sink.ValidFormat(c.Format) {
		return fmt.Errorf("stdout-sink: unsupported format %q", c.Format)
	}
	d.cfg = c
	return nil
}

func (d *driver) Push(r *record.Record) error {
	line, err := sink.Serialize(r, d.cfg.Format)
	if err != nil {
		return err
	}
	if d.cfg.MaxBytes > 0 && len(line) > d.cfg.MaxBytes {
		line = line[:d.cfg.MaxBytes] + "…"
	}
	if d.cfg.PrintCounter {
		fmt.Printf("[sink %06d] %s\n", atomic.AddUint64(&seq, 1), line)
	} else {
		fmt.Printf("[sink] %s\n", line)
	}
	return nil
}

func (d *driver) Close() error { return nil }

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Adapter { return &driver{} })
}

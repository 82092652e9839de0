package pipeline

import (
	"context"
	"errors"
	"fmt"

	"reforge/internal/frame"
	"reforge/internal/record"
	"reforge/internal/schema"
	"reforge/internal/telemetry"
	"reforge/internal/transform"
	"reforge/sink"
	"reforge/source/kafka"
)

type stage struct {
	name string
	t    transform.Transform
}

// Runner drives frames from the source through the transform chain into the
// sinks. Each frame is processed synchronously; the first error aborts that
// frame's invocation and is reported to the source.
type Runner struct {
	source   kafka.Adapter
	stages   []stage
	sinks    []sink.Adapter
	inSchema *schema.Schema
	srcField string
}

func NewRunner() *Runner { return &Runner{} }

func (r *Runner) SetSource(s kafka.Adapter) { r.source = s }
func (r *Runner) AddSink(s sink.Adapter)    { r.sinks = append(r.sinks, s) }

func (r *Runner) AddStage(name string, t transform.Transform) {
	r.stages = append(r.stages, stage{name: name, t: t})
}

// SetInput declares the schema incoming frames are lifted into and the
// STRING field that receives the raw payload.
func (r *Runner) SetInput(s *schema.Schema, field string) error {
	t, ok := s.TypeOf(field)
	if !ok {
		return fmt.Errorf("runner: input schema %q has no field %q", s.Name(), field)
	}
	if t != schema.String {
		return fmt.Errorf("runner: input field %q must be string, got %s", field, t)
	}
	r.inSchema, r.srcField = s, field
	return nil
}

/*──────── frame routing ───────*/

func (r *Runner) pushFrame(f *frame.Frame) error {
	telemetry.FramesConsumed.Inc()

	b := record.NewBuilder(r.inSchema)
	if err := b.Set(r.srcField, string(f.Value)); err != nil {
		return err
	}
	recs := []*record.Record{b.Build()}

	for _, st := range r.stages {
		next := make([]*record.Record, 0, len(recs))
		for _, rec := range recs {
			err := st.t.Transform(rec, func(out *record.Record) error {
				next = append(next, out)
				return nil
			})
			if err != nil {
				telemetry.TransformFailures.WithLabelValues(st.name).Inc()
				return fmt.Errorf("transform %s: %s[%d]@%d: %w",
					st.name, f.Source.Topic, f.Source.Partition, f.Source.Offset, err)
			}
		}
		telemetry.RecordsEmitted.WithLabelValues(st.name).Add(float64(len(next)))
		recs = next
		if len(recs) == 0 {
			return nil
		}
	}

	for _, rec := range recs {
		for _, s := range r.sinks {
			if err := s.Push(rec); err != nil {
				return err
			}
			telemetry.SinkPushes.Inc()
		}
	}
	return nil
}

func (r *Runner) Start(ctx context.Context) error {
	if r.source == nil {
		return errors.New("runner: no source configured")
	}
	if r.inSchema == nil {
		return errors.New("runner: no input schema configured")
	}
	go func() { _ = r.source.Run(ctx, r.pushFrame) }()
	return nil
}

func (r *Runner) Close() error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.source != nil {
		if err := r.source.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

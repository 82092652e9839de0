package pipeline

import (
	"errors"
	"testing"

	"reforge/internal/frame"
	"reforge/internal/record"
	"reforge/internal/schema"
	"reforge/internal/transform"
)

type fakeTransform struct {
	mode  string
	calls int
}

func (f *fakeTransform) Configure(transform.Settings) error  { return nil }
func (f *fakeTransform) Initialize(transform.Settings) error { return nil }

func (f *fakeTransform) Transform(in *record.Record, emit transform.Emitter) error {
	f.calls++
	switch f.mode {
	case "drop":
		return nil
	case "error":
		return errors.New("boom")
	case "fanout2":
		if err := emit(in); err != nil {
			return err
		}
		return emit(in)
	default:
		return emit(in)
	}
}

type captureSink struct {
	pushed []*record.Record
}

func (c *captureSink) Configure(any) error { return nil }
func (c *captureSink) Push(r *record.Record) error {
	c.pushed = append(c.pushed, r)
	return nil
}
func (c *captureSink) Close() error { return nil }

func inputSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(`{"type":"record","name":"input","fields":[{"name":"body","type":"string"}]}`)
	if err != nil {
		t.Fatalf("schema.Parse: %v", err)
	}
	return s
}

func makeRunner(t *testing.T, stages ...*fakeTransform) (*Runner, *captureSink) {
	t.Helper()
	r := NewRunner()
	if err := r.SetInput(inputSchema(t), "body"); err != nil {
		t.Fatalf("SetInput: %v", err)
	}
	for i, st := range stages {
		r.AddStage(string(rune('a'+i)), st)
	}
	cs := &captureSink{}
	r.AddSink(cs)
	return r, cs
}

func makeFrame(value string) *frame.Frame {
	return &frame.Frame{
		Value:  []byte(value),
		Source: frame.Offset{Topic: "t", Partition: 1, Offset: 42},
	}
}

func TestRunner_ForwardsToSink(t *testing.T) {
	r, cs := makeRunner(t, &fakeTransform{mode: "ok"})
	if err := r.pushFrame(makeFrame("hello")); err != nil {
		t.Fatalf("pushFrame: %v", err)
	}
	if len(cs.pushed) != 1 {
		t.Fatalf("expected 1 pushed record, got %d", len(cs.pushed))
	}
	if cs.pushed[0].Get("body") != "hello" {
		t.Fatalf("unexpected body: %q", cs.pushed[0].Get("body"))
	}
}

func TestRunner_DropEmitsNothing(t *testing.T) {
	r, cs := makeRunner(t, &fakeTransform{mode: "drop"})
	if err := r.pushFrame(makeFrame("hello")); err != nil {
		t.Fatalf("pushFrame: %v", err)
	}
	if len(cs.pushed) != 0 {
		t.Fatalf("expected 0 pushed records, got %d", len(cs.pushed))
	}
}

func TestRunner_ErrorAbortsInvocation(t *testing.T) {
	r, cs := makeRunner(t, &fakeTransform{mode: "error"})
	if err := r.pushFrame(makeFrame("hello")); err == nil {
		t.Fatal("expected error from failing transform")
	}
	if len(cs.pushed) != 0 {
		t.Fatalf("no records may reach the sink on error, got %d", len(cs.pushed))
	}
}

func TestRunner_MultiStageFanout(t *testing.T) {
	s1 := &fakeTransform{mode: "fanout2"}
	s2 := &fakeTransform{mode: "ok"}
	r, cs := makeRunner(t, s1, s2)
	if err := r.pushFrame(makeFrame("hello")); err != nil {
		t.Fatalf("pushFrame: %v", err)
	}
	if len(cs.pushed) != 2 {
		t.Fatalf("expected 2 pushed records after fanout, got %d", len(cs.pushed))
	}
	if s2.calls != 2 {
		t.Fatalf("second stage should run per fanned-out record, ran %d times", s2.calls)
	}
}

func TestRunner_StartRequiresSourceAndSchema(t *testing.T) {
	r := NewRunner()
	if err := r.Start(t.Context()); err == nil {
		t.Fatal("expected error without source")
	}
}

package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"reforge/source/kafka"
)

type fakeSource struct{ cfg kafka.Config }

func (f *fakeSource) Configure(c kafka.Config) error            { f.cfg = c; return nil }
func (f *fakeSource) Run(context.Context, kafka.EmitFunc) error { return nil }
func (f *fakeSource) Close() error                              { return nil }

func writePipeline(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write pipeline: %v", err)
	}
	return path
}

const goodPipeline = `schema_version: v1
source:
  kind: kafka
  driver: fake
  field: body
  schema: '{"type":"record","name":"input","fields":[{"name":"body","type":"string"}]}'
transforms:
  - name: parse
    plugin: parse-csv
    settings:
      format: DEFAULT
      field: body
      schema: '{"type":"record","name":"out","fields":[{"name":"a","type":"string"},{"name":"b","type":"string"}]}'
sinks: [stdout]
sink_configs:
  stdout:
    format: json
`

func TestCompile_BuildsRunnerAndRunsRecords(t *testing.T) {
	kafka.Register("fake", func() kafka.Adapter { return &fakeSource{} })

	r, err := Compile(writePipeline(t, goodPipeline))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	cs := &captureSink{}
	r.AddSink(cs)
	if err := r.pushFrame(makeFrame("1,2")); err != nil {
		t.Fatalf("pushFrame: %v", err)
	}
	if len(cs.pushed) != 1 {
		t.Fatalf("want 1 record, got %d", len(cs.pushed))
	}
	if cs.pushed[0].Get("a") != "1" || cs.pushed[0].Get("b") != "2" {
		t.Fatalf("unexpected record: %v %v", cs.pushed[0].Get("a"), cs.pushed[0].Get("b"))
	}
}

func TestCompile_RejectsBadTransformConfig(t *testing.T) {
	kafka.Register("fake", func() kafka.Adapter { return &fakeSource{} })

	bad := `schema_version: v1
source:
  kind: kafka
  driver: fake
  field: body
  schema: '{"type":"record","name":"input","fields":[{"name":"body","type":"string"}]}'
transforms:
  - name: enc
    plugin: encoder
    settings:
      encode: "a:rot13"
      schema: '{"type":"record","name":"out","fields":[{"name":"a","type":"string"}]}'
sinks: [stdout]
`
	if _, err := Compile(writePipeline(t, bad)); err == nil {
		t.Fatal("expected build failure for unknown encoding kind")
	}
}

func TestCompile_RejectsUnknownPlugin(t *testing.T) {
	kafka.Register("fake", func() kafka.Adapter { return &fakeSource{} })

	bad := `schema_version: v1
source:
  kind: kafka
  driver: fake
  field: body
  schema: '{"type":"record","name":"input","fields":[{"name":"body","type":"string"}]}'
transforms:
  - name: huh
    plugin: not-a-plugin
sinks: [stdout]
`
	if _, err := Compile(writePipeline(t, bad)); err == nil {
		t.Fatal("expected build failure for unknown plugin")
	}
}

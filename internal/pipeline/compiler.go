package pipeline

import (
	"fmt"

	"reforge/internal/config"
	"reforge/internal/schema"
	"reforge/internal/transform"
	"reforge/sink"
	kafkasink "reforge/sink/kafka"
	"reforge/sink/stdout"
	"reforge/source/kafka"

	// Built-in transform plugins register themselves.
	_ "reforge/internal/transform/clonerows"
	_ "reforge/internal/transform/encoder"
	_ "reforge/internal/transform/formatter"
	_ "reforge/internal/transform/parsecsv"
)

func Compile(path string) (*Runner, error) {
	r := NewRunner()
	if err := LoadYAML(path, r); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadYAML builds a runner from a pipeline spec. Every transform is
// Configure'd and Initialize'd here, so a malformed stage fails the build
// before any record flows.
func LoadYAML(path string, r *Runner) error {
	cfg, confPath, err := config.LoadPipelineSpec(path)
	if err != nil {
		return err
	}

	if cfg.Source.Kind != "kafka" {
		return fmt.Errorf("unsupported source %q", cfg.Source.Kind)
	}
	kc, err := config.LoadKafkaConfig(confPath)
	if err != nil {
		return err
	}

	src, err := kafka.NewAdapter(cfg.Source.Driver)
	if err != nil {
		return err
	}
	if err = src.Configure(kc); err != nil {
		return err
	}
	r.SetSource(src)

	if cfg.Source.Schema == "" {
		return fmt.Errorf("source: missing input schema")
	}
	in, err := schema.Parse(cfg.Source.Schema)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	field := cfg.Source.Field
	if field == "" {
		field = "body"
	}
	if err := r.SetInput(in, field); err != nil {
		return err
	}

	for _, ts := range cfg.Transforms {
		t, err := transform.New(ts.Plugin)
		if err != nil {
			return err
		}
		name := ts.Name
		if name == "" {
			name = ts.Plugin
		}
		settings := transform.Settings(ts.Settings)
		if err := t.Configure(settings); err != nil {
			return fmt.Errorf("transform %s: %w", name, err)
		}
		if err := t.Initialize(settings); err != nil {
			return fmt.Errorf("transform %s: %w", name, err)
		}
		r.AddStage(name, t)
	}

	for _, name := range cfg.Sinks {
		sDrv, err := sink.NewAdapter(name)
		if err != nil {
			return err
		}

		switch name {
		case "stdout":
			sc := cfg.SinkConfigs.Stdout
			err = sDrv.Configure(stdout.Config{
				Format:       sc.Format,
				PrintCounter: sc.PrintCounter,
				MaxBytes:     sc.MaxBytes,
			})
		case "kafka":
			sc := cfg.SinkConfigs.Kafka
			err = sDrv.Configure(kafkasink.Config{
				Brokers: sc.Brokers,
				Topic:   sc.Topic,
				Acks:    sc.Acks,
				Format:  sc.Format,
			})
		default:
			err = fmt.Errorf("no config block for sink %q", name)
		}
		if err != nil {
			return err
		}
		r.AddSink(sDrv)
	}
	return nil
}

package spec

// TransformSpec declares one stage of the transform chain. Plugin is the
// registry name; Settings is the plugin's textual configuration, validated
// at pipeline-build time.
type TransformSpec struct {
	Name     string            `yaml:"name"`
	Plugin   string            `yaml:"plugin"`
	Settings map[string]string `yaml:"settings"`
}

type StdoutSinkSpec struct {
	Format       string `yaml:"format"`
	PrintCounter bool   `yaml:"print_counter"`
	MaxBytes     int    `yaml:"max_bytes"`
}

type KafkaSinkSpec struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	Acks    int16    `yaml:"required_acks"`
	Format  string   `yaml:"format"`
}

type sinkConfigs struct {
	Kafka  KafkaSinkSpec  `yaml:"kafka"`
	Stdout StdoutSinkSpec `yaml:"stdout"`
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	Source struct {
		Kind   string `yaml:"kind"`
		Driver string `yaml:"driver"`
		Config string `yaml:"config"`
		// Schema is the JSON input schema; Field names the STRING field
		// the raw source payload is placed into.
		Schema string `yaml:"schema"`
		Field  string `yaml:"field"`
	} `yaml:"source"`

	// Ordered list of transform plugins applied between source and sinks.
	Transforms []TransformSpec `yaml:"transforms"`

	Sinks       []string    `yaml:"sinks"`
	SinkConfigs sinkConfigs `yaml:"sink_configs"`
}

// Package frame defines the raw unit of data a source hands to the pipeline
// before it is lifted into a structured record.
package frame

import "time"

// Offset identifies where a frame came from, for logging and commit.
type Offset struct {
	Topic     string
	Partition int32
	Offset    int64
}

// Frame is one raw message read from a source.
type Frame struct {
	Key     []byte
	Value   []byte
	Headers map[string][]byte
	Ts      time.Time
	Source  Offset
}

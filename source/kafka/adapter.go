package kafka

import (
	"context"

	"reforge/internal/frame"
)

// EmitFunc delivers one frame to the pipeline. The call is synchronous: when
// it returns nil the frame has been fully processed downstream, so drivers
// may commit its offset in order.
type EmitFunc func(*frame.Frame) error

type Adapter interface {
	Configure(Config) error
	Run(context.Context, EmitFunc) error
	Close() error
}

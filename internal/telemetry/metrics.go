package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reforge_frames_consumed_total",
		Help: "Frames read from the source and handed to the pipeline.",
	})
	RecordsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reforge_records_emitted_total",
		Help: "Records emitted per transform stage.",
	}, []string{"transform"})
	TransformFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reforge_transform_failures_total",
		Help: "Transform invocations that ended in an error.",
	}, []string{"transform"})
	SinkPushes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reforge_sink_pushes_total",
		Help: "Records delivered to sinks.",
	})
)

func Expose(port int) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()
}

package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"reforge/internal/engine"
	"reforge/internal/logging"
	"reforge/source/kafka"
)

func main() {
	grpcPort := flag.Int("grpc-port", 7070, "health/control listen port")
	metricsPort := flag.Int("metrics-port", 9100, "prometheus listen port")
	pipelineYml := flag.String("pipeline", "pipeline.yml", "pipeline spec path")
	flag.Parse()

	logging.InitFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	kafka.Register("sarama", func() kafka.Adapter { return &kafka.SaramaDriver{} })

	e, err := engine.Bootstrap(ctx, engine.Config{
		GRPCPort:    *grpcPort,
		MetricsPort: *metricsPort,
		PipelineYml: *pipelineYml,
	})
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	if err := e.Run(ctx); err != nil {
		log.Fatalf("engine: %v", err)
	}
}

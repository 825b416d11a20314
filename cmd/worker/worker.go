package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"CommunitySpaces/config"
	"CommunitySpaces/internal/queue"
	"CommunitySpaces/pkg/logger"
	"CommunitySpaces/pkg/metrics"
	pkgotel "CommunitySpaces/pkg/otel"
	"CommunitySpaces/storage"
)

func main() {
	logger.Init()
	defer logger.Sync()
	log := logger.Named("worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if config.Cfg.TracingEnabled {
		shutdown, err := pkgotel.InitOpenTelemetry(ctx, pkgotel.Config{
			ServiceName:  config.Cfg.ServiceName + "-worker",
			Environment:  config.Cfg.Environment,
			OTLPEndpoint: config.Cfg.OTLPEndpoint,
		})
		if err != nil {
			log.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
			}
		}()
	}

	if err := metrics.InitMetrics(otel.Meter(config.Cfg.ServiceName + "-worker")); err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	if err := storage.Init(); err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := storage.Close(closeCtx); err != nil {
			log.Error("Failed to close storage", zap.Error(err))
		}
	}()

	log.Info("Worker service starting",
		zap.String("service", config.Cfg.ServiceName+"-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	// 任一消费者异常退出时取消其余消费者
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return queue.StartProfileOnboardedConsumer(gctx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Error("Worker stopped with error", zap.Error(err))
	}

	log.Info("Worker service shutting down gracefully")
}

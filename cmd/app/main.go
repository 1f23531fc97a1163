package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/abakirov/lakeview/internal/cache"
	"github.com/abakirov/lakeview/internal/config"
	"github.com/abakirov/lakeview/internal/filestore"
	"github.com/abakirov/lakeview/internal/httpapi"
	"github.com/abakirov/lakeview/internal/ingest"
	"github.com/abakirov/lakeview/internal/kafka"
	"github.com/abakirov/lakeview/internal/manager"
	"github.com/abakirov/lakeview/internal/observability"
	"github.com/abakirov/lakeview/internal/pkg/breaker"
	"github.com/abakirov/lakeview/internal/tabular"
	"github.com/abakirov/lakeview/internal/warehouse"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metrics := observability.NewInmem(1000)
	tables := tabular.Registry(cfg.Tables.OrdersLocation, cfg.Tables.InvoicesLocation)

	local := filestore.New(cfg.Tables.DataDir, logger.Named("filestore"))

	var remote tabular.Backend
	if cfg.Warehouse.HasCredentials() {
		gw := warehouse.New(cfg.Warehouse.DSN(), cfg.Warehouse.Schema, tables, logger.Named("warehouse"))
		defer gw.Close()
		remote = gw
	} else {
		logger.Info("no warehouse credentials configured, starting in local mode")
	}

	mgr := manager.New(remote, local, tables, logger.Named("manager"), metrics)

	for name := range tables {
		if err := mgr.CreateTable(ctx, name); err != nil {
			logger.Warn("table setup failed", zap.String("table", name), zap.Error(err))
		}
	}

	orderCache, err := cache.New(cfg.CacheCap)
	if err != nil {
		logger.Fatal("cache init failed", zap.Error(err))
	}
	orderCache.Warm(ctx, mgr)

	if len(cfg.Kafka.Brokers) > 0 {
		if err := kafka.EnsureTopic(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, 3, 1, logger.Named("kafka")); err != nil {
			logger.Warn("topic setup failed", zap.Error(err))
		}

		reader := kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.Group,
			Topic:          cfg.Kafka.Topic,
			MinBytes:       1,
			MaxBytes:       10e6,
			CommitInterval: 0, // explicit commits only
		})
		defer func() { _ = reader.Close() }()

		handler := ingest.NewHandler(
			mgr,
			breaker.New(cfg.Breaker),
			cfg.Retry,
			logger.Named("ingest"),
			metrics,
		)
		consumer := kafka.NewConsumer(handler, reader, cfg.Kafka.Workers, logger.Named("consumer"))
		go consumer.Start(ctx)
	} else {
		logger.Info("no kafka brokers configured, ingest disabled")
	}

	server := httpapi.New(mgr, orderCache, logger.Named("http"), metrics)

	logger.Info("server starting",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("mode", mgr.Mode().String()),
	)
	if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", zap.Error(err))
		shutdownExit(logger, 1)
	}

	// give in-flight consumer work a moment to settle
	time.Sleep(200 * time.Millisecond)
	logger.Info("server stopped")
}

func shutdownExit(logger *zap.Logger, code int) {
	_ = logger.Sync()
	os.Exit(code)
}

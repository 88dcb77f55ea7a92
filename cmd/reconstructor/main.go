package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	app "github.com/adarshXpal/orderbook-reconstructor/internal/app/engine"
	snapshotpublisherv1 "github.com/adarshXpal/orderbook-reconstructor/internal/domain/snapshot-publisher/v1"
	marketreader "github.com/adarshXpal/orderbook-reconstructor/internal/usecase/market-reader"
	"github.com/adarshXpal/orderbook-reconstructor/internal/usecase/orderbook"
	snapshotpublisher "github.com/adarshXpal/orderbook-reconstructor/internal/usecase/snapshot-publisher"
	snapshotwriter "github.com/adarshXpal/orderbook-reconstructor/internal/usecase/snapshot-writer"
	"github.com/adarshXpal/orderbook-reconstructor/pkg/config"
	"github.com/adarshXpal/orderbook-reconstructor/pkg/logger"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	config.MustLoad(cfg)

	l, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.LogLevel)))
	if err != nil {
		panic(err)
	}

	log = l
}

func main() {
	defer log.Sync()

	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <mbo_input_file>\n", os.Args[0])
		os.Exit(2)
	}
	inputPath := os.Args[1]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader, err := marketreader.NewReader(inputPath, log)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "open_input",
		})
		os.Exit(1)
	}
	defer reader.Close()

	writer, err := snapshotwriter.NewWriter(cfg.OutputPath, log)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "create_output",
		})
		os.Exit(1)
	}

	var publisher snapshotpublisherv1.Publisher
	if cfg.PublisherConfig.Enabled {
		kafkaPublisher := snapshotpublisher.NewPublisher(cfg.PublisherConfig, log)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	engine := app.NewEngine(orderbook.NewBook(), reader, writer, publisher, log)

	if err := engine.Run(ctx); err != nil {
		writer.Close()
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "run_engine",
		})
		os.Exit(1)
	}

	// A close failure means rows may not have reached disk; the run must not
	// claim success.
	if err := writer.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_output",
		})
		os.Exit(1)
	}

	log.Info("orderbook reconstruction completed", logger.Field{
		Key:   "output",
		Value: cfg.OutputPath,
	})
}

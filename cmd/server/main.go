package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"price-streamer/src/config"
	"price-streamer/src/interfaces"
	"price-streamer/src/ledger"
	"price-streamer/src/logger"
	"price-streamer/src/market"
	"price-streamer/src/notify"
	"price-streamer/src/server"
	"price-streamer/src/storage"
)

// -----------------------------------------------------------------------------

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(conf.LogLevel, conf.Name)

	// Setup storage
	var store interfaces.ILedger

	switch conf.Storage.DBType {
	case "postgres":
		store, err = storage.NewPostgresLedger(conf.MConfig, appLogger)
	default:
		store, err = storage.NewSQLiteLedger(conf.MConfig, appLogger)
	}
	if err != nil {
		appLogger.Critical("Failed to init ledger storage: %v", err)
	}
	if err := store.Initialize(); err != nil {
		appLogger.Critical("Failed to migrate ledger storage: %v", err)
	}
	defer store.Close()

	// Shutdown context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Background notification dispatcher
	dispatcher := notify.NewDispatcher(conf.MConfig, appLogger)
	dispatcher.Start(ctx)

	// Broadcast server with the trade ledger API mounted on the same engine
	model := market.NewPriceModel(conf.MConfig)
	srv := server.NewBroadcastServer(conf.MConfig, appLogger, model)

	api := ledger.NewTradeAPI(appLogger, store, dispatcher)
	api.RegisterRoutes(srv.Engine())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	appLogger.Info("Streaming %d tickers on ws://%s:%d/ws", len(conf.Stream.Tickers), conf.Host, conf.Port)

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	case <-ctx.Done():
		appLogger.Info("Shutting down...")
	}

	if err := srv.Stop(); err != nil {
		appLogger.Error("Shutdown error: %v", err)
	}
	dispatcher.Wait()
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"price-streamer/src/client"
	"price-streamer/src/config"
	"price-streamer/src/detector"
	"price-streamer/src/logger"
	"price-streamer/src/models"
)

// -----------------------------------------------------------------------------

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	serverURL := flag.String("url", "", "override server websocket URL")
	flag.Parse()

	// Load config from YAML file
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(conf.LogLevel, conf.Name+"-client")

	url := *serverURL
	if url == "" {
		url = fmt.Sprintf("ws://%s:%d/ws", conf.Host, conf.Port)
	}

	// Detector over the configured trailing window
	window := time.Duration(conf.Detector.WindowSeconds) * time.Second
	det := detector.NewWindowDetector(window, conf.Detector.ThresholdPercent, appLogger)

	streamClient := client.NewStreamClient(appLogger, det)
	streamClient.OnUpdate = func(u models.MPriceUpdate) {
		fmt.Printf("  Ticker: %s, Price: %.2f, Timestamp: %s\n",
			u.Ticker, u.Price, u.Timestamp.Format("2006-01-02 15:04:05"))
	}

	if err := streamClient.Connect(url); err != nil {
		appLogger.Critical("%v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Surface alerts as they come in
	go func() {
		for alert := range streamClient.Alerts() {
			fmt.Printf("\n>> %s\n\n", alert)
		}
	}()

	err = streamClient.Listen(ctx)
	switch {
	case errors.Is(err, client.ErrDisconnected):
		appLogger.Warning("Connection lost: %v", err)
	case errors.Is(err, context.Canceled):
		appLogger.Info("Client shutting down...")
	case err != nil:
		appLogger.Error("Stream error: %v", err)
	}
}

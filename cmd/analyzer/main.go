package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"price-streamer/src/analysis"
	"price-streamer/src/config"
	"price-streamer/src/logger"
	"price-streamer/src/storage"
	"price-streamer/src/utils"
)

// -----------------------------------------------------------------------------

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	dateStr := flag.String("date", "", "date to analyze (YYYY-MM-DD); defaults to the previous trading session")
	flag.Parse()

	// Load config from YAML file
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(conf.LogLevel, conf.Name+"-analyzer")

	if conf.Analysis.RootDir == "" {
		appLogger.Critical("analysis root_dir is not configured")
	}

	// Resolve the date: explicit flag or the last trading session
	var date time.Time
	if *dateStr != "" {
		date, err = time.Parse("2006-01-02", *dateStr)
		if err != nil {
			appLogger.Critical("Invalid date %q: expected YYYY-MM-DD", *dateStr)
		}
	} else {
		cal := utils.NewTradingCalendar(conf.Analysis.Calendar)
		date = cal.PreviousTradingSession(time.Now())
		appLogger.Info("No date given, using previous trading session %s", date.Format("2006-01-02"))
	}

	store := storage.NewFSObjectStore(conf.Analysis.RootDir)
	aggregator := analysis.NewAggregator(store, appLogger)

	summary, err := aggregator.ProcessDate(date)
	if err != nil {
		appLogger.Critical("Analysis failed: %v", err)
	}

	appLogger.Info("Processed %d records (%d skipped) across %d tickers; output at %s",
		summary.RecordsProcessed, summary.RecordsSkipped, summary.Tickers, summary.OutputKey)
}

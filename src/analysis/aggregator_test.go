package analysis_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"price-streamer/src/analysis"
	"price-streamer/src/logger"
	"price-streamer/src/storage"
)

var testDate = time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)

func setupAggregator(t *testing.T) (*analysis.Aggregator, *storage.FSObjectStore) {
	t.Helper()
	store := storage.NewFSObjectStore(t.TempDir())
	return analysis.NewAggregator(store, logger.NewLogger("ERROR", "test")), store
}

func TestAggregator_VolumeWeightedAverage(t *testing.T) {
	agg, store := setupAggregator(t)

	input := "ticker,price,quantity\n" +
		"AAPL,150.00,10\n" +
		"AAPL,160.00,30\n" +
		"TSLA,200.00,5\n"
	if err := store.Put("2024/05/15/trades.csv", []byte(input), "text/csv"); err != nil {
		t.Fatalf("failed to seed input: %v", err)
	}

	summary, err := agg.ProcessDate(testDate)
	if err != nil {
		t.Fatalf("ProcessDate failed: %v", err)
	}
	if summary.RecordsProcessed != 3 || summary.Tickers != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if summary.OutputKey != "2024/05/15/analysis_2024-05-15.csv" {
		t.Errorf("unexpected output key: %s", summary.OutputKey)
	}

	out, err := store.Get(summary.OutputKey)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines: %q", len(lines), string(out))
	}
	if lines[0] != "ticker,total_volume,average_price" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	// VWAP for AAPL: (150*10 + 160*30) / 40 = 157.50
	if lines[1] != "AAPL,40,157.50" {
		t.Errorf("unexpected AAPL row: %q", lines[1])
	}
	if lines[2] != "TSLA,5,200.00" {
		t.Errorf("unexpected TSLA row: %q", lines[2])
	}
}

func TestAggregator_SkipsMalformedRows(t *testing.T) {
	agg, store := setupAggregator(t)

	input := "ticker,price,quantity\n" +
		"AAPL,not-a-price,10\n" +
		"AAPL,150.00\n" +
		"AAPL,150.00,ten\n" +
		"AAPL,100.00,4\n"
	store.Put("2024/05/15/trades.csv", []byte(input), "text/csv")

	summary, err := agg.ProcessDate(testDate)
	if err != nil {
		t.Fatalf("ProcessDate failed: %v", err)
	}
	if summary.RecordsProcessed != 1 || summary.RecordsSkipped != 3 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	out, _ := store.Get(summary.OutputKey)
	if !strings.Contains(string(out), "AAPL,4,100.00") {
		t.Errorf("good row missing from output: %q", string(out))
	}
}

func TestAggregator_EmptyFile(t *testing.T) {
	agg, store := setupAggregator(t)

	store.Put("2024/05/15/trades.csv", []byte("ticker,price,quantity\n"), "text/csv")

	summary, err := agg.ProcessDate(testDate)
	if err != nil {
		t.Fatalf("ProcessDate failed on empty input: %v", err)
	}
	if summary.RecordsProcessed != 0 || summary.Tickers != 0 {
		t.Errorf("unexpected summary for empty input: %+v", summary)
	}
}

func TestAggregator_MissingInput(t *testing.T) {
	agg, _ := setupAggregator(t)

	_, err := agg.ProcessDate(testDate)
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
	if !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

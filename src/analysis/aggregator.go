package analysis

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"price-streamer/src/interfaces"
	"price-streamer/src/logger"
)

// -----------------------------------------------------------------------------
// Aggregator turns a day's raw trade file into per-ticker volume and
// volume-weighted average price.
//
// Input:  {year}/{month}/{day}/trades.csv         (ticker,price,quantity)
// Output: {year}/{month}/{day}/analysis_{date}.csv (ticker,total_volume,average_price)
// -----------------------------------------------------------------------------

type Aggregator struct {
	Store  interfaces.IObjectStore
	Logger *logger.Logger
}

func NewAggregator(store interfaces.IObjectStore, log *logger.Logger) *Aggregator {
	return &Aggregator{Store: store, Logger: log}
}

// -----------------------------------------------------------------------------

// Summary reports what one run did.
type Summary struct {
	Date             string
	RecordsProcessed int
	RecordsSkipped   int
	Tickers          int
	OutputKey        string
}

// -----------------------------------------------------------------------------

type tickerTotals struct {
	totalVolume int64
	sumPriceQty float64
}

// -----------------------------------------------------------------------------

// ProcessDate reads the trade file for the given date, aggregates it and
// writes the analysis file next to it. Malformed rows are skipped, not fatal.
func (a *Aggregator) ProcessDate(date time.Time) (*Summary, error) {
	dateStr := date.Format("2006-01-02")
	prefix := fmt.Sprintf("%04d/%02d/%02d", date.Year(), int(date.Month()), date.Day())
	inputKey := prefix + "/trades.csv"
	outputKey := fmt.Sprintf("%s/analysis_%s.csv", prefix, dateStr)

	data, err := a.Store.Get(inputKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", inputKey, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // malformed rows are handled per-row

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", inputKey, err)
	}

	totals := make(map[string]*tickerTotals)
	processed, skipped := 0, 0

	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		ticker, price, quantity, ok := parseRow(row)
		if !ok {
			a.Logger.Warning("Skipping malformed record %v in %s", row, inputKey)
			skipped++
			continue
		}

		t := totals[ticker]
		if t == nil {
			t = &tickerTotals{}
			totals[ticker] = t
		}
		t.totalVolume += quantity
		t.sumPriceQty += price * float64(quantity)
		processed++
	}

	// Stable output order
	tickers := make([]string, 0, len(totals))
	for ticker := range totals {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	var out bytes.Buffer
	writer := csv.NewWriter(&out)
	writer.Write([]string{"ticker", "total_volume", "average_price"})
	for _, ticker := range tickers {
		t := totals[ticker]
		avg := 0.0
		if t.totalVolume > 0 {
			avg = t.sumPriceQty / float64(t.totalVolume)
		}
		writer.Write([]string{
			ticker,
			strconv.FormatInt(t.totalVolume, 10),
			fmt.Sprintf("%.2f", avg),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode analysis CSV: %w", err)
	}

	if err := a.Store.Put(outputKey, out.Bytes(), "text/csv"); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outputKey, err)
	}

	a.Logger.Info("Analysis complete for %s: %d records, %d tickers -> %s", dateStr, processed, len(tickers), outputKey)

	return &Summary{
		Date:             dateStr,
		RecordsProcessed: processed,
		RecordsSkipped:   skipped,
		Tickers:          len(tickers),
		OutputKey:        outputKey,
	}, nil
}

// -----------------------------------------------------------------------------

func isHeader(row []string) bool {
	return len(row) > 0 && row[0] == "ticker"
}

// -----------------------------------------------------------------------------

func parseRow(row []string) (ticker string, price float64, quantity int64, ok bool) {
	if len(row) != 3 || row[0] == "" {
		return "", 0, 0, false
	}
	price, err := strconv.ParseFloat(row[1], 64)
	if err != nil {
		return "", 0, 0, false
	}
	quantity, err = strconv.ParseInt(row[2], 10, 64)
	if err != nil {
		return "", 0, 0, false
	}
	return row[0], price, quantity, true
}

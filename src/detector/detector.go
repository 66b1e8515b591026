package detector

import (
	"sync"
	"time"

	"price-streamer/src/logger"
	"price-streamer/src/models"
)

// -----------------------------------------------------------------------------
// WindowDetector keeps a trailing time window of observations per ticker and
// flags relative price increases above a percentage threshold.
// -----------------------------------------------------------------------------

type observation struct {
	ts    time.Time
	price float64
}

type WindowDetector struct {
	window    time.Duration
	threshold float64
	Logger    *logger.Logger

	// Per-ticker buffers, timestamp ascending. The mutex covers the map and
	// every buffer so updates may arrive from parallel readers.
	buffers map[string][]observation
	mu      sync.Mutex
}

// -----------------------------------------------------------------------------

func NewWindowDetector(window time.Duration, thresholdPercent float64, log *logger.Logger) *WindowDetector {
	return &WindowDetector{
		window:    window,
		threshold: thresholdPercent,
		Logger:    log,
		buffers:   make(map[string][]observation),
	}
}

// -----------------------------------------------------------------------------

// Update records one observation and returns an alert when the price exceeds
// the oldest price still inside the window by more than the threshold.
//
// The baseline is the oldest SURVIVING entry after eviction, not a rolling
// minimum; the window slides with the newest inserted timestamp.
func (d *WindowDetector) Update(ticker string, price float64, ts time.Time) *models.MAlert {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf := d.buffers[ticker]

	// Insert in timestamp order. Late observations land in their sorted slot
	// so eviction math stays correct.
	i := len(buf)
	for i > 0 && buf[i-1].ts.After(ts) {
		i--
	}
	buf = append(buf, observation{})
	copy(buf[i+1:], buf[i:])
	buf[i] = observation{ts: ts, price: price}

	// Evict everything older than the trailing window, measured from the
	// newest timestamp in the buffer.
	cutoff := buf[len(buf)-1].ts.Add(-d.window)
	start := 0
	for start < len(buf) && buf[start].ts.Before(cutoff) {
		start++
	}
	if start > 0 {
		buf = append(buf[:0], buf[start:]...)
	}
	d.buffers[ticker] = buf

	// Need an older price to compare against
	if len(buf) < 2 {
		return nil
	}

	base := buf[0]
	if base.price <= 0 {
		// Impossible under the price floor, but never divide by it.
		d.Logger.Warning("detector: non-positive baseline %.4f for %s, suppressing check", base.price, ticker)
		return nil
	}

	if price <= base.price {
		return nil
	}

	pct := (price - base.price) / base.price * 100
	if pct <= d.threshold {
		return nil
	}

	return &models.MAlert{
		Ticker:          ticker,
		BaselinePrice:   base.price,
		BaselineTime:    base.ts,
		CurrentPrice:    price,
		CurrentTime:     ts,
		PercentIncrease: pct,
		Window:          d.window,
	}
}

// -----------------------------------------------------------------------------

// WindowSize returns the number of buffered observations for a ticker.
func (d *WindowDetector) WindowSize(ticker string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.buffers[ticker])
}

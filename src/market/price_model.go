package market

import (
	"math/rand"
	"time"

	"price-streamer/src/models"
)

// -----------------------------------------------------------------------------
// PriceModel holds the current synthetic price per ticker and advances it
// with a bounded random walk. It is not safe for concurrent use: the hub
// goroutine is its only caller.
// -----------------------------------------------------------------------------

type PriceModel struct {
	tickers     []string
	prices      map[string]float64
	fluctuation float64
	floor       float64
	rng         *rand.Rand
}

// -----------------------------------------------------------------------------

// NewPriceModel seeds initial prices uniformly from the configured range.
// A zero seed falls back to the clock for non-reproducible runs.
func NewPriceModel(cfg *models.MConfig) *PriceModel {
	seed := cfg.Stream.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	tickers := make([]string, len(cfg.Stream.Tickers))
	copy(tickers, cfg.Stream.Tickers)

	prices := make(map[string]float64, len(tickers))
	span := cfg.Stream.InitialPriceMax - cfg.Stream.InitialPriceMin
	for _, t := range tickers {
		prices[t] = cfg.Stream.InitialPriceMin + rng.Float64()*span
	}

	return &PriceModel{
		tickers:     tickers,
		prices:      prices,
		fluctuation: cfg.Stream.Fluctuation,
		floor:       cfg.Stream.PriceFloor,
		rng:         rng,
	}
}

// -----------------------------------------------------------------------------

// Tick advances every tracked price by a uniform draw from
// [-fluctuation, +fluctuation], clamped at the floor, and returns a copy
// of the new state. Prices never reach or cross zero.
func (m *PriceModel) Tick() map[string]float64 {
	out := make(map[string]float64, len(m.tickers))
	for _, t := range m.tickers {
		change := (m.rng.Float64()*2 - 1) * m.fluctuation
		p := m.prices[t] + change
		if p < m.floor {
			p = m.floor
		}
		m.prices[t] = p
		out[t] = p
	}
	return out
}

// -----------------------------------------------------------------------------

// Tickers returns the tracked tickers in configuration order.
func (m *PriceModel) Tickers() []string {
	return m.tickers
}

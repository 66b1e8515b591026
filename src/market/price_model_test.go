package market_test

import (
	"math"
	"testing"

	"price-streamer/src/market"
	"price-streamer/src/models"
)

func testConfig(seed int64) *models.MConfig {
	return &models.MConfig{
		Stream: models.MStreamConfig{
			Tickers:         []string{"MOCKSTOCK_A", "MOCKSTOCK_B"},
			Fluctuation:     0.5,
			PriceFloor:      0.01,
			InitialPriceMin: 50,
			InitialPriceMax: 200,
			Seed:            seed,
		},
	}
}

func TestPriceModel_InitialRange(t *testing.T) {
	model := market.NewPriceModel(testConfig(1))

	prices := model.Tick()
	for ticker, p := range prices {
		// One tick away from the initial draw at most
		if p < 50-0.5 || p > 200+0.5 {
			t.Errorf("initial price for %s out of range: %f", ticker, p)
		}
	}
}

func TestPriceModel_FloorAndBoundedStep(t *testing.T) {
	model := market.NewPriceModel(testConfig(42))

	prev := model.Tick()
	for i := 0; i < 1000; i++ {
		curr := model.Tick()
		for ticker, p := range curr {
			if p < 0.01 {
				t.Fatalf("tick %d: price for %s fell below floor: %f", i, ticker, p)
			}
			if diff := math.Abs(p - prev[ticker]); diff > 0.5+1e-9 {
				t.Fatalf("tick %d: step for %s exceeds fluctuation bound: %f", i, ticker, diff)
			}
		}
		prev = curr
	}
}

func TestPriceModel_SeededDeterminism(t *testing.T) {
	a := market.NewPriceModel(testConfig(7))
	b := market.NewPriceModel(testConfig(7))

	for i := 0; i < 10; i++ {
		pa := a.Tick()
		pb := b.Tick()
		for ticker := range pa {
			if pa[ticker] != pb[ticker] {
				t.Fatalf("tick %d: same seed diverged for %s: %f vs %f", i, ticker, pa[ticker], pb[ticker])
			}
		}
	}
}

func TestPriceModel_TickerOrder(t *testing.T) {
	model := market.NewPriceModel(testConfig(1))

	tickers := model.Tickers()
	if len(tickers) != 2 || tickers[0] != "MOCKSTOCK_A" || tickers[1] != "MOCKSTOCK_B" {
		t.Errorf("tickers not in configuration order: %v", tickers)
	}
}

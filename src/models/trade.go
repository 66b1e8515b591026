package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MTrade represents a trade record in the ledger.
type MTrade struct {
	ID        int64           `json:"id"`
	Ticker    string          `json:"ticker"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Side      string          `json:"side"` // "BUY" or "SELL"
	Timestamp time.Time       `json:"timestamp"`
}

// -----------------------------------------------------------------------------

// MTradeFilter narrows a ledger listing. Zero values mean "no constraint".
type MTradeFilter struct {
	Ticker    string
	StartDate *time.Time // inclusive
	EndDate   *time.Time // inclusive
}

package models

import "time"

// MNotification is a fire-and-forget job produced when a trade is created.
type MNotification struct {
	ID         string    `json:"id"`
	TradeID    int64     `json:"trade_id"`
	Ticker     string    `json:"ticker"`
	Price      string    `json:"price"` // 2-decimal string
	Quantity   int64     `json:"quantity"`
	Side       string    `json:"side"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

package interfaces

import "price-streamer/src/models"

// -----------------------------------------------------------------------------
// ILedger defines the contract for trade persistence.
// -----------------------------------------------------------------------------

type ILedger interface {

	// Initialize sets up the database schema.
	Initialize() error

	// -----------------------------------------------------------------------------

	// InsertTrade persists one trade and returns its assigned id.
	InsertTrade(trade models.MTrade) (int64, error)

	// -----------------------------------------------------------------------------

	// ListTrades returns trades matching the filter, newest first.
	ListTrades(filter models.MTradeFilter) ([]models.MTrade, error)

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}

package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"price-streamer/src/logger"
	"price-streamer/src/models"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type SQLiteLedger struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteLedger(cfg *models.MConfig, log *logger.Logger) (*SQLiteLedger, error) {
	return &SQLiteLedger{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteLedger) Initialize() error {
	dsn := d.Config.Storage.DBPath

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	// The ledger persists across restarts, so the table is only created,
	// never dropped.
	// SQLite types: INTEGER for int64, TEXT for the exact decimal price
	query := `
		CREATE TABLE IF NOT EXISTS trades (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ticker TEXT NOT NULL,
			price TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			side TEXT NOT NULL,
			timestamp INTEGER NOT NULL
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create trades table: %w", err)
	}

	if _, err := d.DB.Exec("CREATE INDEX IF NOT EXISTS idx_trades_ticker_ts ON trades (ticker, timestamp)"); err != nil {
		return fmt.Errorf("failed to create trades index: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteLedger) InsertTrade(trade models.MTrade) (int64, error) {
	res, err := d.DB.Exec(`
		INSERT INTO trades (ticker, price, quantity, side, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`, trade.Ticker, trade.Price.String(), trade.Quantity, trade.Side, trade.Timestamp.UTC().UnixNano())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// -----------------------------------------------------------------------------

func (d *SQLiteLedger) ListTrades(filter models.MTradeFilter) ([]models.MTrade, error) {
	query := "SELECT id, ticker, price, quantity, side, timestamp FROM trades"

	var clauses []string
	var args []interface{}

	if filter.Ticker != "" {
		clauses = append(clauses, "UPPER(ticker) = UPPER(?)")
		args = append(args, filter.Ticker)
	}
	if filter.StartDate != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.StartDate.UTC().UnixNano())
	}
	if filter.EndDate != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, filter.EndDate.UTC().UnixNano())
	}

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC"

	rows, err := d.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []models.MTrade
	for rows.Next() {
		var t models.MTrade
		var priceStr string
		var tsNanos int64
		if err := rows.Scan(&t.ID, &t.Ticker, &priceStr, &t.Quantity, &t.Side, &tsNanos); err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt price %q for trade %d: %w", priceStr, t.ID, err)
		}
		t.Price = price
		t.Timestamp = time.Unix(0, tsNanos).UTC()
		trades = append(trades, t)
	}

	return trades, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *SQLiteLedger) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

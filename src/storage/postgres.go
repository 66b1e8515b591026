package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"price-streamer/src/logger"
	"price-streamer/src/models"

	_ "github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresLedger struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresLedger(cfg *models.MConfig, log *logger.Logger) (*PostgresLedger, error) {
	return &PostgresLedger{
		Config: cfg,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresLedger) Initialize() error {
	dsn := d.Config.Storage.DBConnectionString

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}

	d.DB = db

	query := `
		CREATE TABLE IF NOT EXISTS trades (
			id BIGSERIAL PRIMARY KEY,
			ticker TEXT NOT NULL,
			price NUMERIC(18,2) NOT NULL,
			quantity BIGINT NOT NULL,
			side TEXT NOT NULL,
			timestamp BIGINT NOT NULL
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create trades table: %w", err)
	}

	if _, err := d.DB.Exec("CREATE INDEX IF NOT EXISTS idx_trades_ticker_ts ON trades (ticker, timestamp)"); err != nil {
		return fmt.Errorf("failed to create trades index: %w", err)
	}

	d.Logger.Info("PostgresLedger initialized successfully")
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresLedger) InsertTrade(trade models.MTrade) (int64, error) {
	var id int64
	err := d.DB.QueryRow(`
		INSERT INTO trades (ticker, price, quantity, side, timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, trade.Ticker, trade.Price, trade.Quantity, trade.Side, trade.Timestamp.UTC().UnixNano()).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresLedger) ListTrades(filter models.MTradeFilter) ([]models.MTrade, error) {
	query := "SELECT id, ticker, price, quantity, side, timestamp FROM trades"

	var clauses []string
	var args []interface{}

	if filter.Ticker != "" {
		args = append(args, filter.Ticker)
		clauses = append(clauses, fmt.Sprintf("UPPER(ticker) = UPPER($%d)", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, filter.StartDate.UTC().UnixNano())
		clauses = append(clauses, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, filter.EndDate.UTC().UnixNano())
		clauses = append(clauses, fmt.Sprintf("timestamp <= $%d", len(args)))
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
		var tsNanos int64
		if err := rows.Scan(&t.ID, &t.Ticker, &t.Price, &t.Quantity, &t.Side, &tsNanos); err != nil {
			return nil, err
		}
		t.Timestamp = time.Unix(0, tsNanos).UTC()
		trades = append(trades, t)
	}

	return trades, rows.Err()
}

// -----------------------------------------------------------------------------

func (d *PostgresLedger) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

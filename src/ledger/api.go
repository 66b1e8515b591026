package ledger

import (
	"regexp"
	"time"

	"price-streamer/src/interfaces"
	"price-streamer/src/logger"
	"price-streamer/src/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// TradeAPI
// -----------------------------------------------------------------------------

type TradeAPI struct {
	Logger   *logger.Logger
	Store    interfaces.ILedger
	Notifier interfaces.INotifier
}

func NewTradeAPI(log *logger.Logger, store interfaces.ILedger, notifier interfaces.INotifier) *TradeAPI {
	return &TradeAPI{
		Logger:   log,
		Store:    store,
		Notifier: notifier,
	}
}

// -----------------------------------------------------------------------------

// RegisterRoutes mounts the ledger endpoints on an existing engine.
func (a *TradeAPI) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/trades", a.createTrade)
	r.GET("/api/trades", a.listTrades)
}

// -----------------------------------------------------------------------------
// Request/Response Shapes
// -----------------------------------------------------------------------------

type tradeRequest struct {
	Ticker    string          `json:"ticker"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Side      string          `json:"side"`
	Timestamp time.Time       `json:"timestamp"`
}

type tradeResponse struct {
	ID        int64  `json:"id"`
	Ticker    string `json:"ticker"`
	Price     string `json:"price"` // 2-decimal string
	Quantity  int64  `json:"quantity"`
	Side      string `json:"side"`
	Timestamp string `json:"timestamp"` // RFC3339 UTC
}

func toResponse(t models.MTrade) tradeResponse {
	return tradeResponse{
		ID:        t.ID,
		Ticker:    t.Ticker,
		Price:     t.Price.StringFixed(2),
		Quantity:  t.Quantity,
		Side:      t.Side,
		Timestamp: t.Timestamp.UTC().Format(time.RFC3339),
	}
}

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

var tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

func validateTrade(req tradeRequest) map[string]string {
	errs := make(map[string]string)

	if !tickerPattern.MatchString(req.Ticker) {
		errs["ticker"] = "Ticker must be 1-5 uppercase letters (e.g., AAPL, TSLA)."
	}
	if req.Price.IsNegative() {
		errs["price"] = "Price cannot be negative."
	}
	if req.Quantity < 0 {
		errs["quantity"] = "Quantity cannot be negative."
	}
	if req.Side != "BUY" && req.Side != "SELL" {
		errs["side"] = "Side must be BUY or SELL."
	}
	if req.Timestamp.IsZero() {
		errs["timestamp"] = "Timestamp is required."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// -----------------------------------------------------------------------------
// Handlers
// -----------------------------------------------------------------------------

func (a *TradeAPI) createTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if errs := validateTrade(req); errs != nil {
		c.JSON(400, gin.H{"errors": errs})
		return
	}

	trade := models.MTrade{
		Ticker:    req.Ticker,
		Price:     req.Price,
		Quantity:  req.Quantity,
		Side:      req.Side,
		Timestamp: req.Timestamp,
	}

	id, err := a.Store.InsertTrade(trade)
	if err != nil {
		a.Logger.Error("Failed to insert trade: %v", err)
		c.JSON(500, gin.H{"error": "failed to store trade"})
		return
	}
	trade.ID = id

	// Fire-and-forget: a full queue or a failed delivery never affects the
	// API response.
	a.Notifier.Enqueue(models.MNotification{
		ID:         uuid.NewString(),
		TradeID:    id,
		Ticker:     trade.Ticker,
		Price:      trade.Price.StringFixed(2),
		Quantity:   trade.Quantity,
		Side:       trade.Side,
		EnqueuedAt: time.Now().UTC(),
	})

	c.JSON(201, toResponse(trade))
}

// -----------------------------------------------------------------------------

func (a *TradeAPI) listTrades(c *gin.Context) {
	filter := models.MTradeFilter{
		Ticker: c.Query("ticker"),
	}

	if v := c.Query("start_date"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			c.JSON(400, gin.H{"error": "invalid start_date: " + v})
			return
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			c.JSON(400, gin.H{"error": "invalid end_date: " + v})
			return
		}
		filter.EndDate = &t
	}

	trades, err := a.Store.ListTrades(filter)
	if err != nil {
		a.Logger.Error("Failed to list trades: %v", err)
		c.JSON(500, gin.H{"error": "failed to list trades"})
		return
	}

	out := make([]tradeResponse, 0, len(trades))
	for _, t := range trades {
		out = append(out, toResponse(t))
	}
	c.JSON(200, out)
}

// -----------------------------------------------------------------------------

// parseDateParam accepts RFC3339 or a bare date. A bare end_date means
// midnight, so it only covers the very start of that day, same as upstream.
func parseDateParam(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"price-streamer/src/detector"
	"price-streamer/src/logger"
	"price-streamer/src/models"

	"github.com/gorilla/websocket"
)

// ErrDisconnected marks a terminal connection loss, as opposed to malformed
// data which is logged and skipped. Reconnecting is the caller's decision.
var ErrDisconnected = errors.New("stream disconnected")

// -----------------------------------------------------------------------------
// StreamClient consumes the broadcast feed and runs every observation
// through the window detector.
// -----------------------------------------------------------------------------

type StreamClient struct {
	Logger   *logger.Logger
	Detector *detector.WindowDetector

	// OnUpdate, when set, is invoked for every decoded entry before the
	// detector sees it.
	OnUpdate func(models.MPriceUpdate)

	conn   *websocket.Conn
	alerts chan models.MAlert
}

// -----------------------------------------------------------------------------

func NewStreamClient(log *logger.Logger, det *detector.WindowDetector) *StreamClient {
	return &StreamClient{
		Logger:   log,
		Detector: det,
		alerts:   make(chan models.MAlert, 16),
	}
}

// -----------------------------------------------------------------------------

// Connect opens the websocket session. serverURL is a ws:// URL.
func (c *StreamClient) Connect(serverURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", serverURL, err)
	}
	c.conn = conn
	c.Logger.Info("Connected to %s", serverURL)
	return nil
}

// -----------------------------------------------------------------------------

// Alerts delivers detector hits. Slow consumers drop alerts, they are
// advisory, not a ledger.
func (c *StreamClient) Alerts() <-chan models.MAlert {
	return c.alerts
}

// -----------------------------------------------------------------------------

// Listen blocks reading batches until the context is cancelled or the
// connection is lost. Connection loss returns an error wrapping
// ErrDisconnected; bad payloads never terminate the session.
func (c *StreamClient) Listen(ctx context.Context) error {
	defer close(c.alerts)

	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %v", ErrDisconnected, err)
		}
		c.handleBatch(message)
	}
}

// -----------------------------------------------------------------------------

// handleBatch decodes one batch. A batch that is not a JSON array is skipped
// whole; a malformed entry inside a valid array is skipped alone.
func (c *StreamClient) handleBatch(message []byte) {
	var entries []json.RawMessage
	if err := json.Unmarshal(message, &entries); err != nil {
		c.Logger.Warning("Skipping malformed batch: %v", err)
		return
	}

	for _, raw := range entries {
		var update models.MPriceUpdate
		if err := json.Unmarshal(raw, &update); err != nil {
			c.Logger.Warning("Skipping malformed entry: %v", err)
			continue
		}

		if c.OnUpdate != nil {
			c.OnUpdate(update)
		}

		alert := c.Detector.Update(update.Ticker, update.Price, update.Timestamp.Time)
		if alert == nil {
			continue
		}

		select {
		case c.alerts <- *alert:
		default:
			c.Logger.Warning("Alert channel full, dropping: %s", alert)
		}
	}
}

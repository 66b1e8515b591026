package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"price-streamer/src/helpers"
	"price-streamer/src/logger"
	"price-streamer/src/models"
)

// -----------------------------------------------------------------------------
// Dispatcher runs a single background worker draining a bounded job queue.
// Enqueue never blocks the caller; delivery failures stay inside the worker.
// -----------------------------------------------------------------------------

type Dispatcher struct {
	Config *models.MConfig
	Logger *logger.Logger

	queue  chan models.MNotification
	client *http.Client
	wg     sync.WaitGroup
}

// -----------------------------------------------------------------------------

func NewDispatcher(cfg *models.MConfig, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		Config: cfg,
		Logger: log,
		queue:  make(chan models.MNotification, cfg.Notify.QueueSize),
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// -----------------------------------------------------------------------------

// Start launches the worker. It drains until the context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case n := <-d.queue:
				d.deliver(n)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// -----------------------------------------------------------------------------

// Wait blocks until the worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// -----------------------------------------------------------------------------

// Enqueue hands a job to the worker. Returns false when the queue is full;
// the job is dropped with a warning rather than stalling the API.
func (d *Dispatcher) Enqueue(n models.MNotification) bool {
	select {
	case d.queue <- n:
		return true
	default:
		d.Logger.Warning("Notification queue full, dropping job %s", n.ID)
		return false
	}
}

// -----------------------------------------------------------------------------

func (d *Dispatcher) deliver(n models.MNotification) {
	d.Logger.Info("Notification %s: %s %d %s @ %s (trade %d)",
		n.ID, n.Side, n.Quantity, n.Ticker, n.Price, n.TradeID)

	url := d.Config.Notify.WebhookURL
	if url == "" {
		return
	}

	body, err := json.Marshal(n)
	if err != nil {
		d.Logger.Error("Failed to encode notification %s: %v", n.ID, err)
		return
	}

	err = helpers.RetryWithBackoff("notification webhook", 3, 500*time.Millisecond, func() error {
		resp, err := d.client.Post(url, "application/json", bytes.NewReader(body))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			return fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		wrapped := &helpers.NotificationError{StreamerError: helpers.StreamerError{Message: "webhook delivery failed", Cause: err}}
		d.Logger.Error("Notification %s not delivered: %v", n.ID, wrapped)
	}
}

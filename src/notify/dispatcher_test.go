package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"price-streamer/src/logger"
	"price-streamer/src/models"
	"price-streamer/src/notify"
)

func testJob(id string) models.MNotification {
	return models.MNotification{
		ID:         id,
		TradeID:    1,
		Ticker:     "AAPL",
		Price:      "150.75",
		Quantity:   10,
		Side:       "BUY",
		EnqueuedAt: time.Now().UTC(),
	}
}

func TestDispatcher_WebhookDelivery(t *testing.T) {
	var received atomic.Int64
	var lastID atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var n models.MNotification
		if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
			t.Errorf("bad webhook payload: %v", err)
		}
		lastID.Store(n.ID)
		received.Add(1)
		w.WriteHeader(200)
	}))
	t.Cleanup(srv.Close)

	cfg := &models.MConfig{Notify: models.MNotifyConfig{QueueSize: 4, WebhookURL: srv.URL}}
	d := notify.NewDispatcher(cfg, logger.NewLogger("ERROR", "test"))

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	if ok := d.Enqueue(testJob("job-1")); !ok {
		t.Fatal("enqueue should succeed with room in the queue")
	}

	deadline := time.Now().Add(3 * time.Second)
	for received.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if received.Load() != 1 {
		t.Fatalf("expected 1 webhook delivery, got %d", received.Load())
	}
	if got := lastID.Load(); got != "job-1" {
		t.Errorf("wrong job delivered: %v", got)
	}

	cancel()
	d.Wait()
}

func TestDispatcher_FullQueueDropsJob(t *testing.T) {
	cfg := &models.MConfig{Notify: models.MNotifyConfig{QueueSize: 1}}
	d := notify.NewDispatcher(cfg, logger.NewLogger("ERROR", "test"))

	// Worker not started: the buffer holds exactly one job.
	if ok := d.Enqueue(testJob("job-1")); !ok {
		t.Fatal("first enqueue should fit the buffer")
	}
	if ok := d.Enqueue(testJob("job-2")); ok {
		t.Error("second enqueue should be dropped, not blocked")
	}
}

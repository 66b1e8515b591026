package server

import (
	"context"
	"math"
	"net/http"
	"time"

	"price-streamer/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
//
// The hub goroutine is the single owner of the live subscriber set: accepts,
// disconnects and the tick loop all funnel through its select, so no lock is
// needed around the map. Fan-out itself is concurrent -- each client has its
// own writePump, the hub only hands the batch over.
// -----------------------------------------------------------------------------

func (s *BroadcastServer) runHub(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.connCount.Store(int64(len(s.clients)))
			s.Logger.Info("Subscriber connected (%d live)", len(s.clients))

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				s.connCount.Store(int64(len(s.clients)))
				s.Logger.Info("Subscriber removed (%d live)", len(s.clients))
			}

		case <-ticker.C:
			// No one listening? Don't advance prices.
			if len(s.clients) == 0 {
				continue
			}

			batch := s.buildBatch()
			for client := range s.clients {
				select {
				case client.send <- batch:
					// Handed to the client's writePump
				default:
					// Prior send still in flight: this subscriber misses the
					// tick. Unsent batches are never queued or retried.
					s.Logger.Warning("Subscriber lagging, dropped tick")
				}
			}

		case <-ctx.Done():
			for client := range s.clients {
				delete(s.clients, client)
				close(client.send)
			}
			s.connCount.Store(0)
			close(s.hubDone)
			return
		}
	}
}

// -----------------------------------------------------------------------------

// buildBatch advances the price model and serializes the full snapshot.
// Every entry carries the same capture timestamp so subscribers always see
// co-temporal prices.
func (s *BroadcastServer) buildBatch() []models.MPriceUpdate {
	now := models.ISOTime{Time: time.Now().UTC()}
	prices := s.Model.Tick()

	batch := make([]models.MPriceUpdate, 0, len(prices))
	for _, t := range s.Model.Tickers() {
		batch = append(batch, models.MPriceUpdate{
			Ticker:    t,
			Price:     math.Round(prices[t]*100) / 100,
			Timestamp: now,
		})
	}
	return batch
}

// -----------------------------------------------------------------------------
// WebSocket Handler
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *BroadcastServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Warning("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		server: s,
		conn:   conn,
		// Capacity 1: at most the current batch may be pending. A slower
		// subscriber misses ticks instead of building a backlog.
		send: make(chan []models.MPriceUpdate, 1),
	}

	select {
	case s.register <- client:
	case <-s.hubDone:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

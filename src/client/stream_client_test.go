package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"price-streamer/src/client"
	"price-streamer/src/detector"
	"price-streamer/src/logger"
	"price-streamer/src/models"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

// feedServer serves one websocket session, writes the given messages in
// order, then closes the connection.
func feedServer(t *testing.T, messages []string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		// Give the client a moment to drain before the close frame
		time.Sleep(100 * time.Millisecond)
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newStreamClient() *client.StreamClient {
	log := logger.NewLogger("ERROR", "test")
	det := detector.NewWindowDetector(60*time.Second, 2.0, log)
	return client.NewStreamClient(log, det)
}

// -----------------------------------------------------------------------------

func TestStreamClient_AlertFromStream(t *testing.T) {
	srv := feedServer(t, []string{
		`[{"ticker":"MOCK","price":100,"timestamp":"2024-05-15T12:00:00+00:00"}]`,
		`[{"ticker":"MOCK","price":103.5,"timestamp":"2024-05-15T12:00:30+00:00"}]`,
	})

	c := newStreamClient()
	if err := c.Connect(wsURL(srv)); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	err := c.Listen(context.Background())
	if !errors.Is(err, client.ErrDisconnected) {
		t.Errorf("expected ErrDisconnected after server close, got %v", err)
	}

	var alerts []models.MAlert
	for a := range c.Alerts() {
		alerts = append(alerts, a)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Ticker != "MOCK" || alerts[0].PercentIncrease < 3.4 || alerts[0].PercentIncrease > 3.6 {
		t.Errorf("unexpected alert: %+v", alerts[0])
	}
}

func TestStreamClient_MalformedDataIsSkipped(t *testing.T) {
	srv := feedServer(t, []string{
		`{this is not json`,
		`"not an array"`,
		// One broken entry inside a valid batch: the rest must be processed.
		`[{"ticker":"MOCK","price":"broken","timestamp":"2024-05-15T12:00:00+00:00"},` +
			`{"ticker":"MOCK","price":100,"timestamp":"2024-05-15T12:00:00+00:00"}]`,
		`[{"ticker":"MOCK","price":104,"timestamp":"2024-05-15T12:00:10+00:00"}]`,
	})

	c := newStreamClient()
	if err := c.Connect(wsURL(srv)); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	updates := 0
	c.OnUpdate = func(models.MPriceUpdate) { updates++ }

	err := c.Listen(context.Background())
	if !errors.Is(err, client.ErrDisconnected) {
		t.Errorf("expected ErrDisconnected, got %v", err)
	}

	// The two good entries survived the garbage around them.
	if updates != 2 {
		t.Errorf("expected 2 decoded updates, got %d", updates)
	}

	var alerts []models.MAlert
	for a := range c.Alerts() {
		alerts = append(alerts, a)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected the valid entries to still produce 1 alert, got %d", len(alerts))
	}
}

func TestStreamClient_ContextCancel(t *testing.T) {
	// A server that sends nothing: Listen should end with the context, not
	// a disconnect.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	c := newStreamClient()
	if err := c.Connect(wsURL(srv)); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	err := c.Listen(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"price-streamer/src/helpers"
	"price-streamer/src/logger"
	"price-streamer/src/market"
	"price-streamer/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// BroadcastServer
// -----------------------------------------------------------------------------

type BroadcastServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	Model  *market.PriceModel

	engine  *gin.Engine
	httpSrv *http.Server

	// WebSocket subscribers. The live set is owned exclusively by the hub
	// goroutine; other goroutines reach it only through the channels.
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	hubDone    chan struct{}
	connCount  atomic.Int64

	tickInterval time.Duration
	stopHub      context.CancelFunc
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewBroadcastServer(cfg *models.MConfig, log *logger.Logger, model *market.PriceModel) *BroadcastServer {
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &BroadcastServer{
		Config:       cfg,
		Logger:       log,
		Model:        model,
		engine:       gin.Default(),
		clients:      make(map[*Client]struct{}),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		hubDone:      make(chan struct{}),
		tickInterval: time.Duration(cfg.Stream.TickIntervalSeconds * float64(time.Second)),
	}

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *BroadcastServer) setupRoutes() {
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/config", s.getConfig)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// Engine exposes the router so the trade ledger API can mount its routes
// on the same listener.
func (s *BroadcastServer) Engine() *gin.Engine {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start binds the configured address and serves until Stop is called.
// A bind failure is reported as a *helpers.BindError before anything runs.
func (s *BroadcastServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return helpers.NewBindError(addr, err)
	}

	s.Logger.Info("Starting broadcast server on %s (tick every %s)", addr, s.tickInterval)
	return s.Serve(ln)
}

// -----------------------------------------------------------------------------

// Serve runs the hub and the HTTP server on an existing listener.
func (s *BroadcastServer) Serve(ln net.Listener) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopHub = cancel

	go s.runHub(ctx)

	s.httpSrv = &http.Server{Handler: s.engine}
	if err := s.httpSrv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		cancel()
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// Stop cancels the tick loop, closes all live connections and shuts the
// HTTP listener down. In-flight sends are abandoned, not awaited.
func (s *BroadcastServer) Stop() error {
	if s.stopHub != nil {
		s.stopHub()
	}
	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(ctx)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *BroadcastServer) getHealth(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":      "ok",
		"connections": s.connCount.Load(),
		"tickers":     len(s.Config.Stream.Tickers),
	})
}

// -----------------------------------------------------------------------------

func (s *BroadcastServer) getConfig(c *gin.Context) {
	c.JSON(200, gin.H{
		"tickers":               s.Config.Stream.Tickers,
		"tick_interval_seconds": s.Config.Stream.TickIntervalSeconds,
		"window_seconds":        s.Config.Detector.WindowSeconds,
		"threshold_percent":     s.Config.Detector.ThresholdPercent,
	})
}

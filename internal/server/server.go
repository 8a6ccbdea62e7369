package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/zeusync/vehicle/internal/core/events/bus"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/internal/core/world"
)

// Server exposes the simulation to observers: a websocket stream of map
// notifications and read-only HTTP views of the vehicles.
type Server struct {
	http     *http.Server
	listener net.Listener
	addr     atomic.Value // string
	ws       *WebSocketServer
	api      *HTTPServer
	bus      bus.EventBus
	watch    *deliveryWatch

	// Server state
	running int32 // atomic bool
	closed  int32 // atomic bool

	config Config
	logger log.Log
}

// Config holds server configuration
type Config struct {
	ListenAddr      string        `yaml:"listen_addr"`
	MaxClients      int           `yaml:"max_clients"`
	SendBuffer      int           `yaml:"send_buffer"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// SlowDelivery is the bus delivery time above which a warning is logged.
	// Zero disables the warning.
	SlowDelivery time.Duration `yaml:"slow_delivery"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		ListenAddr:      "127.0.0.1:8080",
		MaxClients:      1_000,
		SendBuffer:      256,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		SlowDelivery:    50 * time.Millisecond,
	}
}

func NewServer(config Config, w *world.World, b bus.EventBus, logger log.Log) *Server {
	logger = logger.With(log.String("component", "server"))

	s := &Server{
		config: config,
		logger: logger,
		ws:     NewWebSocketServer(b, config, logger),
		api:    NewHTTPServer(w, b, logger),
		bus:    b,
		watch:  newDeliveryWatch(config.SlowDelivery, logger),
	}
	b.AddObserver(s.watch)

	s.logger.Info("Server created",
		log.String("listen_addr", config.ListenAddr),
		log.Int("max_clients", config.MaxClients))

	return s
}

// Handler routes every endpoint of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.ws.handleWebSocket)
	s.api.register(mux, s.ws)
	return mux
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(_ context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}

	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to create listener", log.Error(err))
		return err
	}

	s.listener = listener
	s.addr.Store(listener.Addr().String())
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", log.Error(err))
		}
	}()

	s.logger.Info("Server listening", log.String("addr", listener.Addr().String()))

	return nil
}

// Addr is the bound listen address, empty before Start.
func (s *Server) Addr() string {
	addr, _ := s.addr.Load().(string)
	return addr
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}

	s.logger.Info("Stopping server")

	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(ctx)
	s.ws.Close()

	s.logger.Info("Server stopped")

	return err
}

// Close closes the server and releases all resources
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil // Already closed
	}

	if atomic.LoadInt32(&s.running) == 1 {
		_ = s.Stop(context.Background())
	}
	s.bus.RemoveObserver(s.watch)

	s.logger.Info("Server closed")

	return nil
}

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/vehicle/internal/core/events"
	"github.com/zeusync/vehicle/internal/core/events/bus"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/pkg/generic"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

var encodeBuffers = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

// encode renders an event envelope into a fresh slice owned by the caller.
func encode(e bus.Event) ([]byte, error) {
	buf := encodeBuffers.Get()
	defer encodeBuffers.Put(buf)

	if err := json.NewEncoder(buf).Encode(events.NewEnvelope(e)); err != nil {
		return nil, err
	}
	return bytes.Clone(bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})), nil
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	// done is closed when the client leaves its room.
	done chan struct{}
}

// Room fans the notifications of one map out to its observers. It holds a bus
// subscription only while it has clients.
type Room struct {
	mapID   uint32
	clients map[*client]struct{}
	sub     bus.Subscription
	mu      sync.Mutex
}

// WebSocketServer streams map notifications to observers as JSON envelopes.
// Observers pick a map with the "map" query parameter and never send.
type WebSocketServer struct {
	bus         bus.EventBus
	rooms       map[uint32]*Room
	mu          sync.Mutex
	clientCount int64 // atomic
	config      Config
	logger      log.Log
}

func NewWebSocketServer(b bus.EventBus, config Config, logger log.Log) *WebSocketServer {
	return &WebSocketServer{
		bus:    b,
		rooms:  make(map[uint32]*Room),
		config: config,
		logger: logger.With(log.String("component", "websocket")),
	}
}

// ClientCount is the number of connected observers.
func (s *WebSocketServer) ClientCount() int64 {
	return atomic.LoadInt64(&s.clientCount)
}

// RoomCount is the number of maps with at least one observer.
func (s *WebSocketServer) RoomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// Close disconnects every observer.
func (s *WebSocketServer) Close() {
	s.mu.Lock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	s.mu.Unlock()

	for _, room := range rooms {
		room.mu.Lock()
		for c := range room.clients {
			if c.conn != nil {
				_ = c.conn.Close()
			}
		}
		room.mu.Unlock()
	}
}

func (s *WebSocketServer) join(mapID uint32) (*Room, *client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, exists := s.rooms[mapID]
	if !exists {
		room = &Room{mapID: mapID, clients: make(map[*client]struct{})}
		sub, err := s.bus.SubscribeTopic(events.MapTopic(mapID), bus.AnyType, room.broadcast(s.logger))
		if err != nil {
			return nil, nil, err
		}
		room.sub = sub
		s.rooms[mapID] = room
	}

	c := &client{
		send: make(chan []byte, s.config.SendBuffer),
		done: make(chan struct{}),
	}
	room.mu.Lock()
	room.clients[c] = struct{}{}
	room.mu.Unlock()

	atomic.AddInt64(&s.clientCount, 1)
	return room, c, nil
}

func (s *WebSocketServer) leave(room *Room, c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room.mu.Lock()
	delete(room.clients, c)
	empty := len(room.clients) == 0
	room.mu.Unlock()
	close(c.done)

	atomic.AddInt64(&s.clientCount, -1)

	if empty {
		_ = s.bus.Unsubscribe(room.sub)
		delete(s.rooms, room.mapID)
	}
}

// broadcast encodes each event once and queues it for every client. Slow
// clients lose messages instead of stalling the simulation.
func (r *Room) broadcast(logger log.Log) bus.EventHandler {
	return func(e bus.Event) error {
		payload, err := encode(e)
		if err != nil {
			return err
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		for c := range r.clients {
			select {
			case c.send <- payload:
			default:
				logger.Warn("Observer too slow, notification dropped",
					log.Uint32("map", r.mapID),
					log.String("type", e.Type()))
			}
		}
		return nil
	}
}

func (s *WebSocketServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	mapID, err := strconv.ParseUint(r.URL.Query().Get("map"), 10, 32)
	if err != nil {
		http.Error(w, ErrInvalidMapID.Error(), http.StatusBadRequest)
		return
	}

	if s.config.MaxClients > 0 && s.ClientCount() >= int64(s.config.MaxClients) {
		s.logger.Warn("Maximum clients reached, rejecting connection",
			log.String("remote_addr", r.RemoteAddr))
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	// Join before upgrading so nothing published after the handshake is missed.
	room, c, err := s.join(uint32(mapID))
	if err != nil {
		s.logger.Error("Failed to join room", log.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("Upgrade failed", log.Error(err))
		s.leave(room, c)
		return
	}
	room.mu.Lock()
	c.conn = conn
	room.mu.Unlock()

	s.logger.Info("Observer connected",
		log.Uint32("map", room.mapID),
		log.String("remote_addr", conn.RemoteAddr().String()),
		log.Int64("total_clients", s.ClientCount()))

	go s.writePump(c)
	s.readPump(room, c)
}

// readPump discards inbound frames and returns when the peer goes away.
func (s *WebSocketServer) readPump(room *Room, c *client) {
	defer func() {
		s.leave(room, c)
		_ = c.conn.Close()
		s.logger.Info("Observer disconnected",
			log.Uint32("map", room.mapID),
			log.Int64("total_clients", s.ClientCount()))
	}()

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

func (s *WebSocketServer) writePump(c *client) {
	for {
		select {
		case payload := <-c.send:
			if s.config.WriteTimeout > 0 {
				_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.logger.Debug("Write to observer failed", log.Error(err))
				_ = c.conn.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/zeusync/vehicle/internal/core/events/bus"
	"github.com/zeusync/vehicle/internal/core/observability/log"
	"github.com/zeusync/vehicle/internal/core/world"
)

// HTTPServer serves read-only views of the world.
type HTTPServer struct {
	world  *world.World
	bus    bus.EventBus
	logger log.Log
}

func NewHTTPServer(w *world.World, b bus.EventBus, logger log.Log) *HTTPServer {
	return &HTTPServer{
		world:  w,
		bus:    b,
		logger: logger.With(log.String("component", "http")),
	}
}

// Health is the body of the health endpoint.
type Health struct {
	Status    string              `json:"status"`
	Checksum  string              `json:"checksum"`
	Units     int                 `json:"units"`
	Observers int64               `json:"observers"`
	Rooms     int                 `json:"rooms"`
	Bus       bus.EventBusMetrics `json:"bus"`
	Topics    []bus.TopicInfo     `json:"topics"`
}

func (s *HTTPServer) register(mux *http.ServeMux, ws *WebSocketServer) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, Health{
			Status:    "ok",
			Checksum:  fmt.Sprintf("%016x", s.world.Store().Checksum()),
			Units:     s.world.Len(),
			Observers: ws.ClientCount(),
			Rooms:     ws.RoomCount(),
			Bus:       s.bus.GetMetrics(),
			Topics:    s.bus.GetTopics(),
		})
	})
	mux.HandleFunc("GET /vehicles", s.handleVehicles)
	mux.HandleFunc("GET /vehicles/{guid}", s.handleVehicle)
	mux.HandleFunc("GET /vehicles/{guid}/ai", s.handleVehicleAI)
}

func (s *HTTPServer) handleVehicles(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.world.Snapshots())
}

func (s *HTTPServer) handleVehicle(w http.ResponseWriter, r *http.Request) {
	guid, err := uuid.Parse(r.PathValue("guid"))
	if err != nil {
		http.Error(w, ErrInvalidGUID.Error(), http.StatusBadRequest)
		return
	}

	snap, err := s.world.Snapshot(guid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// handleVehicleAI exports the behavior state of a vehicle when its behavior
// can encode itself.
func (s *HTTPServer) handleVehicleAI(w http.ResponseWriter, r *http.Request) {
	guid, err := uuid.Parse(r.PathValue("guid"))
	if err != nil {
		http.Error(w, ErrInvalidGUID.Error(), http.StatusBadRequest)
		return
	}

	var (
		payload []byte
		found   bool
	)
	s.world.Do(func() {
		c, ok := s.world.Creature(guid)
		if !ok || c.VehicleKit() == nil {
			return
		}
		found = true
		if m, ok := c.AI().(json.Marshaler); ok {
			payload, err = m.MarshalJSON()
		}
	})

	switch {
	case !found:
		http.NotFound(w, r)
	case err != nil:
		s.logger.Error("Encode behavior state failed", log.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case payload == nil:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, world.ErrUnknownUnit), errors.Is(err, world.ErrNotAVehicle):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		s.logger.Error("Request failed", log.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Write response failed", log.Error(err))
	}
}

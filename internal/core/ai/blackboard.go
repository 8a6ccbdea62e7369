package ai

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/zeusync/vehicle/internal/core/models"
)

const (
	// KeyPassengers holds the number of seated passengers.
	KeyPassengers = "passengers"
	// KeyLastBoarded holds the GUID of the most recent boarder.
	KeyLastBoarded = "last_boarded"
)

// SeatKey is the blackboard key holding the occupant of a seat.
func SeatKey(seat int8) string {
	return "seat." + strconv.Itoa(int(seat))
}

// Blackboard is the shared memory of a vehicle behavior. Reactions read what
// the behavior writes here.
type Blackboard struct {
	mu      sync.RWMutex
	data    map[string]any
	updated map[string]time.Time
	version int64
	clock   func() time.Time
}

func NewBlackboard(clock func() time.Time) *Blackboard {
	if clock == nil {
		clock = time.Now
	}
	return &Blackboard{
		data:    make(map[string]any),
		updated: make(map[string]time.Time),
		clock:   clock,
	}
}

func (bb *Blackboard) Set(key string, value any) {
	bb.mu.Lock()
	defer bb.mu.Unlock()

	bb.data[key] = value
	bb.updated[key] = bb.clock()
	bb.version++
}

func (bb *Blackboard) Get(key string) (any, bool) {
	bb.mu.RLock()
	defer bb.mu.RUnlock()

	value, exists := bb.data[key]
	return value, exists
}

func (bb *Blackboard) GetGUID(key string) (models.GUID, bool) {
	value, exists := bb.Get(key)
	if !exists {
		return models.EmptyGUID, false
	}
	guid, ok := value.(models.GUID)
	return guid, ok
}

func (bb *Blackboard) GetInt(key string) (int, bool) {
	value, exists := bb.Get(key)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func (bb *Blackboard) Has(key string) bool {
	bb.mu.RLock()
	defer bb.mu.RUnlock()

	_, exists := bb.data[key]
	return exists
}

func (bb *Blackboard) Delete(key string) {
	bb.mu.Lock()
	defer bb.mu.Unlock()

	delete(bb.data, key)
	delete(bb.updated, key)
	bb.version++
}

// Version increases on every write.
func (bb *Blackboard) Version() int64 {
	bb.mu.RLock()
	defer bb.mu.RUnlock()

	return bb.version
}

func (bb *Blackboard) LastUpdated(key string) (time.Time, bool) {
	bb.mu.RLock()
	defer bb.mu.RUnlock()

	t, exists := bb.updated[key]
	return t, exists
}

// MarshalJSON exports the data and its update times.
func (bb *Blackboard) MarshalJSON() ([]byte, error) {
	bb.mu.RLock()
	defer bb.mu.RUnlock()

	return json.Marshal(struct {
		Data        map[string]any       `json:"data"`
		LastUpdated map[string]time.Time `json:"last_updated"`
		Version     int64                `json:"version"`
	}{
		Data:        bb.data,
		LastUpdated: bb.updated,
		Version:     bb.version,
	})
}

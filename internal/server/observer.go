package server

import (
	"time"

	"github.com/zeusync/vehicle/internal/core/events/bus"
	"github.com/zeusync/vehicle/internal/core/observability/log"
)

// deliveryWatch logs bus deliveries that fail or run long. While it is
// registered the bus also keeps the metrics reported by the health endpoint.
type deliveryWatch struct {
	slow   time.Duration
	logger log.Log
}

func newDeliveryWatch(slow time.Duration, logger log.Log) *deliveryWatch {
	return &deliveryWatch{slow: slow, logger: logger.With(log.String("component", "bus"))}
}

func (d *deliveryWatch) OnPublish(string, string, bus.Event) {}

func (d *deliveryWatch) OnDelivered(topic, eventType string, handlers int, err error, durationMicros int64) {
	if err != nil {
		d.logger.Warn("Notification delivery failed",
			log.String("topic", topic),
			log.String("type", eventType),
			log.Int("handlers", handlers),
			log.Error(err))
	}
	if took := time.Duration(durationMicros) * time.Microsecond; d.slow > 0 && took > d.slow {
		d.logger.Warn("Slow notification delivery",
			log.String("topic", topic),
			log.String("type", eventType),
			log.Int("handlers", handlers),
			log.Duration("took", took))
	}
}

package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// AttendanceConsumer relays attendance changes published by the API process
// into the sync worker. A scan lands in one process; the worker's debouncer
// hears about it here.
type AttendanceConsumer struct {
	reader *kafka.Reader
	logger *zap.Logger
}

func NewAttendanceConsumer(brokers []string, groupID string, logger *zap.Logger) *AttendanceConsumer {
	return &AttendanceConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    AttendanceTopic,
			MinBytes: 1,
			MaxBytes: 10 << 20,
		}),
		logger: logger.Named("events.consumer"),
	}
}

// Run consumes until ctx is cancelled. The topic also carries summary
// rebuilds; anything that is not an attendance change is dropped.
func (c *AttendanceConsumer) Run(ctx context.Context, handle func(AttendanceChangedEvent)) {
	defer c.reader.Close()

	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("read message failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		evt, ok := decodeAttendanceChanged(m.Value)
		if !ok {
			continue
		}
		handle(evt)
	}
}

func decodeAttendanceChanged(payload []byte) (AttendanceChangedEvent, bool) {
	var evt AttendanceChangedEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return AttendanceChangedEvent{}, false
	}
	if evt.EventType != TypeAttendanceChanged || evt.EmployeeID == "" || evt.Date == "" {
		return AttendanceChangedEvent{}, false
	}
	return evt, true
}

package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// Publisher is the outbound notification boundary. The engine emits typed
// events here and stays unaware of the transport relaying them to the UI.
type Publisher interface {
	PublishAttendanceChanged(ctx context.Context, event AttendanceChangedEvent) error
	PublishSummaryRebuilt(ctx context.Context, event SummaryRebuiltEvent) error
	PublishSyncError(ctx context.Context, event SyncErrorEvent) error
	PublishSyncCycleCompleted(ctx context.Context, event SyncCycleCompletedEvent) error
}

type noopPublisher struct{}

func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) PublishAttendanceChanged(context.Context, AttendanceChangedEvent) error {
	return nil
}
func (noopPublisher) PublishSummaryRebuilt(context.Context, SummaryRebuiltEvent) error { return nil }
func (noopPublisher) PublishSyncError(context.Context, SyncErrorEvent) error           { return nil }
func (noopPublisher) PublishSyncCycleCompleted(context.Context, SyncCycleCompletedEvent) error {
	return nil
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) Publisher {
	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) PublishAttendanceChanged(ctx context.Context, event AttendanceChangedEvent) error {
	event.EventType = TypeAttendanceChanged
	return p.write(ctx, AttendanceTopic, event.EmployeeID, event)
}

func (p *kafkaPublisher) PublishSummaryRebuilt(ctx context.Context, event SummaryRebuiltEvent) error {
	event.EventType = TypeSummaryRebuilt
	return p.write(ctx, AttendanceTopic, event.EmployeeID, event)
}

func (p *kafkaPublisher) PublishSyncError(ctx context.Context, event SyncErrorEvent) error {
	event.EventType = TypeSyncError
	return p.write(ctx, SyncTopic, event.Stage, event)
}

func (p *kafkaPublisher) PublishSyncCycleCompleted(ctx context.Context, event SyncCycleCompletedEvent) error {
	event.EventType = TypeSyncCycleCompleted
	return p.write(ctx, SyncTopic, event.Cursor, event)
}

func (p *kafkaPublisher) write(ctx context.Context, topic, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
}

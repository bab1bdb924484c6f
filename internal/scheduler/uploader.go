package scheduler

import (
	"context"
	"errors"
	"time"

	"jjc-attendance/internal/clockevent"
	"jjc-attendance/internal/remote"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// PushGateway is the slice of the remote client the uploader needs.
type PushGateway interface {
	PushRecord(ctx context.Context, record remote.Record) (*remote.Record, error)
}

// Uploader drains a bounded queue of local event ids and pushes each row to
// the server, paced so a backlog of offline scans does not flood it. A failed
// push requeues the id; the row stays dirty either way, so nothing is lost
// even when the queue overflows.
type Uploader struct {
	events  clockevent.Repository
	gateway PushGateway
	limiter *rate.Limiter
	queue   chan string
	logger  *zap.Logger
}

func NewUploader(events clockevent.Repository, gateway PushGateway, queueSize int, delay time.Duration, logger *zap.Logger) *Uploader {
	return &Uploader{
		events:  events,
		gateway: gateway,
		limiter: rate.NewLimiter(rate.Every(delay), 1),
		queue:   make(chan string, queueSize),
		logger:  logger.Named("uploader"),
	}
}

// Enqueue offers an event id to the queue without blocking. Returns false
// when the queue is full; the row remains dirty and is swept up later.
func (u *Uploader) Enqueue(id string) bool {
	select {
	case u.queue <- id:
		return true
	default:
		return false
	}
}

// EnqueueDirty sweeps every unsynced row into the queue, bounded by the queue
// capacity. Called at startup and after each debounce flush.
func (u *Uploader) EnqueueDirty(ctx context.Context) (int, error) {
	rows, err := u.events.FindDirty(ctx, cap(u.queue))
	if err != nil {
		return 0, err
	}
	queued := 0
	for _, e := range rows {
		if u.Enqueue(e.ID) {
			queued++
		}
	}
	return queued, nil
}

// Run drains the queue until ctx is cancelled.
func (u *Uploader) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-u.queue:
			if err := u.limiter.Wait(ctx); err != nil {
				return
			}
			if err := u.push(ctx, id); err != nil {
				u.logger.Warn("push failed, requeued", zap.String("event_id", id), zap.Error(err))
				u.Enqueue(id)
			}
		}
	}
}

func (u *Uploader) push(ctx context.Context, id string) error {
	e, err := u.events.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Deleted since it was queued.
		return nil
	}
	if err != nil {
		return err
	}
	if e.SyncState == clockevent.SyncSynced {
		return nil
	}

	record := remote.Record{
		EmployeeID:    e.EmployeeID,
		ClockType:     e.ClockType,
		ClockTime:     e.ClockTime,
		Date:          e.Date,
		RegularHours:  e.RegularHours,
		OvertimeHours: e.OvertimeHours,
		IsLate:        e.IsLate,
	}
	if e.ServerID != nil {
		record.ID = *e.ServerID
	}

	saved, err := u.gateway.PushRecord(ctx, record)
	if err != nil {
		return err
	}

	e.ServerID = &saved.ID
	e.SyncState = clockevent.SyncSynced
	if err := u.events.Save(ctx, e); err != nil {
		return err
	}

	u.logger.Debug("pushed event",
		zap.String("event_id", e.ID),
		zap.Int64("server_id", saved.ID),
	)
	return nil
}

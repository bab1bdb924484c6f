package scheduler

import (
	"context"
	"errors"
	"time"

	"jjc-attendance/internal/clockevent"
	"jjc-attendance/internal/events"
	"jjc-attendance/internal/reconcile"
	"jjc-attendance/internal/shared/apperror"
	"jjc-attendance/internal/validation"

	"go.uber.org/zap"
)

const (
	initialBackoff = time.Second
	maxBackoff     = time.Minute
)

// CycleRunner runs one full sync pass. Satisfied by reconcile.Engine.
type CycleRunner interface {
	Trigger(ctx context.Context) (*reconcile.CycleResult, error)
}

// DayValidator recomputes one employee-day. Satisfied by
// validation.Validator.
type DayValidator interface {
	ValidateDay(ctx context.Context, key clockevent.DayKey) (validation.Report, error)
}

type Options struct {
	Interval      time.Duration
	MaxAttempts   int
	DebounceQuiet time.Duration
}

// Scheduler owns the background rhythm of the engine: a periodic sync cycle,
// debounced revalidation after scan bursts, and the paced upload queue. It is
// the ChangeListener the scan service notifies.
type Scheduler struct {
	engine    CycleRunner
	validator DayValidator
	uploader  *Uploader
	debouncer *Debouncer
	publisher events.Publisher
	logger    *zap.Logger
	clock     Clock
	opts      Options

	trigger chan struct{}
}

func New(
	engine CycleRunner,
	validator DayValidator,
	uploader *Uploader,
	publisher events.Publisher,
	clock Clock,
	opts Options,
	logger *zap.Logger,
) *Scheduler {
	s := &Scheduler{
		engine:    engine,
		validator: validator,
		uploader:  uploader,
		publisher: publisher,
		logger:    logger.Named("scheduler"),
		clock:     clock,
		opts:      opts,
		trigger:   make(chan struct{}, 1),
	}
	s.debouncer = NewDebouncer(clock, opts.DebounceQuiet, s.flush)
	return s
}

// AttendanceChanged implements clockevent.ChangeListener. Each scan lands
// here; the debouncer decides when the burst has gone quiet.
func (s *Scheduler) AttendanceChanged(key clockevent.DayKey) {
	s.debouncer.Add(key)
}

// Kick requests a sync cycle outside the regular interval. Collapses with an
// already pending request.
func (s *Scheduler) Kick() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// flush revalidates every employee-day touched during the burst, queues the
// resulting dirty rows for upload, and nudges a cycle forward.
func (s *Scheduler) flush(keys []clockevent.DayKey) {
	ctx := context.Background()
	for _, key := range keys {
		if _, err := s.validator.ValidateDay(ctx, key); err != nil {
			s.logger.Error("revalidation failed",
				zap.String("employee_id", key.EmployeeID),
				zap.String("date", key.Date),
				zap.Error(err),
			)
		}
	}
	if queued, err := s.uploader.EnqueueDirty(ctx); err != nil {
		s.logger.Error("dirty sweep failed", zap.Error(err))
	} else if queued > 0 {
		s.logger.Info("queued dirty rows", zap.Int("count", queued))
	}
	s.Kick()
}

// Start launches the upload drain and the cycle loop. Both stop when ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.uploader.Run(ctx)
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	// Anything left over from a previous process goes out first.
	if queued, err := s.uploader.EnqueueDirty(ctx); err != nil {
		s.logger.Error("startup dirty sweep failed", zap.Error(err))
	} else if queued > 0 {
		s.logger.Info("queued leftover rows", zap.Int("count", queued))
	}

	wait := s.opts.Interval
	backoff := initialBackoff
	attempts := 0

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(wait):
		case <-s.trigger:
		}

		_, err := s.engine.Trigger(ctx)
		if err == nil {
			attempts = 0
			backoff = initialBackoff
			wait = s.opts.Interval
			// Rows scanned in the API process since the last cycle go out now.
			if queued, qerr := s.uploader.EnqueueDirty(ctx); qerr != nil {
				s.logger.Error("dirty sweep failed", zap.Error(qerr))
			} else if queued > 0 {
				s.logger.Info("queued dirty rows", zap.Int("count", queued))
			}
			continue
		}
		if errors.Is(err, apperror.ErrSyncInFlight) {
			wait = s.opts.Interval
			continue
		}

		attempts++
		if attempts >= s.opts.MaxAttempts {
			s.logger.Error("sync failed repeatedly, polling stopped",
				zap.Int("attempts", attempts),
				zap.Error(err),
			)
			_ = s.publisher.PublishSyncError(ctx, events.SyncErrorEvent{
				Stage:      "scheduler",
				Message:    "max sync attempts reached: " + err.Error(),
				Attempts:   attempts,
				OccurredAt: time.Now(),
			})
			return
		}

		wait = backoff
		s.logger.Warn("sync failed, backing off",
			zap.Int("attempt", attempts),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

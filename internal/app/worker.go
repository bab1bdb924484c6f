package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jjc-attendance/internal/bootstrap"
	"jjc-attendance/internal/clockevent"
	"jjc-attendance/internal/config"
	"jjc-attendance/internal/events"
	"jjc-attendance/internal/reconcile"
	"jjc-attendance/internal/remote"
	"jjc-attendance/internal/scheduler"
	"jjc-attendance/internal/summary"
	"jjc-attendance/internal/validation"

	"go.uber.org/zap"
)

// RunWorker runs the sync side of the engine: periodic cycles against the
// server, debounced revalidation, and the paced upload queue. It shares the
// sqlite file with the API process; WAL keeps the two from blocking each
// other.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	db, err := openStore(cfg)
	if err != nil {
		return err
	}

	publisher := newPublisher(cfg)

	eventsRepo := clockevent.NewRepository(db)
	summariesRepo := summary.NewRepository(db)
	builder := summary.NewBuilder(eventsRepo, summariesRepo, logger)
	validator := validation.NewValidator(db, eventsRepo, builder, publisher, logger)
	client := remote.NewClient(cfg.RemoteURL, cfg.RemoteToken, cfg.RemoteTimeout)
	engine := reconcile.NewEngine(db, eventsRepo, summariesRepo, validator, client, publisher, logger, cfg.FetchLimit)
	uploader := scheduler.NewUploader(eventsRepo, client, cfg.UploadQueueSize, cfg.UploadDelay, logger)

	sched := scheduler.New(engine, validator, uploader, publisher, scheduler.SystemClock(), scheduler.Options{
		Interval:      cfg.SyncInterval,
		MaxAttempts:   cfg.SyncMaxAttempts,
		DebounceQuiet: cfg.DebounceQuiet,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched.Start(ctx)

	// Scans land in the API process; its change events reach the debouncer
	// through the broker. Without one, the periodic cycle's dirty sweep still
	// picks everything up, just without burst coalescing.
	if len(cfg.KafkaBrokers) > 0 {
		consumer := events.NewAttendanceConsumer(cfg.KafkaBrokers, "jjc-attendance-worker", logger)
		go consumer.Run(ctx, func(evt events.AttendanceChangedEvent) {
			sched.AttendanceChanged(clockevent.DayKey{EmployeeID: evt.EmployeeID, Date: evt.Date})
		})
	}

	logger.Info("sync worker running",
		zap.String("remote", cfg.RemoteURL),
		zap.Duration("interval", cfg.SyncInterval),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	bootstrap.NewZapAuditLogger().Log(context.Background(), bootstrap.AuditLog{
		Action:  "WORKER_SHUTDOWN",
		Message: "Sync worker is shutting down",
		Meta:    map[string]any{"signal": sig.String()},
	})

	cancel()
	// Give in-flight cycle work a moment to observe the cancellation.
	time.Sleep(200 * time.Millisecond)
	return nil
}

package reconcile

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"jjc-attendance/internal/clockevent"
	"jjc-attendance/internal/events"
	"jjc-attendance/internal/remote"
	"jjc-attendance/internal/shared/apperror"
	"jjc-attendance/internal/summary"
	"jjc-attendance/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Stages a cycle moves through, reported on failure so the operator knows
// where it stopped.
const (
	StageInitializing  = "initializing"
	StageFetching      = "fetching"
	StageApplying      = "applying"
	StageValidating    = "validating"
	StageUploading     = "uploading"
	StageAcknowledging = "acknowledging"
)

// RemoteGateway is the slice of the remote client the engine needs.
type RemoteGateway interface {
	FetchEdits(ctx context.Context, since string, limit int) (*remote.EditBatch, error)
	FetchRange(ctx context.Context, startDate, endDate string) ([]remote.Record, error)
	MarkSynced(ctx context.Context, editedIDs, deletedIDs []int64) error
	UploadSummaries(ctx context.Context, summaries []remote.SummaryRecord) error
}

type CycleResult struct {
	Applied    int          `json:"applied"`
	Deleted    int          `json:"deleted"`
	Skipped    int          `json:"skipped"`
	Corrected  int          `json:"corrected"`
	Rebuilt    int          `json:"rebuilt"`
	Uploaded   int          `json:"uploaded"`
	Cursor     string       `json:"cursor"`
	DurationMS int64        `json:"duration_ms"`
	Errors     []ApplyError `json:"errors,omitempty"`
}

// Engine drives one pull-apply-validate-upload-acknowledge pass against the
// authoritative server. Cycles never overlap: a second trigger while one runs
// either joins the running cycle or is rejected.
type Engine struct {
	db          *gorm.DB
	events      clockevent.Repository
	summaries   summary.Repository
	applier     *Applier
	validator   *validation.Validator
	checkpoints *CheckpointStore
	gateway     RemoteGateway
	publisher   events.Publisher
	logger      *zap.Logger
	fetchLimit  int

	inFlight atomic.Bool
	group    singleflight.Group

	mu          sync.Mutex
	lastCompare *ComparisonResult
}

func NewEngine(
	db *gorm.DB,
	eventsRepo clockevent.Repository,
	summaries summary.Repository,
	validator *validation.Validator,
	gateway RemoteGateway,
	publisher events.Publisher,
	logger *zap.Logger,
	fetchLimit int,
) *Engine {
	return &Engine{
		db:          db,
		events:      eventsRepo,
		summaries:   summaries,
		applier:     NewApplier(db, eventsRepo, logger),
		validator:   validator,
		checkpoints: NewCheckpointStore(db),
		gateway:     gateway,
		publisher:   publisher,
		logger:      logger.Named("reconcile"),
		fetchLimit:  fetchLimit,
	}
}

// Trigger runs a cycle, collapsing concurrent triggers onto the one already
// running so every caller gets that cycle's result.
func (e *Engine) Trigger(ctx context.Context) (*CycleResult, error) {
	v, err, _ := e.group.Do("sync-cycle", func() (any, error) {
		return e.runCycle(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*CycleResult), nil
}

// ApplyActions executes an operator-reviewed resolution list from a
// comparison, then revalidates and uploads the affected days. Rejected while
// a sync cycle is running so the two never mutate the store concurrently. No
// cursor moves and nothing is acknowledged; those belong to the cycle.
func (e *Engine) ApplyActions(ctx context.Context, actions []Action) (*CycleResult, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil, apperror.ErrSyncInFlight
	}
	defer e.inFlight.Store(false)

	started := time.Now()

	stats, err := e.applier.ApplyActions(ctx, actions)
	if err != nil {
		return nil, e.fail(ctx, StageApplying, err)
	}

	result := &CycleResult{
		Applied: stats.Applied,
		Deleted: stats.Deleted,
		Skipped: stats.Skipped,
		Errors:  stats.Errors,
	}

	for _, key := range stats.Keys {
		report, err := e.validator.ValidateDay(ctx, key)
		if err != nil {
			return result, e.fail(ctx, StageValidating, err)
		}
		result.Corrected += report.CorrectedRecords
		result.Rebuilt++
	}

	uploaded, err := e.uploadDirtySummaries(ctx)
	if err != nil {
		e.logger.Warn("summary upload failed", zap.Error(err))
		_ = e.publisher.PublishSyncError(ctx, events.SyncErrorEvent{
			Stage:      StageUploading,
			Message:    err.Error(),
			OccurredAt: time.Now(),
		})
	}
	result.Uploaded = uploaded
	result.DurationMS = time.Since(started).Milliseconds()

	e.logger.Info("resolution actions applied",
		zap.Int("applied", result.Applied),
		zap.Int("deleted", result.Deleted),
		zap.Int("skipped", result.Skipped),
		zap.Int("rebuilt", result.Rebuilt),
	)
	return result, nil
}

// Running reports whether a cycle is currently in flight.
func (e *Engine) Running() bool {
	return e.inFlight.Load()
}

func (e *Engine) runCycle(ctx context.Context) (*CycleResult, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil, apperror.ErrSyncInFlight
	}
	defer e.inFlight.Store(false)

	started := time.Now()

	cursor, err := e.checkpoints.Cursor(ctx)
	if err != nil {
		return nil, e.fail(ctx, StageInitializing, err)
	}

	batch, err := e.gateway.FetchEdits(ctx, cursor, e.fetchLimit)
	if err != nil {
		return nil, e.fail(ctx, StageFetching, err)
	}

	stats, err := e.applier.Apply(ctx, batch)
	if err != nil {
		return nil, e.fail(ctx, StageApplying, err)
	}

	result := &CycleResult{
		Applied: stats.Applied,
		Deleted: stats.Deleted,
		Skipped: stats.Skipped,
		Cursor:  cursor,
		Errors:  stats.Errors,
	}

	for _, key := range stats.Keys {
		report, err := e.validator.ValidateDay(ctx, key)
		if err != nil {
			return result, e.fail(ctx, StageValidating, err)
		}
		result.Corrected += report.CorrectedRecords
		result.Rebuilt++
	}

	// Upload is best effort: a failure here is reported but does not block
	// acknowledging the edits already applied. Dirty summaries stay dirty and
	// go out next cycle.
	uploaded, err := e.uploadDirtySummaries(ctx)
	if err != nil {
		e.logger.Warn("summary upload failed", zap.Error(err))
		_ = e.publisher.PublishSyncError(ctx, events.SyncErrorEvent{
			Stage:      StageUploading,
			Message:    err.Error(),
			OccurredAt: time.Now(),
		})
	}
	result.Uploaded = uploaded

	editedIDs := make([]int64, 0, len(batch.Edited))
	for _, r := range batch.Edited {
		editedIDs = append(editedIDs, r.ID)
	}
	if len(editedIDs) > 0 || len(batch.Deleted) > 0 {
		if err := e.gateway.MarkSynced(ctx, editedIDs, batch.Deleted); err != nil {
			return result, e.fail(ctx, StageAcknowledging, err)
		}
	}

	if batch.Timestamp != "" {
		if err := e.checkpoints.SaveCursor(ctx, batch.Timestamp); err != nil {
			return result, e.fail(ctx, StageAcknowledging, err)
		}
		result.Cursor = batch.Timestamp
	}

	result.DurationMS = time.Since(started).Milliseconds()

	e.logger.Info("sync cycle completed",
		zap.Int("applied", result.Applied),
		zap.Int("deleted", result.Deleted),
		zap.Int("corrected", result.Corrected),
		zap.Int("rebuilt", result.Rebuilt),
		zap.Int("uploaded", result.Uploaded),
		zap.String("cursor", result.Cursor),
		zap.Int64("duration_ms", result.DurationMS),
	)
	_ = e.publisher.PublishSyncCycleCompleted(ctx, events.SyncCycleCompletedEvent{
		Applied:    result.Applied,
		Deleted:    result.Deleted,
		Corrected:  result.Corrected,
		Rebuilt:    result.Rebuilt,
		Uploaded:   result.Uploaded,
		Cursor:     result.Cursor,
		OccurredAt: time.Now(),
	})

	return result, nil
}

func (e *Engine) fail(ctx context.Context, stage string, err error) error {
	e.logger.Error("sync cycle failed", zap.String("stage", stage), zap.Error(err))
	_ = e.publisher.PublishSyncError(ctx, events.SyncErrorEvent{
		Stage:      stage,
		Message:    err.Error(),
		OccurredAt: time.Now(),
	})
	return err
}

func (e *Engine) uploadDirtySummaries(ctx context.Context) (int, error) {
	dirty, err := e.summaries.FindDirty(ctx, 0)
	if err != nil {
		return 0, err
	}
	if len(dirty) == 0 {
		return 0, nil
	}

	payload := make([]remote.SummaryRecord, 0, len(dirty))
	for _, s := range dirty {
		payload = append(payload, remote.SummaryRecord{
			EmployeeID:     s.EmployeeID,
			Date:           s.Date,
			MorningHours:   s.MorningHours,
			AfternoonHours: s.AfternoonHours,
			EveningHours:   s.EveningHours,
			OvertimeHours:  s.OvertimeHours,
			RegularTotal:   s.RegularTotal,
			OvertimeTotal:  s.OvertimeTotal,
			Incomplete:     s.Incomplete,
			Late:           s.Late,
		})
	}
	if err := e.gateway.UploadSummaries(ctx, payload); err != nil {
		return 0, err
	}

	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txSummaries := e.summaries.WithTx(tx)
		for i := range dirty {
			dirty[i].SyncState = clockevent.SyncSynced
			if err := txSummaries.Save(ctx, &dirty[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return len(dirty), apperror.TransactionFailure(err)
	}
	return len(dirty), nil
}

// Compare fetches the server's rows for a date range and classifies them
// against local rows without changing anything. The result is cached for
// inspection endpoints.
func (e *Engine) Compare(ctx context.Context, startDate, endDate string) (*ComparisonResult, error) {
	serverRows, err := e.gateway.FetchRange(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	local, err := e.events.FindByRange(ctx, startDate, endDate, "")
	if err != nil {
		return nil, err
	}

	result := Classify(local, serverRows, nil)

	e.mu.Lock()
	e.lastCompare = result
	e.mu.Unlock()

	return result, nil
}

// LastComparison returns the most recent Compare result, or nil.
func (e *Engine) LastComparison() *ComparisonResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastCompare
}

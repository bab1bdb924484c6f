package reconcile

import (
	"context"
	"errors"

	"jjc-attendance/internal/clockevent"
	"jjc-attendance/internal/hours"
	"jjc-attendance/internal/remote"
	"jjc-attendance/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actions taken per server row while applying a batch.
const (
	ActionAddFromServer    = "add_from_server"
	ActionUpdateFromServer = "update_from_server"
	ActionDeleteLocal      = "delete_local"
	ActionKeepLocal        = "keep_local"
)

type ApplyError struct {
	ServerID int64  `json:"server_id"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

// Action is one operator decision from a reviewed comparison. Add and update
// carry the server row to write; delete names the server id to drop; keep is
// an explicit no-op recording that the local row wins.
type Action struct {
	Action   string         `json:"action" binding:"required"`
	ServerID int64          `json:"server_id"`
	Record   *remote.Record `json:"record"`
}

type ApplyStats struct {
	Applied int
	Deleted int
	Skipped int
	Keys    []clockevent.DayKey
	Errors  []ApplyError
}

// Applier writes a batch of server edits into local storage. The whole batch
// lands in one transaction: either every row is applied or none is. Rows the
// batch cannot interpret are skipped and reported, they never abort the
// transaction.
type Applier struct {
	db     *gorm.DB
	events clockevent.Repository
	logger *zap.Logger
}

func NewApplier(db *gorm.DB, events clockevent.Repository, logger *zap.Logger) *Applier {
	return &Applier{db: db, events: events, logger: logger.Named("reconcile.apply")}
}

func (a *Applier) Apply(ctx context.Context, batch *remote.EditBatch) (*ApplyStats, error) {
	stats := &ApplyStats{}
	touched := map[clockevent.DayKey]bool{}

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txEvents := a.events.WithTx(tx)

		for _, r := range batch.Edited {
			if err := a.upsert(ctx, txEvents, r, stats, touched); err != nil {
				return err
			}
		}
		for _, id := range batch.Deleted {
			if err := a.deleteByServerID(ctx, txEvents, id, stats, touched); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperror.TransactionFailure(err)
	}

	for k := range touched {
		stats.Keys = append(stats.Keys, k)
	}

	if stats.Applied > 0 || stats.Deleted > 0 {
		a.logger.Info("applied server edits",
			zap.Int("applied", stats.Applied),
			zap.Int("deleted", stats.Deleted),
			zap.Int("skipped", stats.Skipped),
			zap.Int("days_touched", len(stats.Keys)),
		)
	}
	return stats, nil
}

// ApplyActions executes an operator-reviewed resolution list in order, inside
// one transaction. Malformed or unrecognized actions are skipped and reported,
// they never abort the batch.
func (a *Applier) ApplyActions(ctx context.Context, actions []Action) (*ApplyStats, error) {
	stats := &ApplyStats{}
	touched := map[clockevent.DayKey]bool{}

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txEvents := a.events.WithTx(tx)

		for _, act := range actions {
			switch act.Action {
			case ActionAddFromServer, ActionUpdateFromServer:
				if act.Record == nil {
					stats.Skipped++
					stats.Errors = append(stats.Errors, ApplyError{
						Action: act.Action,
						Reason: "missing record payload",
					})
					continue
				}
				if err := a.upsert(ctx, txEvents, *act.Record, stats, touched); err != nil {
					return err
				}

			case ActionDeleteLocal:
				id := act.ServerID
				if id == 0 && act.Record != nil {
					id = act.Record.ID
				}
				if id == 0 {
					stats.Skipped++
					stats.Errors = append(stats.Errors, ApplyError{
						Action: act.Action,
						Reason: "missing server id",
					})
					continue
				}
				if err := a.deleteByServerID(ctx, txEvents, id, stats, touched); err != nil {
					return err
				}

			case ActionKeepLocal:
				stats.Skipped++

			default:
				stats.Skipped++
				stats.Errors = append(stats.Errors, ApplyError{
					ServerID: act.ServerID,
					Action:   act.Action,
					Reason:   "unknown action",
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperror.TransactionFailure(err)
	}

	for k := range touched {
		stats.Keys = append(stats.Keys, k)
	}

	if stats.Applied > 0 || stats.Deleted > 0 {
		a.logger.Info("applied resolution actions",
			zap.Int("applied", stats.Applied),
			zap.Int("deleted", stats.Deleted),
			zap.Int("skipped", stats.Skipped),
			zap.Int("days_touched", len(stats.Keys)),
		)
	}
	return stats, nil
}

func (a *Applier) upsert(ctx context.Context, txEvents clockevent.Repository, r remote.Record, stats *ApplyStats, touched map[clockevent.DayKey]bool) error {
	if !hours.KnownType(r.ClockType) {
		stats.Skipped++
		stats.Errors = append(stats.Errors, ApplyError{
			ServerID: r.ID,
			Action:   ActionKeepLocal,
			Reason:   "unknown clock type " + r.ClockType,
		})
		return nil
	}

	existing, err := txEvents.FindByServerID(ctx, r.ID)
	switch {
	case err == nil:
		// An edit can move the row to another day; both the old and the new
		// day need a rebuild.
		touched[existing.Key()] = true
		existing.EmployeeID = r.EmployeeID
		existing.ClockType = r.ClockType
		existing.ClockTime = r.ClockTime
		existing.Date = r.Date
		existing.RegularHours = r.RegularHours
		existing.OvertimeHours = r.OvertimeHours
		existing.IsLate = r.IsLate
		existing.SyncState = clockevent.SyncSynced
		if err := txEvents.Save(ctx, existing); err != nil {
			return err
		}
		touched[existing.Key()] = true
		stats.Applied++

	case errors.Is(err, gorm.ErrRecordNotFound):
		serverID := r.ID
		row := clockevent.ClockEvent{
			ID:            uuid.New().String(),
			ServerID:      &serverID,
			EmployeeID:    r.EmployeeID,
			ClockType:     r.ClockType,
			ClockTime:     r.ClockTime,
			Date:          r.Date,
			RegularHours:  r.RegularHours,
			OvertimeHours: r.OvertimeHours,
			IsLate:        r.IsLate,
			SyncState:     clockevent.SyncSynced,
		}
		if err := txEvents.Create(ctx, &row); err != nil {
			return err
		}
		touched[row.Key()] = true
		stats.Applied++

	default:
		return err
	}
	return nil
}

func (a *Applier) deleteByServerID(ctx context.Context, txEvents clockevent.Repository, id int64, stats *ApplyStats, touched map[clockevent.DayKey]bool) error {
	existing, err := txEvents.FindByServerID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := txEvents.Delete(ctx, existing.ID); err != nil {
		return err
	}
	touched[existing.Key()] = true
	stats.Deleted++
	return nil
}

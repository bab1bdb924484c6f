package validation

import (
	"context"
	"math"
	"sort"
	"time"

	"jjc-attendance/internal/clockevent"
	"jjc-attendance/internal/events"
	"jjc-attendance/internal/hours"
	"jjc-attendance/internal/shared/apperror"
	"jjc-attendance/internal/summary"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Stored hours within this distance of the recomputed value are accepted.
const hoursTolerance = 0.01

type Params struct {
	StartDate      string
	EndDate        string
	EmployeeID     string
	AutoCorrect    bool
	RebuildSummary bool
}

type Correction struct {
	EventID          string  `json:"event_id"`
	EmployeeID       string  `json:"employee_id"`
	Date             string  `json:"date"`
	ClockType        string  `json:"clock_type"`
	StoredRegular    float64 `json:"stored_regular"`
	StoredOvertime   float64 `json:"stored_overtime"`
	ExpectedRegular  float64 `json:"expected_regular"`
	ExpectedOvertime float64 `json:"expected_overtime"`
	Applied          bool    `json:"applied"`
}

type RecordError struct {
	EventID    string `json:"event_id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	ClockType  string `json:"clock_type"`
	Reason     string `json:"reason"`
}

type Report struct {
	TotalRecords     int           `json:"total_records"`
	ValidRecords     int           `json:"valid_records"`
	CorrectedRecords int           `json:"corrected_records"`
	ErrorRecords     int           `json:"error_records"`
	Corrections      []Correction  `json:"corrections"`
	Errors           []RecordError `json:"errors"`
}

func (r *Report) merge(other Report) {
	r.TotalRecords += other.TotalRecords
	r.ValidRecords += other.ValidRecords
	r.CorrectedRecords += other.CorrectedRecords
	r.ErrorRecords += other.ErrorRecords
	r.Corrections = append(r.Corrections, other.Corrections...)
	r.Errors = append(r.Errors, other.Errors...)
}

// Validator re-derives expected hours for stored clock-outs and corrects
// drift. Each employee-day is recomputed and its summary rebuilt inside one
// transaction.
type Validator struct {
	db        *gorm.DB
	events    clockevent.Repository
	builder   *summary.Builder
	publisher events.Publisher
	logger    *zap.Logger
}

func NewValidator(db *gorm.DB, eventsRepo clockevent.Repository, builder *summary.Builder, publisher events.Publisher, logger *zap.Logger) *Validator {
	return &Validator{
		db:        db,
		events:    eventsRepo,
		builder:   builder,
		publisher: publisher,
		logger:    logger.Named("validation"),
	}
}

func (v *Validator) Validate(ctx context.Context, p Params) (Report, error) {
	rows, err := v.events.FindByRange(ctx, p.StartDate, p.EndDate, p.EmployeeID)
	if err != nil {
		return Report{}, err
	}

	grouped := map[clockevent.DayKey][]clockevent.ClockEvent{}
	var keys []clockevent.DayKey
	for _, e := range rows {
		k := e.Key()
		if _, seen := grouped[k]; !seen {
			keys = append(keys, k)
		}
		grouped[k] = append(grouped[k], e)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].EmployeeID != keys[j].EmployeeID {
			return keys[i].EmployeeID < keys[j].EmployeeID
		}
		return keys[i].Date < keys[j].Date
	})

	var report Report
	for _, k := range keys {
		dayReport, err := v.validateDay(ctx, k, grouped[k], p)
		if err != nil {
			return report, err
		}
		report.merge(dayReport)
	}
	return report, nil
}

// ValidateDay recomputes a single employee-day with auto-correct and summary
// rebuild on; reconciliation and the scheduler run touched keys through here.
func (v *Validator) ValidateDay(ctx context.Context, key clockevent.DayKey) (Report, error) {
	rows, err := v.events.FindByDay(ctx, key)
	if err != nil {
		return Report{}, err
	}
	return v.validateDay(ctx, key, rows, Params{AutoCorrect: true, RebuildSummary: true})
}

func (v *Validator) validateDay(ctx context.Context, key clockevent.DayKey, rows []clockevent.ClockEvent, p Params) (Report, error) {
	report := Report{TotalRecords: len(rows)}

	type fix struct {
		event    clockevent.ClockEvent
		regular  float64
		overtime float64
	}
	var fixes []fix

	for i, e := range rows {
		if hours.IsClockIn(e.ClockType) {
			// Only clock-outs carry hours. An in row that arrived with hours
			// would inflate the summary, so it is zeroed like any other drift.
			if math.Abs(e.RegularHours) <= hoursTolerance && math.Abs(e.OvertimeHours) <= hoursTolerance {
				report.ValidRecords++
				continue
			}
			report.CorrectedRecords++
			report.Corrections = append(report.Corrections, Correction{
				EventID:        e.ID,
				EmployeeID:     e.EmployeeID,
				Date:           e.Date,
				ClockType:      e.ClockType,
				StoredRegular:  e.RegularHours,
				StoredOvertime: e.OvertimeHours,
				Applied:        p.AutoCorrect,
			})
			if p.AutoCorrect {
				fixes = append(fixes, fix{event: e})
			}
			continue
		}
		if !hours.IsClockOut(e.ClockType) {
			report.ValidRecords++
			continue
		}

		in := clockevent.OpenClockIn(rows, i)
		if in == nil {
			// Ambiguous: without the clock-in the expected hours cannot be
			// derived, so this is reported and skipped, never corrected.
			report.ErrorRecords++
			report.Errors = append(report.Errors, RecordError{
				EventID:    e.ID,
				EmployeeID: e.EmployeeID,
				Date:       e.Date,
				ClockType:  e.ClockType,
				Reason:     apperror.CodeMissingClockIn,
			})
			continue
		}

		expectedReg, expectedOT := hours.Compute(e.ClockType, e.ClockTime, in.ClockTime)
		if math.Abs(expectedReg-e.RegularHours) <= hoursTolerance &&
			math.Abs(expectedOT-e.OvertimeHours) <= hoursTolerance {
			report.ValidRecords++
			continue
		}

		report.CorrectedRecords++
		report.Corrections = append(report.Corrections, Correction{
			EventID:          e.ID,
			EmployeeID:       e.EmployeeID,
			Date:             e.Date,
			ClockType:        e.ClockType,
			StoredRegular:    e.RegularHours,
			StoredOvertime:   e.OvertimeHours,
			ExpectedRegular:  expectedReg,
			ExpectedOvertime: expectedOT,
			Applied:          p.AutoCorrect,
		})
		if p.AutoCorrect {
			fixes = append(fixes, fix{event: e, regular: expectedReg, overtime: expectedOT})
		}
	}

	// A rebuild with zero corrections is still meaningful: callers run days
	// through here after server edits land, and those days need fresh
	// summaries whether or not any stored hours drifted.
	if len(fixes) == 0 && !p.RebuildSummary {
		return report, nil
	}

	var rebuilt *summary.DailySummary
	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txEvents := v.events.WithTx(tx)
		for _, f := range fixes {
			e := f.event
			e.RegularHours = f.regular
			e.OvertimeHours = f.overtime
			e.SyncState = clockevent.SyncDirty
			if err := txEvents.Save(ctx, &e); err != nil {
				return err
			}
		}
		if !p.RebuildSummary {
			return nil
		}
		var err error
		rebuilt, err = v.builder.RebuildTx(ctx, tx, key)
		return err
	})
	if err != nil {
		return report, apperror.TransactionFailure(err)
	}

	if len(fixes) > 0 {
		v.logger.Info("corrected stored hours",
			zap.String("employee_id", key.EmployeeID),
			zap.String("date", key.Date),
			zap.Int("corrections", len(fixes)),
		)
		_ = v.publisher.PublishAttendanceChanged(ctx, events.AttendanceChangedEvent{
			EmployeeID: key.EmployeeID,
			Date:       key.Date,
			Source:     "validator",
			OccurredAt: time.Now(),
		})
	}
	if rebuilt != nil {
		_ = v.publisher.PublishSummaryRebuilt(ctx, events.SummaryRebuiltEvent{
			EmployeeID:    rebuilt.EmployeeID,
			Date:          rebuilt.Date,
			RegularHours:  rebuilt.RegularTotal,
			OvertimeHours: rebuilt.OvertimeTotal,
			OccurredAt:    time.Now(),
		})
	}

	return report, nil
}

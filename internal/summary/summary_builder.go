package summary

import (
	"context"
	"math"

	"jjc-attendance/internal/clockevent"
	"jjc-attendance/internal/hours"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Builder rebuilds the aggregate row for one employee-day from its clock
// events. The rebuild is always delete-then-recreate and runs inside the
// caller's transaction, so a summary is never observable half-updated.
type Builder struct {
	events    clockevent.Repository
	summaries Repository
	logger    *zap.Logger
}

func NewBuilder(events clockevent.Repository, summaries Repository, logger *zap.Logger) *Builder {
	return &Builder{
		events:    events,
		summaries: summaries,
		logger:    logger.Named("summary"),
	}
}

// RebuildTx rebuilds the summary for key inside tx. A day left with no events
// keeps no summary row; the returned summary is nil in that case.
func (b *Builder) RebuildTx(ctx context.Context, tx *gorm.DB, key clockevent.DayKey) (*DailySummary, error) {
	eventsRepo := b.events.WithTx(tx)
	summariesRepo := b.summaries.WithTx(tx)

	if err := summariesRepo.DeleteByKey(ctx, key); err != nil {
		return nil, err
	}

	rows, err := eventsRepo.FindByDay(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	s := aggregate(key, rows)
	if err := summariesRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func aggregate(key clockevent.DayKey, rows []clockevent.ClockEvent) *DailySummary {
	s := &DailySummary{
		ID:         uuid.New().String(),
		EmployeeID: key.EmployeeID,
		Date:       key.Date,
		SyncState:  clockevent.SyncNeverSynced,
	}

	open := map[string]bool{}
	for _, e := range rows {
		if hours.IsClockIn(e.ClockType) {
			open[hours.SessionOf(e.ClockType)] = true
		}
		if hours.IsClockOut(e.ClockType) {
			open[hours.SessionOf(e.ClockType)] = false
		}
		if e.IsLate {
			s.Late = true
		}

		total := e.RegularHours + e.OvertimeHours
		switch hours.SessionOf(e.ClockType) {
		case "morning":
			s.MorningHours += total
		case "afternoon":
			s.AfternoonHours += total
		case "evening":
			s.EveningHours += total
		case "overtime":
			s.OvertimeHours += total
		}
		s.RegularTotal += e.RegularHours
		s.OvertimeTotal += e.OvertimeHours
	}

	for _, pending := range open {
		if pending {
			s.Incomplete = true
		}
	}

	s.MorningHours = round2(s.MorningHours)
	s.AfternoonHours = round2(s.AfternoonHours)
	s.EveningHours = round2(s.EveningHours)
	s.OvertimeHours = round2(s.OvertimeHours)
	s.RegularTotal = round2(s.RegularTotal)
	s.OvertimeTotal = round2(s.OvertimeTotal)
	s.HasOvertime = s.OvertimeTotal > 0

	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

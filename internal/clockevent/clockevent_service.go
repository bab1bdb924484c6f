package clockevent

import (
	"context"
	"errors"
	"net/http"
	"time"

	"jjc-attendance/internal/employee"
	"jjc-attendance/internal/events"
	"jjc-attendance/internal/hours"
	"jjc-attendance/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUnknownBadge = apperror.New(apperror.CodeNotFound, "Unknown badge", http.StatusNotFound)
	ErrInactive     = apperror.New(apperror.CodeInvalidState, "Employee is inactive", http.StatusConflict)
)

// ChangeListener is notified after a scan lands so the scheduler can coalesce
// validation and queue the upload. The API process runs with a no-op listener.
type ChangeListener interface {
	AttendanceChanged(key DayKey)
}

type NopListener struct{}

func (NopListener) AttendanceChanged(DayKey) {}

type Service interface {
	RecordScan(ctx context.Context, req ScanRequest) (ScanResponse, error)
	GetRange(ctx context.Context, startDate, endDate, employeeID string) ([]ClockEventResponse, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	employees employee.Repository
	publisher events.Publisher
	listener  ChangeListener
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(db *gorm.DB, repo Repository, employees employee.Repository, publisher events.Publisher, listener ChangeListener, logger *zap.Logger) Service {
	return NewServiceWithClock(db, repo, employees, publisher, listener, logger, time.Now)
}

func NewServiceWithClock(db *gorm.DB, repo Repository, employees employee.Repository, publisher events.Publisher, listener ChangeListener, logger *zap.Logger, now func() time.Time) Service {
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		publisher: publisher,
		listener:  listener,
		logger:    logger.Named("clockevent"),
		now:       now,
	}
}

func (s *service) RecordScan(ctx context.Context, req ScanRequest) (ScanResponse, error) {
	emp, err := s.employees.FindByBarcode(ctx, req.Barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ScanResponse{}, ErrUnknownBadge
		}
		return ScanResponse{}, err
	}
	if !emp.Active {
		return ScanResponse{}, ErrInactive
	}

	now := s.now()

	lastType := ""
	var lastTime time.Time
	last, err := s.repo.LastForEmployee(ctx, emp.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return ScanResponse{}, err
	}
	if last != nil {
		lastType = last.ClockType
		lastTime = last.ClockTime
	}

	evt := ClockEvent{
		ID:         uuid.New().String(),
		EmployeeID: emp.ID,
		ClockType:  NextClockType(lastType, now, lastTime),
		ClockTime:  now,
		Date:       now.Format(DateLayout),
		SyncState:  SyncNeverSynced,
	}

	if hours.IsClockOut(evt.ClockType) {
		s.applyHours(ctx, &evt, now)
	} else {
		evt.IsLate = hours.LateFor(evt.ClockType, now)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, &evt)
	})
	if err != nil {
		return ScanResponse{}, apperror.TransactionFailure(err)
	}

	_ = s.publisher.PublishAttendanceChanged(ctx, events.AttendanceChangedEvent{
		EmployeeID: evt.EmployeeID,
		Date:       evt.Date,
		ClockType:  evt.ClockType,
		Source:     "scan",
		OccurredAt: now,
	})
	s.listener.AttendanceChanged(evt.Key())

	return ScanResponse{Event: mapToResponse(evt), EmployeeName: emp.FullName}, nil
}

// applyHours pairs the out with its open clock-in and computes hours. An
// overnight out (before 08:00) may close a session opened the previous day;
// the event then belongs to that day. A missing clock-in is logged and leaves
// the row at zero hours; it never fails the scan.
func (s *service) applyHours(ctx context.Context, evt *ClockEvent, now time.Time) {
	in := s.findOpenIn(ctx, evt, evt.Date)
	if in == nil && now.Hour() < 8 {
		prev := now.AddDate(0, 0, -1).Format(DateLayout)
		in = s.findOpenIn(ctx, evt, prev)
		if in != nil {
			evt.Date = in.Date
		}
	}
	if in == nil {
		s.logger.Warn("clock-out without a matching clock-in",
			zap.String("employee_id", evt.EmployeeID),
			zap.String("clock_type", evt.ClockType),
			zap.String("date", evt.Date),
		)
		return
	}

	evt.RegularHours, evt.OvertimeHours = hours.Compute(evt.ClockType, evt.ClockTime, in.ClockTime)
	evt.IsLate = in.IsLate
}

func (s *service) findOpenIn(ctx context.Context, evt *ClockEvent, date string) *ClockEvent {
	day, err := s.repo.FindByDay(ctx, DayKey{EmployeeID: evt.EmployeeID, Date: date})
	if err != nil {
		s.logger.Warn("load day events failed", zap.Error(err))
		return nil
	}
	probe := append(day, *evt)
	return OpenClockIn(probe, len(probe)-1)
}

func (s *service) GetRange(ctx context.Context, startDate, endDate, employeeID string) ([]ClockEventResponse, error) {
	rows, err := s.repo.FindByRange(ctx, startDate, endDate, employeeID)
	if err != nil {
		return nil, err
	}
	res := make([]ClockEventResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

package clockevent

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, e *ClockEvent) error
	Save(ctx context.Context, e *ClockEvent) error
	Delete(ctx context.Context, id string) error
	DeleteByServerID(ctx context.Context, serverID int64) error
	FindByID(ctx context.Context, id string) (*ClockEvent, error)
	FindByServerID(ctx context.Context, serverID int64) (*ClockEvent, error)
	FindByDay(ctx context.Context, key DayKey) ([]ClockEvent, error)
	FindByRange(ctx context.Context, startDate, endDate, employeeID string) ([]ClockEvent, error)
	FindDirty(ctx context.Context, limit int) ([]ClockEvent, error)
	LastForEmployee(ctx context.Context, employeeID string) (*ClockEvent, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, e *ClockEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) Save(ctx context.Context, e *ClockEvent) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&ClockEvent{}, "id = ?", id).Error
}

func (r *repository) DeleteByServerID(ctx context.Context, serverID int64) error {
	return r.db.WithContext(ctx).Delete(&ClockEvent{}, "server_id = ?", serverID).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*ClockEvent, error) {
	var e ClockEvent
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByServerID(ctx context.Context, serverID int64) (*ClockEvent, error) {
	var e ClockEvent
	err := r.db.WithContext(ctx).First(&e, "server_id = ?", serverID).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByDay(ctx context.Context, key DayKey) ([]ClockEvent, error) {
	var rows []ClockEvent
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", key.EmployeeID).
		Where("attendance_date = ?", key.Date).
		Order("clock_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByRange(ctx context.Context, startDate, endDate, employeeID string) ([]ClockEvent, error) {
	q := r.db.WithContext(ctx).
		Where("attendance_date BETWEEN ? AND ?", startDate, endDate)
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	var rows []ClockEvent
	err := q.Order("employee_id ASC, attendance_date ASC, clock_time ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindDirty(ctx context.Context, limit int) ([]ClockEvent, error) {
	var rows []ClockEvent
	q := r.db.WithContext(ctx).
		Where("sync_state IN ?", []string{SyncNeverSynced, SyncDirty}).
		Order("clock_time ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&rows).Error
	return rows, err
}

func (r *repository) LastForEmployee(ctx context.Context, employeeID string) (*ClockEvent, error) {
	var e ClockEvent
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("clock_time DESC").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

package summary

import (
	"context"

	"jjc-attendance/internal/clockevent"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, s *DailySummary) error
	Save(ctx context.Context, s *DailySummary) error
	DeleteByKey(ctx context.Context, key clockevent.DayKey) error
	FindByKey(ctx context.Context, key clockevent.DayKey) (*DailySummary, error)
	FindByRange(ctx context.Context, startDate, endDate, employeeID string) ([]DailySummary, error)
	FindDirty(ctx context.Context, limit int) ([]DailySummary, error)
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

func (r *repository) Create(ctx context.Context, s *DailySummary) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) Save(ctx context.Context, s *DailySummary) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) DeleteByKey(ctx context.Context, key clockevent.DayKey) error {
	return r.db.WithContext(ctx).
		Delete(&DailySummary{}, "employee_id = ? AND summary_date = ?", key.EmployeeID, key.Date).Error
}

func (r *repository) FindByKey(ctx context.Context, key clockevent.DayKey) (*DailySummary, error) {
	var s DailySummary
	err := r.db.WithContext(ctx).
		First(&s, "employee_id = ? AND summary_date = ?", key.EmployeeID, key.Date).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindByRange(ctx context.Context, startDate, endDate, employeeID string) ([]DailySummary, error) {
	q := r.db.WithContext(ctx).
		Where("summary_date BETWEEN ? AND ?", startDate, endDate)
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	var rows []DailySummary
	err := q.Order("employee_id ASC, summary_date ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindDirty(ctx context.Context, limit int) ([]DailySummary, error) {
	var rows []DailySummary
	q := r.db.WithContext(ctx).
		Where("sync_state IN ?", []string{clockevent.SyncNeverSynced, clockevent.SyncDirty}).
		Order("summary_date ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&rows).Error
	return rows, err
}

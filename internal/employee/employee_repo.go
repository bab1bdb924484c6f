package employee

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, e *Employee) error
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByBarcode(ctx context.Context, barcode string) (*Employee, error)
	FindPage(ctx context.Context, offset, limit int) ([]Employee, error)
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByBarcode(ctx context.Context, barcode string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "barcode = ?", barcode).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindPage(ctx context.Context, offset, limit int) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Order("full_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Employee{}).Count(&n).Error
	return n, err
}

package employee

import "time"

// Employee is the slim reference row the engine needs: enough to resolve a
// badge scan and label summaries. HR lifecycle lives elsewhere.
type Employee struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	Barcode   string    `gorm:"column:barcode;type:varchar(50);not null;uniqueIndex"`
	FullName  string    `gorm:"column:full_name;type:varchar(120);not null"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}

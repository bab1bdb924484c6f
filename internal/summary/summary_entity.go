package summary

import "time"

// DailySummary is the fully derived aggregate for one employee-day. It is
// never patched: whenever a source event changes, the row is deleted and
// rebuilt from scratch.
type DailySummary struct {
	ID             string    `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID     string    `gorm:"column:employee_id;not null;uniqueIndex:idx_daily_summaries_day"`
	Date           string    `gorm:"column:summary_date;type:date;not null;uniqueIndex:idx_daily_summaries_day"`
	MorningHours   float64   `gorm:"column:morning_hours;not null;default:0"`
	AfternoonHours float64   `gorm:"column:afternoon_hours;not null;default:0"`
	EveningHours   float64   `gorm:"column:evening_hours;not null;default:0"`
	OvertimeHours  float64   `gorm:"column:overtime_hours;not null;default:0"`
	RegularTotal   float64   `gorm:"column:regular_total;not null;default:0"`
	OvertimeTotal  float64   `gorm:"column:overtime_total;not null;default:0"`
	Incomplete     bool      `gorm:"column:incomplete;not null;default:false"`
	Late           bool      `gorm:"column:late;not null;default:false"`
	HasOvertime    bool      `gorm:"column:has_overtime;not null;default:false"`
	SyncState      string    `gorm:"column:sync_state;type:varchar(20);not null;default:never_synced"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (DailySummary) TableName() string {
	return "daily_summaries"
}

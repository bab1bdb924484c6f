package clockevent

import (
	"time"
)

// Sync states a local row moves through. A row born from a kiosk scan starts
// never_synced; the validator flips corrected rows to dirty so they get
// re-uploaded; reconciliation marks acknowledged rows synced.
const (
	SyncNeverSynced = "never_synced"
	SyncSynced      = "synced"
	SyncDirty       = "dirty"
)

// ClockEvent is one scan. Only *_out rows carry hours; hours are always >= 0
// and rounded to 2 decimals. Rows are mutated only by the validator (hours and
// sync state) or by reconciliation (full replace or delete).
type ClockEvent struct {
	ID            string    `gorm:"column:id;type:uuid;primaryKey"`
	ServerID      *int64    `gorm:"column:server_id;uniqueIndex"`
	EmployeeID    string    `gorm:"column:employee_id;not null;index:idx_clock_events_day"`
	ClockType     string    `gorm:"column:clock_type;type:varchar(20);not null"`
	ClockTime     time.Time `gorm:"column:clock_time;not null"`
	Date          string    `gorm:"column:attendance_date;type:date;not null;index:idx_clock_events_day"`
	RegularHours  float64   `gorm:"column:regular_hours;not null;default:0"`
	OvertimeHours float64   `gorm:"column:overtime_hours;not null;default:0"`
	IsLate        bool      `gorm:"column:is_late;not null;default:false"`
	SyncState     string    `gorm:"column:sync_state;type:varchar(20);not null;default:never_synced"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (ClockEvent) TableName() string {
	return "clock_events"
}

// DayKey identifies one employee-day, the unit every validation and summary
// rebuild operates on.
type DayKey struct {
	EmployeeID string
	Date       string
}

// DateLayout is the calendar-date format used across rows and the wire.
const DateLayout = "2006-01-02"

// Key returns the employee-day this event belongs to.
func (e ClockEvent) Key() DayKey {
	return DayKey{EmployeeID: e.EmployeeID, Date: e.Date}
}

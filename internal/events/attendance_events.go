package events

import "time"

const (
	AttendanceTopic = "kiosk.attendance.lifecycle.v1"
	SyncTopic       = "kiosk.sync.lifecycle.v1"
)

const (
	TypeAttendanceChanged  = "attendance_changed"
	TypeSummaryRebuilt     = "summary_rebuilt"
	TypeSyncError          = "sync_error"
	TypeSyncCycleCompleted = "sync_cycle_completed"
)

type AttendanceChangedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	ClockType  string    `json:"clock_type"`
	Source     string    `json:"source"` // scan, validator, reconcile
	OccurredAt time.Time `json:"occurred_at"`
}

type SummaryRebuiltEvent struct {
	EventType     string    `json:"event_type"`
	EmployeeID    string    `json:"employee_id"`
	Date          string    `json:"date"`
	RegularHours  float64   `json:"regular_hours"`
	OvertimeHours float64   `json:"overtime_hours"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type SyncErrorEvent struct {
	EventType  string    `json:"event_type"`
	Stage      string    `json:"stage"`
	Message    string    `json:"message"`
	Attempts   int       `json:"attempts"`
	OccurredAt time.Time `json:"occurred_at"`
}

type SyncCycleCompletedEvent struct {
	EventType  string    `json:"event_type"`
	Applied    int       `json:"applied"`
	Deleted    int       `json:"deleted"`
	Corrected  int       `json:"corrected"`
	Rebuilt    int       `json:"rebuilt"`
	Uploaded   int       `json:"uploaded"`
	Cursor     string    `json:"cursor"`
	OccurredAt time.Time `json:"occurred_at"`
}

package remote

import "time"

// Record is the server's representation of one clock event. Server ids are
// the reconciliation key: local rows remember the id of the server row they
// mirror.
type Record struct {
	ID            int64     `json:"id"`
	EmployeeID    string    `json:"employee_id"`
	ClockType     string    `json:"clock_type"`
	ClockTime     time.Time `json:"clock_time"`
	Date          string    `json:"date"`
	RegularHours  float64   `json:"regular_hours"`
	OvertimeHours float64   `json:"overtime_hours"`
	IsLate        bool      `json:"is_late"`
}

// EditBatch is one page of the server's edit stream: rows edited since the
// cursor, ids deleted since the cursor, and the new cursor value.
type EditBatch struct {
	Edited    []Record `json:"edited"`
	Deleted   []int64  `json:"deleted"`
	Timestamp string   `json:"timestamp"`
}

type SummaryRecord struct {
	EmployeeID     string  `json:"employee_id"`
	Date           string  `json:"date"`
	MorningHours   float64 `json:"morning_hours"`
	AfternoonHours float64 `json:"afternoon_hours"`
	EveningHours   float64 `json:"evening_hours"`
	OvertimeHours  float64 `json:"overtime_hours"`
	RegularTotal   float64 `json:"regular_total"`
	OvertimeTotal  float64 `json:"overtime_total"`
	Incomplete     bool    `json:"incomplete"`
	Late           bool    `json:"late"`
}

package clockevent

import "time"

type ScanRequest struct {
	Barcode string `json:"barcode" binding:"required"`
}

type ClockEventResponse struct {
	ID            string  `json:"id"`
	ServerID      *int64  `json:"server_id,omitempty"`
	EmployeeID    string  `json:"employee_id"`
	ClockType     string  `json:"clock_type"`
	ClockTime     string  `json:"clock_time"`
	Date          string  `json:"date"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	IsLate        bool    `json:"is_late"`
	SyncState     string  `json:"sync_state"`
}

type ScanResponse struct {
	Event        ClockEventResponse `json:"event"`
	EmployeeName string             `json:"employee_name"`
}

func mapToResponse(e ClockEvent) ClockEventResponse {
	return ClockEventResponse{
		ID:            e.ID,
		ServerID:      e.ServerID,
		EmployeeID:    e.EmployeeID,
		ClockType:     e.ClockType,
		ClockTime:     e.ClockTime.Format(time.RFC3339),
		Date:          e.Date,
		RegularHours:  e.RegularHours,
		OvertimeHours: e.OvertimeHours,
		IsLate:        e.IsLate,
		SyncState:     e.SyncState,
	}
}

package reconcile

import (
	"fmt"
	"math"
	"sort"
	"time"

	"jjc-attendance/internal/clockevent"
	"jjc-attendance/internal/remote"
)

// duplicateWindow is how close two scans of the same type must be, per
// employee, before they are flagged as a probable double-scan.
const duplicateWindow = 5 * time.Minute

// Divergence is one row present on both sides but with differing content.
// The server copy wins when the difference is applied.
type Divergence struct {
	ServerID int64                 `json:"server_id"`
	Local    clockevent.ClockEvent `json:"local"`
	Server   remote.Record         `json:"server"`
	Fields   []string              `json:"fields"`
}

type ComparisonResult struct {
	ServerOnly    []remote.Record           `json:"server_only"`
	LocalOnly     []clockevent.ClockEvent   `json:"local_only"`
	ServerDeleted []clockevent.ClockEvent   `json:"server_deleted"`
	Different     []Divergence              `json:"different"`
	Identical     int                       `json:"identical"`
	Duplicates    [][]clockevent.ClockEvent `json:"duplicates"`
	ComparedAt    time.Time                 `json:"compared_at"`
}

// Classify splits local rows and server rows into reconciliation buckets.
// Rows pair up by server id; a local row that never synced has no server id
// and lands in LocalOnly. A local row with a server id that the server
// neither returned nor listed was deleted there, so it lands in
// ServerDeleted either way.
func Classify(local []clockevent.ClockEvent, serverRows []remote.Record, serverDeleted []int64) *ComparisonResult {
	result := &ComparisonResult{ComparedAt: time.Now()}

	byServerID := map[int64]clockevent.ClockEvent{}
	for _, e := range local {
		if e.ServerID != nil {
			byServerID[*e.ServerID] = e
		} else {
			result.LocalOnly = append(result.LocalOnly, e)
		}
	}

	seen := map[int64]bool{}
	for _, r := range serverRows {
		e, ok := byServerID[r.ID]
		if !ok {
			result.ServerOnly = append(result.ServerOnly, r)
			continue
		}
		seen[r.ID] = true
		if fields := diffFields(e, r); len(fields) > 0 {
			result.Different = append(result.Different, Divergence{
				ServerID: r.ID,
				Local:    e,
				Server:   r,
				Fields:   fields,
			})
		} else {
			result.Identical++
		}
	}

	for _, id := range serverDeleted {
		if e, ok := byServerID[id]; ok && !seen[id] {
			seen[id] = true
			result.ServerDeleted = append(result.ServerDeleted, e)
		}
	}

	var missing []int64
	for id := range byServerID {
		if !seen[id] {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	for _, id := range missing {
		result.ServerDeleted = append(result.ServerDeleted, byServerID[id])
	}

	result.Duplicates = duplicateClusters(local)
	return result
}

// diffFields lists the fields where the local row disagrees with the server
// row. Timestamps compare at minute resolution and hours within the same
// tolerance the validator uses.
func diffFields(e clockevent.ClockEvent, r remote.Record) []string {
	var fields []string
	if e.EmployeeID != r.EmployeeID {
		fields = append(fields, "employee_id")
	}
	if e.ClockType != r.ClockType {
		fields = append(fields, "clock_type")
	}
	if e.Date != r.Date {
		fields = append(fields, "date")
	}
	if !e.ClockTime.Truncate(time.Minute).Equal(r.ClockTime.Truncate(time.Minute)) {
		fields = append(fields, "clock_time")
	}
	if math.Abs(e.RegularHours-r.RegularHours) > 0.01 {
		fields = append(fields, "regular_hours")
	}
	if math.Abs(e.OvertimeHours-r.OvertimeHours) > 0.01 {
		fields = append(fields, "overtime_hours")
	}
	if e.IsLate != r.IsLate {
		fields = append(fields, "is_late")
	}
	return fields
}

// duplicateClusters groups same-employee same-day same-type scans that landed
// within the duplicate window of each other. These are reported, never
// auto-deleted. Keying on the attendance date keeps midnight-adjacent scans on
// different days apart even when their timestamps are close.
func duplicateClusters(local []clockevent.ClockEvent) [][]clockevent.ClockEvent {
	grouped := map[string][]clockevent.ClockEvent{}
	for _, e := range local {
		k := fmt.Sprintf("%s|%s|%s", e.EmployeeID, e.Date, e.ClockType)
		grouped[k] = append(grouped[k], e)
	}

	var keys []string
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var clusters [][]clockevent.ClockEvent
	for _, k := range keys {
		rows := grouped[k]
		sort.Slice(rows, func(i, j int) bool { return rows[i].ClockTime.Before(rows[j].ClockTime) })

		var current []clockevent.ClockEvent
		for _, e := range rows {
			if len(current) > 0 && e.ClockTime.Sub(current[len(current)-1].ClockTime) <= duplicateWindow {
				current = append(current, e)
				continue
			}
			if len(current) > 1 {
				clusters = append(clusters, current)
			}
			current = []clockevent.ClockEvent{e}
		}
		if len(current) > 1 {
			clusters = append(clusters, current)
		}
	}
	return clusters
}

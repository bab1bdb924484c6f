package hours

import "time"

// LateFor flags a clock-in scanned after its session start plus grace.
// Morning arrivals before 08:00 (including the early-morning window) are never
// late; overtime sessions have no fixed start and are never late.
func LateFor(clockType string, t time.Time) bool {
	m := minuteOfDay(t)
	switch clockType {
	case MorningIn:
		return m > morningStart+regularGraceMinutes
	case AfternoonIn:
		return m > afternoonStart+regularGraceMinutes
	case EveningIn:
		return m > afternoonEnd+overtimeGraceMinutes && m < overtimeEnd
	default:
		return false
	}
}

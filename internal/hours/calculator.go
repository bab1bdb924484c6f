package hours

import (
	"math"
	"time"
)

// Time boundaries in minutes from midnight. The night window wraps past
// midnight, so its end is expressed on a 30-hour scale.
const (
	earlyMorningStart = 6 * 60  // 06:00
	morningStart      = 8 * 60  // 08:00
	morningEnd        = 12 * 60 // 12:00, lunch 12:00-13:00 is never credited
	afternoonStart    = 13 * 60 // 13:00
	afternoonEnd      = 17 * 60 // 17:00
	overtimeEnd       = 22 * 60 // 22:00
	nightEnd          = 30 * 60 // 06:00 next day

	dayMinutes = 24 * 60

	regularGraceMinutes  = 5  // per hour-block of a regular session
	overtimeGraceMinutes = 15 // evening / overtime sessions

	// Early-morning fixed allowance: morning clock-in within [05:55, 06:05)
	// and clock-out at or past 11:30 awards a flat 4 regular + 2 overtime.
	earlyWindowStart = 5*60 + 55
	earlyWindowEnd   = 6*60 + 5
	earlyOutCutoff   = 11*60 + 30

	eveningFullCutoff = afternoonEnd + 15 // 17:15
	eveningFirstEnd   = afternoonEnd + 60 // 18:00
)

// Compute maps a clock-out event and its paired clock-in to regular and
// overtime hours, both rounded to 2 decimals. Clock-in and unknown types carry
// no hours. The function is pure and never fails; degraded input is the
// caller's concern.
func Compute(clockType string, clockOut, clockIn time.Time) (regular, overtime float64) {
	in := minuteOfDay(clockIn)
	out := minuteOfDay(clockOut)

	// Overnight normalization: a clock-out earlier in the day than its
	// clock-in crossed midnight.
	if out < in {
		out += dayMinutes
	}

	switch clockType {
	case MorningOut:
		if in >= earlyWindowStart && in < earlyWindowEnd && out >= earlyOutCutoff {
			return 4, 2
		}
		regular = creditBlocks(in, out, morningStart, morningEnd)
		overtime = appendedOvertime(in, out)
	case AfternoonOut:
		regular = creditBlocks(in, out, afternoonStart, afternoonEnd)
		overtime = appendedOvertime(in, out)
	case EveningOut:
		overtime = eveningHours(in, out)
	case OvertimeOut:
		overtime = gracedOvertime(out-in, overtimeGraceMinutes)
	default:
		return 0, 0
	}

	return round2(regular), round2(overtime)
}

// creditBlocks applies the per-hour crediting rule across the hour-blocks of a
// regular session window. Lateness is measured against each block start, so a
// clock-in mid-window forfeits the earlier blocks entirely. The 29-vs-31
// minute discontinuity is intentional.
func creditBlocks(in, out, windowStart, windowEnd int) float64 {
	var credit float64
	for blockStart := windowStart; blockStart < windowEnd; blockStart += 60 {
		worked := overlap(in, out, blockStart, blockStart+60)
		if worked <= 0 {
			continue
		}
		lateness := in - blockStart
		if lateness < 0 {
			lateness = 0
		}
		switch {
		case lateness <= regularGraceMinutes:
			if worked >= 30 {
				credit += 1.0
			} else {
				credit += 0.5
			}
		case lateness <= 30:
			if worked >= 30 {
				credit += 0.5
			}
		}
	}
	return credit
}

// appendedOvertime converts time a regular session runs past 17:00 into
// overtime, applying the simple-overtime rounding separately to the
// 17:00-22:00 and 22:00-06:00 spans.
func appendedOvertime(in, out int) float64 {
	return simpleOvertime(overlap(in, out, afternoonEnd, overtimeEnd)) +
		simpleOvertime(overlap(in, out, overtimeEnd, nightEnd))
}

// eveningHours implements the tiered evening rule. Sessions entered at or
// after 22:00 instead use one continuous graced computation.
func eveningHours(in, out int) float64 {
	if in >= overtimeEnd {
		return gracedOvertime(out-in, overtimeGraceMinutes)
	}

	var credit float64
	switch {
	case in <= eveningFullCutoff:
		credit = 1.0
	case in < eveningFirstEnd:
		credit = 0.5
	}

	start := in
	if start < eveningFirstEnd {
		start = eveningFirstEnd
	}
	if out > start {
		credit += simpleOvertime(out - start)
	}
	return credit
}

// gracedOvertime subtracts the session grace from the total worked minutes and
// rounds to the half hour.
func gracedOvertime(worked, grace int) float64 {
	return simpleOvertime(worked - grace)
}

// simpleOvertime is floor(minutes/60) plus a half hour when the remainder
// reaches 30; a remainder under 30 is dropped, never rounded up.
func simpleOvertime(minutes int) float64 {
	if minutes <= 0 {
		return 0
	}
	h := float64(minutes / 60)
	if minutes%60 >= 30 {
		h += 0.5
	}
	return h
}

func overlap(in, out, start, end int) int {
	lo := in
	if start > lo {
		lo = start
	}
	hi := out
	if end < hi {
		hi = end
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

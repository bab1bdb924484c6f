package clockevent

import (
	"time"

	"jjc-attendance/internal/hours"
)

// timeBucket partitions the day at every boundary the transition rules care
// about. Keeping 17:00-17:14 separate from 17:15+ lets one table serve both
// the "evening after an out" rule (>= 17:00) and the fresh-day rule (>= 17:15).
type timeBucket int

const (
	bucketDawn    timeBucket = iota // 00:00 - 07:59
	bucketMorning                   // 08:00 - 11:59
	bucketMidday                    // 12:00 - 16:59
	bucketDusk                      // 17:00 - 17:14
	bucketEvening                   // 17:15 - 21:59
	bucketNight                     // 22:00 - 23:59
)

var allBuckets = []timeBucket{bucketDawn, bucketMorning, bucketMidday, bucketDusk, bucketEvening, bucketNight}

func bucketOf(t time.Time) timeBucket {
	m := t.Hour()*60 + t.Minute()
	switch {
	case m < 8*60:
		return bucketDawn
	case m < 12*60:
		return bucketMorning
	case m < 17*60:
		return bucketMidday
	case m < 17*60+15:
		return bucketDusk
	case m < 22*60:
		return bucketEvening
	default:
		return bucketNight
	}
}

// initial picks the first clock type of a day with no usable prior event.
var initial = map[timeBucket]string{
	bucketDawn:    hours.MorningIn,
	bucketMorning: hours.MorningIn,
	bucketMidday:  hours.AfternoonIn,
	bucketDusk:    hours.AfternoonIn,
	bucketEvening: hours.EveningIn,
	bucketNight:   hours.OvertimeIn,
}

// transitions enumerates every (lastType, bucket) pair. A *_in always expects
// its paired *_out; a *_out picks the next session by time of day, restarting
// at morning or afternoon when the day has clearly rolled over.
var transitions = map[string]map[timeBucket]string{
	hours.MorningIn: {
		bucketDawn: hours.MorningOut, bucketMorning: hours.MorningOut, bucketMidday: hours.MorningOut,
		bucketDusk: hours.MorningOut, bucketEvening: hours.MorningOut, bucketNight: hours.MorningOut,
	},
	hours.AfternoonIn: {
		bucketDawn: hours.AfternoonOut, bucketMorning: hours.AfternoonOut, bucketMidday: hours.AfternoonOut,
		bucketDusk: hours.AfternoonOut, bucketEvening: hours.AfternoonOut, bucketNight: hours.AfternoonOut,
	},
	hours.EveningIn: {
		bucketDawn: hours.EveningOut, bucketMorning: hours.EveningOut, bucketMidday: hours.EveningOut,
		bucketDusk: hours.EveningOut, bucketEvening: hours.EveningOut, bucketNight: hours.EveningOut,
	},
	hours.OvertimeIn: {
		bucketDawn: hours.OvertimeOut, bucketMorning: hours.OvertimeOut, bucketMidday: hours.OvertimeOut,
		bucketDusk: hours.OvertimeOut, bucketEvening: hours.OvertimeOut, bucketNight: hours.OvertimeOut,
	},
	hours.MorningOut: {
		bucketDawn: hours.MorningIn, bucketMorning: hours.MorningIn, bucketMidday: hours.AfternoonIn,
		bucketDusk: hours.EveningIn, bucketEvening: hours.EveningIn, bucketNight: hours.OvertimeIn,
	},
	hours.AfternoonOut: {
		bucketDawn: hours.MorningIn, bucketMorning: hours.MorningIn, bucketMidday: hours.AfternoonIn,
		bucketDusk: hours.EveningIn, bucketEvening: hours.EveningIn, bucketNight: hours.OvertimeIn,
	},
	hours.EveningOut: {
		bucketDawn: hours.MorningIn, bucketMorning: hours.MorningIn, bucketMidday: hours.AfternoonIn,
		bucketDusk: hours.EveningIn, bucketEvening: hours.EveningIn, bucketNight: hours.OvertimeIn,
	},
	hours.OvertimeOut: {
		bucketDawn: hours.MorningIn, bucketMorning: hours.MorningIn, bucketMidday: hours.AfternoonIn,
		bucketDusk: hours.EveningIn, bucketEvening: hours.EveningIn, bucketNight: hours.OvertimeIn,
	},
}

// NextClockType decides the expected type of the next scan. Unknown lastType
// restarts at morning_in. A pending *_in from a previous calendar day normally
// restarts the day, except the overnight continuation: an evening or night
// shift (last in at or after 17:00) scanning out before 08:00 still closes its
// session instead of opening a new day.
func NextClockType(lastType string, now, lastTimestamp time.Time) string {
	if lastType == "" {
		return initial[bucketOf(now)]
	}

	row, ok := transitions[lastType]
	if !ok {
		return hours.MorningIn
	}

	if hours.IsClockIn(lastType) && !sameDay(now, lastTimestamp) && !overnightContinuation(now, lastTimestamp) {
		return initial[bucketOf(now)]
	}

	return row[bucketOf(now)]
}

func sameDay(a, b time.Time) bool {
	return a.Format(DateLayout) == b.Format(DateLayout)
}

func overnightContinuation(now, lastTimestamp time.Time) bool {
	lastMinute := lastTimestamp.Hour()*60 + lastTimestamp.Minute()
	nowMinute := now.Hour()*60 + now.Minute()
	return lastMinute >= 17*60 && nowMinute < 8*60
}

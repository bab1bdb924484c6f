package clockevent

import (
	"testing"
	"time"

	"jjc-attendance/internal/hours"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayAt(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func TestBucketOf(t *testing.T) {
	tests := []struct {
		h, m int
		want timeBucket
	}{
		{0, 0, bucketDawn},
		{7, 59, bucketDawn},
		{8, 0, bucketMorning},
		{11, 59, bucketMorning},
		{12, 0, bucketMidday},
		{16, 59, bucketMidday},
		{17, 0, bucketDusk},
		{17, 14, bucketDusk},
		{17, 15, bucketEvening},
		{21, 59, bucketEvening},
		{22, 0, bucketNight},
		{23, 59, bucketNight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bucketOf(dayAt(tt.h, tt.m)), "%02d:%02d", tt.h, tt.m)
	}
}

// Every (type, bucket) pair must resolve to a known type, and every pending
// *_in must always resolve to its own *_out.
func TestTransitionTableIsTotal(t *testing.T) {
	types := []string{
		hours.MorningIn, hours.MorningOut,
		hours.AfternoonIn, hours.AfternoonOut,
		hours.EveningIn, hours.EveningOut,
		hours.OvertimeIn, hours.OvertimeOut,
	}
	for _, typ := range types {
		row, ok := transitions[typ]
		require.True(t, ok, "no transition row for %s", typ)
		for _, b := range allBuckets {
			next, ok := row[b]
			require.True(t, ok, "%s has no transition in bucket %d", typ, b)
			assert.True(t, hours.KnownType(next))
			if hours.IsClockIn(typ) {
				assert.Equal(t, hours.PairedOut(typ), next)
			}
		}
	}
	for _, b := range allBuckets {
		assert.True(t, hours.IsClockIn(initial[b]))
	}
}

func TestNextClockType(t *testing.T) {
	prevEvening := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	prevMorning := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		lastType string
		lastTime time.Time
		now      time.Time
		want     string
	}{
		{"no history, morning", "", time.Time{}, dayAt(8, 30), hours.MorningIn},
		{"no history, afternoon", "", time.Time{}, dayAt(14, 0), hours.AfternoonIn},
		{"no history, evening", "", time.Time{}, dayAt(19, 0), hours.EveningIn},
		{"no history, night", "", time.Time{}, dayAt(22, 30), hours.OvertimeIn},
		{"open morning closes even late", hours.MorningIn, dayAt(8, 0), dayAt(16, 0), hours.MorningOut},
		{"out at midday opens afternoon", hours.MorningOut, dayAt(12, 0), dayAt(13, 0), hours.AfternoonIn},
		{"out at dusk opens evening", hours.AfternoonOut, dayAt(17, 0), dayAt(17, 10), hours.EveningIn},
		{"out at night opens overtime", hours.EveningOut, dayAt(21, 50), dayAt(22, 5), hours.OvertimeIn},
		{"evening shift closes across midnight", hours.EveningIn, prevEvening, dayAt(2, 0), hours.EveningOut},
		{"stale morning in restarts the day", hours.MorningIn, prevMorning, dayAt(9, 0), hours.MorningIn},
		{"stale morning in does not continue overnight", hours.MorningIn, prevMorning, dayAt(6, 0), hours.MorningIn},
		{"unrecognized history restarts at morning", "lunch_out", dayAt(12, 0), dayAt(13, 0), hours.MorningIn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextClockType(tt.lastType, tt.now, tt.lastTime))
		})
	}
}

func TestOpenClockIn(t *testing.T) {
	ev := func(typ string, h, m int) ClockEvent {
		return ClockEvent{ClockType: typ, ClockTime: dayAt(h, m)}
	}

	t.Run("pairs with nearest unpaired in", func(t *testing.T) {
		evs := []ClockEvent{
			ev(hours.MorningIn, 8, 0),
			ev(hours.MorningOut, 12, 0),
			ev(hours.AfternoonIn, 13, 0),
			ev(hours.AfternoonOut, 17, 0),
		}
		in := OpenClockIn(evs, 3)
		require.NotNil(t, in)
		assert.Equal(t, hours.AfternoonIn, in.ClockType)
	})

	t.Run("skips other sessions", func(t *testing.T) {
		evs := []ClockEvent{
			ev(hours.MorningIn, 8, 0),
			ev(hours.AfternoonIn, 13, 0),
			ev(hours.MorningOut, 14, 0),
		}
		in := OpenClockIn(evs, 2)
		require.NotNil(t, in)
		assert.Equal(t, hours.MorningIn, in.ClockType)
	})

	t.Run("closed session yields nothing", func(t *testing.T) {
		evs := []ClockEvent{
			ev(hours.MorningIn, 8, 0),
			ev(hours.MorningOut, 12, 0),
			ev(hours.MorningOut, 12, 5),
		}
		assert.Nil(t, OpenClockIn(evs, 2))
	})

	t.Run("no in at all", func(t *testing.T) {
		evs := []ClockEvent{ev(hours.MorningOut, 12, 0)}
		assert.Nil(t, OpenClockIn(evs, 0))
	})
}

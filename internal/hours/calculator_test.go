package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 11, hour, minute, 0, 0, time.UTC)
}

func TestCompute_ClockInTypesCarryNoHours(t *testing.T) {
	for _, clockType := range []string{MorningIn, AfternoonIn, EveningIn, OvertimeIn} {
		reg, ot := Compute(clockType, at(12, 0), at(8, 0))
		assert.Zero(t, reg, clockType)
		assert.Zero(t, ot, clockType)
	}
}

func TestCompute_UnknownTypeCarriesNoHours(t *testing.T) {
	reg, ot := Compute("lunch_out", at(13, 0), at(12, 0))
	assert.Zero(t, reg)
	assert.Zero(t, ot)
}

func TestCompute_MorningSession(t *testing.T) {
	tests := []struct {
		name     string
		in, out  time.Time
		regular  float64
		overtime float64
	}{
		{
			name:    "full morning on time",
			in:      at(8, 0),
			out:     at(12, 0),
			regular: 4.0,
		},
		{
			name:    "within five minute grace",
			in:      at(8, 5),
			out:     at(12, 0),
			regular: 4.0,
		},
		{
			name:    "29 minutes late still earns half of first block",
			in:      at(8, 29),
			out:     at(12, 0),
			regular: 3.5,
		},
		{
			name:    "31 minutes late forfeits first block",
			in:      at(8, 31),
			out:     at(12, 0),
			regular: 3.0,
		},
		{
			name:    "leaves mid block with under 30 minutes worked",
			in:      at(8, 0),
			out:     at(11, 20),
			regular: 3.5,
		},
		{
			name:    "arrives mid window forfeits earlier blocks",
			in:      at(10, 0),
			out:     at(12, 0),
			regular: 2.0,
		},
		{
			name:    "early arrival before eight is not late",
			in:      at(7, 30),
			out:     at(12, 0),
			regular: 4.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, ot := Compute(MorningOut, tt.out, tt.in)
			assert.Equal(t, tt.regular, reg)
			assert.Equal(t, tt.overtime, ot)
		})
	}
}

func TestCompute_EarlyMorningAllowance(t *testing.T) {
	// 06:00 in, 12:00 out: flat 4 regular + 2 overtime, per-hour math bypassed.
	reg, ot := Compute(MorningOut, at(12, 0), at(6, 0))
	assert.Equal(t, 4.0, reg)
	assert.Equal(t, 2.0, ot)

	// Window edges: 05:55 qualifies, 06:05 does not.
	reg, ot = Compute(MorningOut, at(11, 30), at(5, 55))
	assert.Equal(t, 4.0, reg)
	assert.Equal(t, 2.0, ot)

	reg, _ = Compute(MorningOut, at(12, 0), at(6, 5))
	assert.Equal(t, 4.0, reg) // falls back to per-hour math

	// Leaving before 11:30 voids the allowance.
	_, ot = Compute(MorningOut, at(11, 29), at(6, 0))
	assert.Zero(t, ot)
}

func TestCompute_AfternoonSession(t *testing.T) {
	tests := []struct {
		name     string
		in, out  time.Time
		regular  float64
		overtime float64
	}{
		{
			name:    "full afternoon on time",
			in:      at(13, 0),
			out:     at(17, 0),
			regular: 4.0,
		},
		{
			name:    "lunch arrival is not late for the afternoon",
			in:      at(12, 30),
			out:     at(17, 0),
			regular: 4.0,
		},
		{
			name:     "running to 19:30 appends simple overtime",
			in:       at(13, 0),
			out:      at(19, 30),
			regular:  4.0,
			overtime: 2.5,
		},
		{
			name:     "remainder under 30 in the appended span is dropped",
			in:       at(13, 0),
			out:      at(18, 25),
			regular:  4.0,
			overtime: 1.0,
		},
		{
			name:     "overnight run credits the night window separately",
			in:       at(13, 0),
			out:      at(23, 30),
			regular:  4.0,
			overtime: 6.5, // 5h in 17-22 plus 1.5h in 22-23:30
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, ot := Compute(AfternoonOut, tt.out, tt.in)
			assert.Equal(t, tt.regular, reg)
			assert.Equal(t, tt.overtime, ot)
		})
	}
}

func TestCompute_EveningSession(t *testing.T) {
	tests := []struct {
		name     string
		in, out  time.Time
		overtime float64
	}{
		{
			name:     "on time to 21:00",
			in:       at(17, 0),
			out:      at(21, 0),
			overtime: 4.0,
		},
		{
			name:     "17:15 still earns the full first hour",
			in:       at(17, 15),
			out:      at(21, 0),
			overtime: 4.0,
		},
		{
			name:     "17:16 halves the first hour",
			in:       at(17, 16),
			out:      at(21, 0),
			overtime: 3.5,
		},
		{
			name:     "arriving after 18:00 skips the first hour credit",
			in:       at(18, 30),
			out:      at(21, 0),
			overtime: 2.5,
		},
		{
			name:     "night entry switches to continuous graced computation",
			in:       at(22, 30),
			out:      at(1, 30),
			overtime: 2.5, // 180 - 15 grace = 165 -> 2.5
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, ot := Compute(EveningOut, tt.out, tt.in)
			assert.Zero(t, reg)
			assert.Equal(t, tt.overtime, ot)
		})
	}
}

func TestCompute_OvertimeSession(t *testing.T) {
	// Overnight wraparound: 22:00 in, 02:00 out -> 240 minutes - 15 grace = 3.5.
	reg, ot := Compute(OvertimeOut, at(2, 0), at(22, 0))
	assert.Zero(t, reg)
	assert.Equal(t, 3.5, ot)

	// Shorter than the grace yields zero, never negative.
	_, ot = Compute(OvertimeOut, at(22, 10), at(22, 0))
	assert.Zero(t, ot)
}

func TestLateFor(t *testing.T) {
	assert.False(t, LateFor(MorningIn, at(8, 5)))
	assert.True(t, LateFor(MorningIn, at(8, 6)))
	assert.False(t, LateFor(MorningIn, at(6, 0)))
	assert.True(t, LateFor(AfternoonIn, at(13, 10)))
	assert.False(t, LateFor(EveningIn, at(17, 15)))
	assert.True(t, LateFor(EveningIn, at(17, 30)))
	assert.False(t, LateFor(OvertimeIn, at(23, 0)))
}

func TestSessionHelpers(t *testing.T) {
	assert.Equal(t, MorningOut, PairedOut(MorningIn))
	assert.Equal(t, EveningIn, PairedIn(EveningOut))
	assert.True(t, IsClockIn(OvertimeIn))
	assert.True(t, IsClockOut(AfternoonOut))
	assert.False(t, KnownType("coffee_in"))
	assert.Equal(t, "overtime", SessionOf(OvertimeOut))
	assert.Equal(t, "", SessionOf("bogus"))
}

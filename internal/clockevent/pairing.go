package clockevent

import "jjc-attendance/internal/hours"

// OpenClockIn finds the clock-in a *_out at index outIdx pairs with: the
// nearest preceding event of the same session that is an unpaired *_in.
// Events must be in chronological order. Hitting another *_out of the same
// session first means the session was already closed; other sessions'
// events are skipped over.
func OpenClockIn(events []ClockEvent, outIdx int) *ClockEvent {
	out := events[outIdx]
	wantIn := hours.PairedIn(out.ClockType)
	if wantIn == "" {
		return nil
	}
	for i := outIdx - 1; i >= 0; i-- {
		switch events[i].ClockType {
		case wantIn:
			return &events[i]
		case out.ClockType:
			return nil
		}
	}
	return nil
}

package hours

// Clock event types. Each session has its own in/out pair and its own
// hour-accounting rule.
const (
	MorningIn    = "morning_in"
	MorningOut   = "morning_out"
	AfternoonIn  = "afternoon_in"
	AfternoonOut = "afternoon_out"
	EveningIn    = "evening_in"
	EveningOut   = "evening_out"
	OvertimeIn   = "overtime_in"
	OvertimeOut  = "overtime_out"
)

var pairedOut = map[string]string{
	MorningIn:   MorningOut,
	AfternoonIn: AfternoonOut,
	EveningIn:   EveningOut,
	OvertimeIn:  OvertimeOut,
}

var pairedIn = map[string]string{
	MorningOut:   MorningIn,
	AfternoonOut: AfternoonIn,
	EveningOut:   EveningIn,
	OvertimeOut:  OvertimeIn,
}

// IsClockIn reports whether t is a known *_in type.
func IsClockIn(t string) bool {
	_, ok := pairedOut[t]
	return ok
}

// IsClockOut reports whether t is a known *_out type.
func IsClockOut(t string) bool {
	_, ok := pairedIn[t]
	return ok
}

// KnownType reports whether t is any of the eight clock types.
func KnownType(t string) bool {
	return IsClockIn(t) || IsClockOut(t)
}

// PairedOut returns the *_out type closing the given *_in, or "" for unknown.
func PairedOut(inType string) string { return pairedOut[inType] }

// PairedIn returns the *_in type opening the given *_out, or "" for unknown.
func PairedIn(outType string) string { return pairedIn[outType] }

// SessionOf returns the session name (morning, afternoon, evening, overtime)
// for a clock type, or "" for unknown types.
func SessionOf(t string) string {
	switch t {
	case MorningIn, MorningOut:
		return "morning"
	case AfternoonIn, AfternoonOut:
		return "afternoon"
	case EveningIn, EveningOut:
		return "evening"
	case OvertimeIn, OvertimeOut:
		return "overtime"
	default:
		return ""
	}
}

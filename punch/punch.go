// Package punch defines the structured types shared across pointeuse.
// These are the public API contract: any consumer (the runner, custom
// sinks, schedule tooling) imports this package to describe and observe
// clock punches.
package punch

// Kind is the direction of a punch.
type Kind string

const (
	ClockIn  Kind = "clock_in"  // start of a work block
	ClockOut Kind = "clock_out" // end of a work block
)

// DefaultLabel is the display text the timesheet UI renders for the kind.
// Overridable per deployment through configuration (locale variants).
func (k Kind) DefaultLabel() string {
	switch k {
	case ClockIn:
		return "Clock In"
	case ClockOut:
		return "Clock Out"
	default:
		return string(k)
	}
}

// TimeEventCode is the SuccessFactors time-event type code backing the kind.
// These appear in option ids and data attributes of the type dropdown.
func (k Kind) TimeEventCode() string {
	switch k {
	case ClockIn:
		return "P10"
	case ClockOut:
		return "P20"
	default:
		return ""
	}
}

// Entry is one scheduled punch. Immutable; supplied in time-ascending order.
type Entry struct {
	Time string `json:"time"` // "HH:MM", validated against TimePattern
	Kind Kind   `json:"kind"`
}

// Result is the terminal outcome for one processed Entry. Created once,
// never mutated.
type Result struct {
	Time    string `json:"time"`
	Kind    Kind   `json:"kind"`
	Success bool   `json:"success"`
	Err     string `json:"error,omitempty"`
}

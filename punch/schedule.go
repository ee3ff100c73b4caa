package punch

import "time"

// Schedule is a named ordered list of punch slots for one day shape.
type Schedule struct {
	Name  string  `json:"name"`
	Slots []Entry `json:"slots"`
}

// DayPlan selects which named Schedule applies on a given weekday.
// Weekdays without an override use Default.
type DayPlan struct {
	Default  string                  `json:"default"`
	Weekdays map[time.Weekday]string `json:"weekdays,omitempty"`
}

// Select returns the schedule name applicable on w.
func (p DayPlan) Select(w time.Weekday) string {
	if name, ok := p.Weekdays[w]; ok {
		return name
	}
	return p.Default
}

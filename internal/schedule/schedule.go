// Package schedule computes which punches are due at a point in time.
// It is a pure function of the plan, the named schedules, and the clock:
// nothing here remembers previous runs.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/hazyhaar/pointeuse/punch"
)

// Due returns the slots of the schedule selected for now's weekday whose
// time is at or before now, ascending. Slot times are "HH:MM" so the cutoff
// is a plain string comparison against the current local clock.
func Due(plan punch.DayPlan, schedules map[string]punch.Schedule, now time.Time) ([]punch.Entry, error) {
	name := plan.Select(now.Weekday())
	sched, ok := schedules[name]
	if !ok {
		return nil, fmt.Errorf("schedule: no schedule named %q for %s", name, now.Weekday())
	}

	cutoff := now.Format("15:04")
	due := make([]punch.Entry, 0, len(sched.Slots))
	for _, slot := range sched.Slots {
		if slot.Time <= cutoff {
			due = append(due, slot)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].Time < due[j].Time })
	return due, nil
}

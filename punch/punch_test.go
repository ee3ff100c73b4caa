package punch

import (
	"testing"
	"time"
)

func TestCompactTime(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"08:00", "800"},
		{"14:45", "1445"},
		{"00:05", "5"},
		{"00:00", "0"},
		{"23:59", "2359"},
		{"09:07", "907"},
		{"10:00", "1000"},
	}
	for _, c := range cases {
		if got := CompactTime(c.in); got != c.want {
			t.Errorf("CompactTime(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidTime(t *testing.T) {
	valid := []string{"00:00", "08:30", "23:59"}
	for _, s := range valid {
		if !ValidTime(s) {
			t.Errorf("ValidTime(%q): got false, want true", s)
		}
	}
	invalid := []string{"", "8:30", "08:3", "0830", "08-30", "08:30:00", "ab:cd"}
	for _, s := range invalid {
		if ValidTime(s) {
			t.Errorf("ValidTime(%q): got true, want false", s)
		}
	}
}

func TestKindLabelsAndCodes(t *testing.T) {
	if got := ClockIn.DefaultLabel(); got != "Clock In" {
		t.Errorf("ClockIn label: got %q, want %q", got, "Clock In")
	}
	if got := ClockOut.DefaultLabel(); got != "Clock Out" {
		t.Errorf("ClockOut label: got %q, want %q", got, "Clock Out")
	}
	if got := ClockIn.TimeEventCode(); got != "P10" {
		t.Errorf("ClockIn code: got %q, want %q", got, "P10")
	}
	if got := ClockOut.TimeEventCode(); got != "P20" {
		t.Errorf("ClockOut code: got %q, want %q", got, "P20")
	}
}

func TestDayPlanSelect(t *testing.T) {
	plan := DayPlan{
		Default:  "standard",
		Weekdays: map[time.Weekday]string{time.Friday: "friday"},
	}
	if got := plan.Select(time.Monday); got != "standard" {
		t.Errorf("Monday: got %q, want %q", got, "standard")
	}
	if got := plan.Select(time.Friday); got != "friday" {
		t.Errorf("Friday: got %q, want %q", got, "friday")
	}
}

func TestEventMarshalRoundtrip(t *testing.T) {
	e := &Event{
		RunID:     "01234567-89ab-cdef-0123-456789abcdef",
		Seq:       7,
		Stage:     StageEntry,
		Action:    "kind_selected",
		Target:    "li[data-key='P10']",
		Success:   true,
		Detail:    "Clock In",
		Timestamp: 1766400000000,
	}

	data, err := MarshalEvent(e)
	if err != nil {
		t.Fatal(err)
	}

	got, err := UnmarshalEvent(data)
	if err != nil {
		t.Fatal(err)
	}

	if got.Seq != e.Seq {
		t.Errorf("Seq: got %d, want %d", got.Seq, e.Seq)
	}
	if got.Stage != e.Stage {
		t.Errorf("Stage: got %q, want %q", got.Stage, e.Stage)
	}
	if got.Target != e.Target {
		t.Errorf("Target: got %q, want %q", got.Target, e.Target)
	}
}

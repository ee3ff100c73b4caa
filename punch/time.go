package punch

import (
	"regexp"
	"strings"
)

// TimePattern is the shape every Entry.Time must satisfy.
var TimePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ValidTime reports whether s is an acceptable Entry.Time.
func ValidTime(s string) bool {
	return TimePattern.MatchString(s)
}

// CompactTime converts a "HH:MM" string into the compact numeric form the
// timesheet time field expects: colon removed, leading zeros stripped across
// the whole digit string. An all-zero input normalizes to "0", never "".
//
//	CompactTime("08:00") = "800"
//	CompactTime("14:45") = "1445"
//	CompactTime("00:05") = "5"
//	CompactTime("00:00") = "0"
func CompactTime(hhmm string) string {
	s := strings.ReplaceAll(hhmm, ":", "")
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}

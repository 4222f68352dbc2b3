package pvcs

import (
	"fmt"
	"strings"
	"time"
)

// Check-in time layouts printed by vlog, tried in order.
var checkInLayouts = []string{
	"Jan _2 2006 15:04:05", // Oct 01 2008 10:00:00
	"_2 Jan 2006 15:04:05", // 01 Oct 2008 10:00:00
}

// DateParseError is returned when a timestamp matches none of the known layouts.
type DateParseError struct {
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unrecognized check-in time %q (expected %q)",
		e.Value, strings.Join(checkInLayouts, " or "))
}

// checkInFields is the number of space-separated fields in a check-in time.
const checkInFields = 4

// ParseTimestamp parses a vlog check-in time in loc.
// Text after the time, separated by whitespace, is ignored.
// A nil loc means time.Local.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	value = strings.TrimSpace(value)
	candidates := []string{value}
	if fields := strings.Fields(value); len(fields) > checkInFields {
		candidates = append(candidates, strings.Join(fields[:checkInFields], " "))
	}
	for _, candidate := range candidates {
		for _, layout := range checkInLayouts {
			if t, err := time.ParseInLocation(layout, candidate, loc); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, &DateParseError{Value: value}
}

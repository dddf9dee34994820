package engine

import (
	"strings"
	"time"
)

// defaultTimestampLayouts is the explicit precedence order for timestamp
// prefixes. Slash dates without a zone are inherently ambiguous between
// day-first and month-first; the seconds-bearing bracketed export shape is
// month-first, minute-only shapes follow the day-first convention of the
// Android export, and ISO-8601 comes last because it never collides.
func defaultTimestampLayouts() []string {
	return []string{
		"1/2/06, 3:04:05 PM",
		"1/2/2006, 3:04:05 PM",
		"2/1/06, 3:04:05 PM",
		"2/1/06, 3:04 PM",
		"2/1/2006, 3:04 PM",
		"2/1/06, 15:04",
		"2/1/2006, 15:04",
		"1/2/06, 3:04 PM",
		"1/2/2006, 3:04 PM",
		"2-1-06, 15:04",
		"2-1-2006, 15:04",
		"2006-01-02, 15:04",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05.999999999Z07:00",
	}
}

var timestampCleaner = strings.NewReplacer(
	" ", " ", // narrow no-break space before AM/PM in newer iOS exports
	" ", " ",
	"A.M.", "AM",
	"P.M.", "PM",
)

// parseTimestamp normalizes a raw timestamp string against the configured
// layout list. Results are timezone-naive: zoned inputs are converted to UTC
// and the zone is discarded.
func parseTimestamp(raw string, layouts []string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	s = timestampCleaner.Replace(strings.ToUpper(s))
	s = strings.Join(strings.Fields(s), " ")

	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Location() != time.UTC {
			t = t.UTC()
		}
		return t, true
	}
	return time.Time{}, false
}

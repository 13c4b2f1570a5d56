package helpers

import (
	"strings"
	"time"
)

// Layouts accepted from chat input, ISO-ish first, then the dotted form
// common in Russian locales.
var flexibleDateLayouts = []string{
	"2006-01-02 15:04",
	"2006-1-2 15:04",
	"2006-01-02",
	"2006-1-2",
	"02.01.2006 15:04",
	"2.1.2006 15:04",
	"02.01.2006",
	"2.1.2006",
}

// ParseFlexibleDate parses user-entered dates against the known layouts in
// the local timezone. The second result reports whether any layout matched.
func ParseFlexibleDate(input string) (time.Time, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, false
	}
	for _, layout := range flexibleDateLayouts {
		t, err := time.ParseInLocation(layout, input, time.Local)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

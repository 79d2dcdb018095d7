package report

import (
	"regexp"
	"strings"
	"time"
)

// Placeholder stands in for any value that is missing or unparseable. Rows
// always render every column, so the placeholder keeps the column count
// stable.
const Placeholder = "-"

// Display layouts used across report rows.
const (
	DateLayout     = "02-Jan-2006"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "02-Jan-2006 15:04:05"
)

// Layouts accepted when parsing loosely formatted date strings. Tried in
// order; the first match wins.
var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006 15:04:05",
	"02-Jan-2006",
	"02/01/2006",
}

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// ParseDate attempts to interpret input as a date. It never fails loudly:
// the second return value reports whether parsing succeeded.
func ParseDate(input string) (time.Time, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDateString formats a loosely formatted date string, returning the
// placeholder when the input cannot be parsed.
func FormatDateString(input, layout string) string {
	t, ok := ParseDate(input)
	if !ok {
		return Placeholder
	}
	return t.Format(layout)
}

// FormatDate formats a concrete time value.
func FormatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format(layout)
}

// FormatOptionalDate formats a nullable time value.
func FormatOptionalDate(t *time.Time, layout string) string {
	if t == nil {
		return Placeholder
	}
	return FormatDate(*t, layout)
}

// SanitizeText prepares free text for embedding in a single CSV cell: it
// trims surrounding whitespace, collapses any run of line breaks into one
// space, and truncates to 255 characters. Empty input becomes the
// placeholder. Delimiter escaping is the CSV writer's job, not this one's.
func SanitizeText(input string) string {
	out := lineBreaks.ReplaceAllString(input, " ")
	out = strings.TrimSpace(out)
	if out == "" {
		return Placeholder
	}
	if runes := []rune(out); len(runes) > 255 {
		out = string(runes[:255])
	}
	return out
}

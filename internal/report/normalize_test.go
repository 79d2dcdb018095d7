package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDateLayouts(t *testing.T) {
	for _, input := range []string{
		"2024-03-15T10:30:00Z",
		"2024-03-15 10:30:00",
		"2024-03-15",
		"15-Mar-2024",
		"15/03/2024",
	} {
		parsed, ok := ParseDate(input)
		require.True(t, ok, "expected %q to parse", input)
		require.Equal(t, 2024, parsed.Year())
		require.Equal(t, time.March, parsed.Month())
		require.Equal(t, 15, parsed.Day())
	}

	_, ok := ParseDate("not a date")
	require.False(t, ok)
	_, ok = ParseDate("")
	require.False(t, ok)
}

func TestFormatDateStringFallsBackToPlaceholder(t *testing.T) {
	require.Equal(t, "15-Mar-2024", FormatDateString("2024-03-15", DateLayout))
	require.Equal(t, Placeholder, FormatDateString("garbage", DateLayout))
	require.Equal(t, Placeholder, FormatDateString("", DateLayout))
}

func TestFormatOptionalDate(t *testing.T) {
	require.Equal(t, Placeholder, FormatOptionalDate(nil, DateLayout))

	target := time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "01-Dec-2024", FormatOptionalDate(&target, DateLayout))

	var zero time.Time
	require.Equal(t, Placeholder, FormatOptionalDate(&zero, DateLayout))
}

func TestSanitizeText(t *testing.T) {
	require.Equal(t, Placeholder, SanitizeText(""))
	require.Equal(t, Placeholder, SanitizeText("   "))
	require.Equal(t, "hello", SanitizeText("  hello  "))
	require.Equal(t, "line one line two", SanitizeText("line one\r\nline two"))
	require.Equal(t, "a b", SanitizeText("a\n\n\r\nb"))

	long := strings.Repeat("x", 300)
	require.Len(t, SanitizeText(long), 255)
}

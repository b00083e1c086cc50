// Package render holds shared text formatting for report views.
package render

import (
	"math"
	"strconv"
	"strings"
)

// ContinuationMark is appended when a report body is cut at the ceiling.
const ContinuationMark = "… (continued)"

// Unknown is the display fallback for absent text fields. It is applied
// only at render time; the store keeps absence explicit.
const Unknown = "Unknown"

// Value formats a monetary value: rounded to a whole number with spaces as
// thousands separators.
func Value(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	s := strconv.FormatInt(int64(math.Round(v)), 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Text substitutes the Unknown fallback for absent values.
func Text(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}

// Lines joins report lines, cutting at the limit with a visible
// continuation marker. A line is never split in the middle; the result
// never exceeds limit bytes. The marker only appears when something was
// actually cut, so a body that just fits is left whole.
func Lines(lines []string, limit int) string {
	full := strings.Join(lines, "\n")
	if len(full) <= limit {
		return full
	}

	mark := "\n" + ContinuationMark
	var b strings.Builder
	for _, line := range lines {
		sep := 0
		if b.Len() > 0 {
			sep = 1
		}
		if b.Len()+sep+len(line)+len(mark) > limit {
			break
		}
		if sep == 1 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if b.Len() == 0 {
		return ContinuationMark
	}
	return b.String() + mark
}

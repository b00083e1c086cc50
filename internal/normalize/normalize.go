// Package normalize converts raw spreadsheet cell values into typed fields.
// Every function is total: bad input yields a defined fallback, never an error.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/shuhratov/loyihabot/internal/domain/record"
)

// dateFormats is tried in order; the first successful parse wins. Ordering
// matters: day-first four-digit-year formats take priority over year-first
// and two-digit-year ones.
var dateFormats = []string{
	"02.01.2006", "02/01/2006", "02-01-2006",
	"2006-01-02", "2006.01.02", "2006/01/02",
	"02.01.06", "02/01/06", "02-01-06",
}

// Size keyword lists, checked in priority order small, medium, large.
// The spreadsheet mixes Latin and Cyrillic labels.
var (
	smallKeywords  = []string{"кичик", "small"}
	mediumKeywords = []string{"ўрта", "орта", "medium"}
	largeKeywords  = []string{"йирик", "large"}
)

// Text trims a raw cell. Absent values come back as "", which renders as
// "Unknown" at the presentation layer.
func Text(raw string) string {
	return strings.TrimSpace(raw)
}

// Number parses a decimal cell, tolerating embedded spaces and thousands
// separators. Parse failure, absence, and negative values all normalize
// to 0.
func Number(raw string) float64 {
	clean := strings.NewReplacer(" ", "", " ", "", ",", "").Replace(strings.TrimSpace(raw))
	if clean == "" {
		return 0
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Problem normalizes a problem label. Sentinel spellings of "no active
// problem" collapse to the empty string so the store never carries them.
func Problem(raw string) string {
	label := strings.TrimSpace(raw)
	switch strings.ToLower(label) {
	case "", "none", "yuq", "nomalum", "unknown":
		return ""
	}
	return label
}

// Size maps a free-text size label onto a bucket by case-insensitive keyword
// substring match. First match wins; no match means unset.
func Size(raw string) record.SizeBucket {
	label := strings.ToLower(strings.TrimSpace(raw))
	if label == "" {
		return record.SizeUnset
	}
	for _, kw := range smallKeywords {
		if strings.Contains(label, kw) {
			return record.SizeSmall
		}
	}
	for _, kw := range mediumKeywords {
		if strings.Contains(label, kw) {
			return record.SizeMedium
		}
	}
	for _, kw := range largeKeywords {
		if strings.Contains(label, kw) {
			return record.SizeLarge
		}
	}
	return record.SizeUnset
}

// Date parses a calendar date by trying each known format in order.
// ok is false if no format matches or the cell is empty.
func Date(raw string) (t time.Time, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

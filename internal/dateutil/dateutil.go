// Package dateutil formats and parses the date strings used in PDF metadata.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate indicates a date value that matches none of the accepted layouts.
var ErrInvalidDate = errors.New("invalid date")

// pdfLayout is the digit run of a PDF date (YYYYMMDDHHMMSS).
const pdfLayout = "20060102150405"

// pdfSuffix is the fixed UTC offset written after every PDF date.
const pdfSuffix = "+00'00'"

// inputLayouts are tried in order by ParseDate.
var inputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FormatPDF renders t as a PDF date string, for example D:20240131093000+00'00'.
// The time is converted to UTC so the offset suffix holds.
func FormatPDF(t time.Time) string {
	return "D:" + t.UTC().Format(pdfLayout) + pdfSuffix
}

// ParseDate resolves a user supplied date.
// "now" (any case) returns now; otherwise RFC 3339 and a few ISO-like
// layouts are accepted, interpreted in UTC when they carry no zone.
func ParseDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	if strings.EqualFold(value, "now") {
		return now, nil
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (use now, YYYY-MM-DD or RFC 3339)", ErrInvalidDate, value)
}

package models

import "time"

// ISOLayout is the canonical timestamp format: UTC with millisecond precision.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// FormatISO renders t in ISOLayout.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// Package timeutil provides UTC calendar helpers for the Stats Hub.
// All bucketing and windowing in the engine is done in UTC; this package
// keeps the day arithmetic in one place.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a UTC midnight timestamp for the given calendar day.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// StartOfDay returns midnight UTC of the timestamp's calendar day.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last nanosecond of the timestamp's UTC calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

// NextDay returns midnight UTC of the following calendar day.
func NextDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24 * time.Hour)
}

// TrailingWindow returns the half-open interval [from, to) covering the last
// days UTC calendar days, ending with the day of now inclusive.
func TrailingWindow(now time.Time, days int) (from, to time.Time) {
	today := StartOfDay(now)
	return today.AddDate(0, 0, -(days - 1)), today.Add(24 * time.Hour)
}

// IsSameDay reports whether two timestamps fall on the same UTC calendar day.
func IsSameDay(t1, t2 time.Time) bool {
	return StartOfDay(t1).Equal(StartOfDay(t2))
}

// IsToday reports whether the timestamp falls on the current UTC day.
func IsToday(t time.Time) bool {
	return IsSameDay(t, Now())
}

// DaysBetween returns the number of whole UTC calendar days from t1 to t2.
// Negative when t2 is before t1.
func DaysBetween(t1, t2 time.Time) int {
	d1 := StartOfDay(t1)
	d2 := StartOfDay(t2)
	return int(d2.Sub(d1).Hours() / 24)
}

// FormatDate renders a timestamp as its UTC date, e.g. "2025-05-10".
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormatRFC3339 renders a timestamp in UTC RFC 3339.
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseDate parses a "2006-01-02" date as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// Package week derives the weekly snapshot identifier.
package week

import (
	"fmt"
	"regexp"
	"time"
)

const daysPerWeek = 7

var pattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ID returns the "YYYY-WW" identifier for t, evaluated in UTC.
//
// Weeks start on Sunday. Week 01 is the (possibly partial) week containing
// January 1st, so a year has 53 or 54 weeks. The identifier sorts
// lexicographically in chronological order.
func ID(t time.Time) string {
	t = t.UTC()
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := int(jan1.Weekday()) // days of week 01 that fall in the previous year
	n := (t.YearDay()-1+offset)/daysPerWeek + 1
	return fmt.Sprintf("%04d-%02d", t.Year(), n)
}

// Valid reports whether id has the "YYYY-WW" shape.
func Valid(id string) bool {
	return pattern.MatchString(id)
}

// Package format holds the pure display helpers used by presentation code.
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// INR renders a rupee amount with Indian digit grouping.
func INR(value float64) string {
	return "₹" + inrPrinter.Sprintf("%v", number.Decimal(value))
}

const defaultEllipsis = "..."

// Truncate shortens s to at most limit runes, ellipsis included.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	cut := limit - len(defaultEllipsis)
	if cut < 0 {
		cut = 0
	}

	return string(runes[:cut]) + defaultEllipsis
}

// Pluralize prefixes the count and appends "s" unless an irregular plural is
// given.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}

	if plural == "" {
		plural = singular + "s"
	}

	return fmt.Sprintf("%d %s", count, plural)
}

type interval struct {
	unit    string
	seconds int64
}

// Ordered largest first so the coarsest fitting unit wins.
var intervals = []interval{
	{unit: "year", seconds: 31536000},
	{unit: "month", seconds: 2592000},
	{unit: "week", seconds: 604800},
	{unit: "day", seconds: 86400},
	{unit: "hour", seconds: 3600},
	{unit: "minute", seconds: 60},
}

// TimeAgo renders t relative to now, e.g. "2 hours ago".
func TimeAgo(t, now time.Time) string {
	seconds := int64(now.Sub(t).Seconds())
	if seconds < 60 {
		return "just now"
	}

	for _, iv := range intervals {
		count := seconds / iv.seconds
		if count >= 1 {
			return Pluralize(int(count), iv.unit, "") + " ago"
		}
	}

	return "just now"
}

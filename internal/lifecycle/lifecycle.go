// Package lifecycle is the shared calendar-date primitive for subscription
// status, reminder windows and renewal rollover. Dates are calendar days with
// local-midnight semantics; day arithmetic normalizes through UTC so a DST
// transition between two local midnights can never shift the difference.
package lifecycle

import (
	"strconv"
	"strings"
	"time"

	"github.com/dromara/carbon/v2"
)

// ExpiringWindowDays bounds the "expiring/recently expired" queue on both
// sides of today. NotifyThresholdDays is the single day that triggers a
// renewal reminder.
const (
	ExpiringWindowDays  = 7
	NotifyThresholdDays = 7
)

// ParseCalendarDate parses a YYYY-MM-DD string into local midnight of that
// calendar day. A trailing time or zone suffix (after 'T' or a space) is
// discarded rather than interpreted, so the day never shifts with the local
// timezone. Empty or malformed input returns ok=false, never an error or
// panic; callers exclude such records from date-based classification.
func ParseCalendarDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	year, month, day := nums[0], nums[1], nums[2]
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
}

// FormatCalendarDate renders a date back to its YYYY-MM-DD storage form.
func FormatCalendarDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DaysUntilDue returns the signed calendar-day difference dueDate - today.
func DaysUntilDue(dueDate, today time.Time) int {
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	ref := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(due.Sub(ref) / (24 * time.Hour))
}

// IsActive reports whether a subscription due on dueDate still counts as
// active relative to today. The boundary is inclusive: due today is active.
func IsActive(dueDate, today time.Time) bool {
	return DaysUntilDue(dueDate, today) >= 0
}

// IsExpiringWindow reports whether a day difference falls in the ±7 day band
// used to populate the reminder queue.
func IsExpiringWindow(daysUntilDue int) bool {
	return daysUntilDue >= -ExpiringWindowDays && daysUntilDue <= ExpiringWindowDays
}

// IsNotifyThreshold reports whether a day difference is exactly the reminder
// trigger point. This is deliberately narrower than IsExpiringWindow.
func IsNotifyThreshold(daysUntilDue int) bool {
	return daysUntilDue == NotifyThresholdDays
}

// RolloverDueDate computes the due date after a renewal. An active
// subscription extends from its current due date; an expired one extends from
// today, so early renewals are never penalized and lapsed accounts get no
// free time. Month addition clamps to the end of shorter months (Jan 31 plus
// one month is the last day of February).
func RolloverDueDate(currentDueDate, today time.Time, planMonths int) time.Time {
	if planMonths < 1 {
		planMonths = 1
	}

	base := today
	if IsActive(currentDueDate, today) {
		base = currentDueDate
	}

	next := carbon.CreateFromDate(base.Year(), int(base.Month()), base.Day()).
		AddMonthsNoOverflow(planMonths)
	return time.Date(next.Year(), time.Month(next.Month()), next.Day(), 0, 0, 0, 0, time.Local)
}

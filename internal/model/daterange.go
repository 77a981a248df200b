package model

import (
	"errors"
	"fmt"
	"time"
)

// monthFormat is the CLI month syntax, e.g. "2019/01".
const monthFormat = "2006/01"

// Range resolution errors. Callers use errors.Is to map these to
// validation failures.
var (
	ErrInvalidMonth = errors.New("expected YYYY/MM")
	ErrInvalidRange = errors.New("start month is after end month")
)

// DateRange is the inclusive, month-aligned interval a report covers.
// Start is always the first day of a month and End the last day of a
// (possibly different) month, both at midnight UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ResolveRange turns optional --start/--end month arguments into a
// concrete DateRange. Both empty means the month containing now. A lone
// start or end is filled in with the current month for the missing side.
func ResolveRange(start, end string, now time.Time) (DateRange, error) {
	startMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	endMonth := startMonth

	if start != "" {
		m, err := parseMonth(start)
		if err != nil {
			return DateRange{}, err
		}
		startMonth = m
	}
	if end != "" {
		m, err := parseMonth(end)
		if err != nil {
			return DateRange{}, err
		}
		endMonth = m
	}

	if startMonth.After(endMonth) {
		return DateRange{}, fmt.Errorf("%s to %s: %w",
			startMonth.Format(monthFormat), endMonth.Format(monthFormat), ErrInvalidRange)
	}

	return DateRange{
		Start: startMonth,
		End:   lastDayOfMonth(endMonth),
	}, nil
}

func parseMonth(s string) (time.Time, error) {
	m, err := time.ParseInLocation(monthFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", s, ErrInvalidMonth)
	}
	return m, nil
}

// lastDayOfMonth returns midnight on the last calendar day of m's month.
// Day zero of the following month normalizes to it, leap years included.
func lastDayOfMonth(m time.Time) time.Time {
	return time.Date(m.Year(), m.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// Title returns the range in the form used for sheet and file names,
// e.g. "2019_01-2019_03".
func (r DateRange) Title() string {
	return r.Start.Format("2006_01") + "-" + r.End.Format("2006_01")
}

// BusinessDays counts the weekdays (Monday through Friday) in the range,
// both endpoints inclusive. Public holidays are not considered.
func (r DateRange) BusinessDays() int {
	days := 0
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}

// WorkHours returns the reported working hours for the range at eight
// hours per business day. A positive businessDays overrides the count
// derived from the calendar.
func (r DateRange) WorkHours(businessDays int) int {
	if businessDays <= 0 {
		businessDays = r.BusinessDays()
	}
	return businessDays * 8
}

package shared

import (
	"math"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DateOnly truncates t to midnight of its calendar day in t's location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MonthKey formats t as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// SameDayIn is midnight in loc of the calendar day t names in its own location.
// A date parsed as UTC midnight keeps its day instead of shifting across zones.
func SameDayIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ResolveDateRange fills missing bounds: end defaults to today and start to end minus days.
// Bounds are calendar days in now's location.
func ResolveDateRange(start, end *time.Time, days int, now time.Time) (DateRange, error) {
	loc := now.Location()
	r := DateRange{End: DateOnly(now)}
	if end != nil {
		r.End = SameDayIn(*end, loc)
	}
	if start != nil {
		r.Start = SameDayIn(*start, loc)
	} else {
		r.Start = r.End.AddDate(0, 0, -days)
	}
	if r.Start.After(r.End) {
		return DateRange{}, NewDomainError(ErrInvalidInput.Code, "start_date must not be after end_date")
	}
	return r, nil
}

// Contains reports whether t falls on any day in the range.
func (r DateRange) Contains(t time.Time) bool {
	d := DateOnly(t.In(r.Start.Location()))
	return !d.Before(r.Start) && !d.After(r.End)
}

// EndExclusive is the first instant after the range, for half-open SQL predicates.
func (r DateRange) EndExclusive() time.Time {
	return r.End.AddDate(0, 0, 1)
}

// Days returns the number of calendar days covered.
func (r DateRange) Days() int {
	return int(math.Round(r.End.Sub(r.Start).Hours()/24)) + 1
}

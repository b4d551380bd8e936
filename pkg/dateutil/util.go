package dateutil

import (
	"time"
)

const DayFormat = "2006-01-02"

// CurrentDay returns the UTC midnight of the day containing t.
func CurrentDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CurrentWeek returns the UTC midnight of the Monday of the week containing t.
func CurrentWeek(t time.Time) time.Time {
	t = CurrentDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week started six days before.
	}

	return t.AddDate(0, 0, 1-weekday)
}

// CurrentMonth returns the UTC midnight of the first day of the month
// containing t.
func CurrentMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextDay returns the UTC midnight following t.
func NextDay(t time.Time) time.Time {
	return CurrentDay(t).AddDate(0, 0, 1)
}

func LastDay(t time.Time) time.Time {
	return t.AddDate(0, 0, -1)
}

func LastWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, -7)
}

func LastMonth(t time.Time) time.Time {
	return t.AddDate(0, -1, 0)
}

// DayString formats t as a calendar date in the given location. An empty or
// invalid timezone name falls back to UTC so a broken client preference never
// fails the request.
func DayString(t time.Time, timezone string) string {
	loc := time.UTC
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		}
	}

	return t.In(loc).Format(DayFormat)
}

// PreviousDayString formats the calendar day before t in the given location.
// The subtraction happens on the localized time, so day boundaries stay
// correct across DST shifts.
func PreviousDayString(t time.Time, timezone string) string {
	loc := time.UTC
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		}
	}

	return t.In(loc).AddDate(0, 0, -1).Format(DayFormat)
}

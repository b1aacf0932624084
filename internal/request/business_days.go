package request

import "time"

// BusinessDays counts Monday-Friday days in the inclusive range. Public
// holidays are a calendar concern and do not reduce the request's day count.
func BusinessDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		days++
	}
	return days
}

package core

import "time"

// BuildSchedule produces one ScheduleItem per month for n months starting
// at the month of start, preserving the start day-of-month. When that day
// does not exist in a shorter month, time.Date normalizes the overflow
// into the following month (Jan 31 + 1 month = Mar 2/3), matching the
// date-rollover behavior the tracker has always had.
//
// Pure function: all items come back unpaid with no entry reference.
func BuildSchedule(start time.Time, n int) []ScheduleItem {
	if n < 1 {
		return nil
	}
	year, month, day := start.Date()
	items := make([]ScheduleItem, 0, n)
	for i := 0; i < n; i++ {
		due := time.Date(year, month+time.Month(i), day, 0, 0, 0, 0, time.UTC)
		items = append(items, ScheduleItem{
			Year:       due.Year(),
			MonthIndex: int(due.Month()) - 1,
			DueDate:    due,
			Paid:       false,
		})
	}
	return items
}

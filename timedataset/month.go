package timedataset

import "time"

// MonthEnd returns midnight UTC on the last calendar day of the month containing t.
func MonthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// AddMonths advances t by n calendar months and normalizes the result to month-end. Day of month
// overflow never spills into the following month.
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return MonthEnd(first)
}

// MonthKey maps t to a monotonically increasing integer that is identical for every instant of the
// same calendar month.
func MonthKey(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// MonthsBetween returns the number of calendar months from a to b. Negative when b precedes a.
func MonthsBetween(a, b time.Time) int {
	return MonthKey(b) - MonthKey(a)
}

// MonthRange returns every month-end from the month of start through the month of end inclusive.
func MonthRange(start, end time.Time) []time.Time {
	n := MonthsBetween(start, end) + 1
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, AddMonths(start, i))
	}
	return out
}

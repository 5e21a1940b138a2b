package timedataset

import (
	"time"
)

type TimeSlice []time.Time

func (t TimeSlice) StartTime() time.Time {
	var startTime time.Time
	if len(t) < 1 {
		return startTime
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	var lastTime time.Time
	if len(t) < 1 {
		return lastTime
	}

	lastTime = t[len(t)-1]
	return lastTime
}

// IsMonthly reports whether every point is a month-end and consecutive points are exactly one
// calendar month apart.
func (t TimeSlice) IsMonthly() bool {
	for i, tPnt := range t {
		if !tPnt.Equal(MonthEnd(tPnt)) {
			return false
		}
		if i > 0 && MonthsBetween(t[i-1], tPnt) != 1 {
			return false
		}
	}
	return true
}

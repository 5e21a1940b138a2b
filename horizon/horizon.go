// Package horizon generates the future months to forecast after a historical series ends.
package horizon

import (
	"time"

	"github.com/aouyang1/go-climate-forecaster/timedataset"
)

// TerminalDate is the last month every forecast extends through
var TerminalDate = time.Date(2050, 12, 31, 0, 0, 0, 0, time.UTC)

// Generate returns the month-ends following last through the month of terminal inclusive. The
// start is last advanced one calendar month and normalized to month-end. The result is empty when
// last already reaches the terminal month.
func Generate(last, terminal time.Time) []time.Time {
	n := Len(last, terminal)
	if n == 0 {
		return []time.Time{}
	}
	return timedataset.MonthRange(timedataset.AddMonths(last, 1), terminal)
}

// Len returns the number of horizon months Generate would produce
func Len(last, terminal time.Time) int {
	n := timedataset.MonthsBetween(last, terminal)
	if n < 0 {
		return 0
	}
	return n
}

package feature

import (
	"fmt"
	"strings"
	"time"

	mat_ "github.com/aouyang1/go-climate-forecaster/mat"
	"gonum.org/v1/gonum/mat"
)

const (
	CalendarYear        = "year"
	CalendarMonth       = "month"
	CalendarMonthSquare = "month_sq"
	CalendarYearSquare  = "year_sq"
)

// Calendar is a polynomial term of the calendar year or month of a date
type Calendar struct {
	Name string `json:"name"`
}

func NewCalendar(name string) *Calendar {
	return &Calendar{name}
}

func (c Calendar) String() string {
	return fmt.Sprintf("cal_%s", c.Name)
}

func (c Calendar) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return c.Name, true
	}
	return "", false
}

func (c Calendar) Type() FeatureType {
	return FeatureTypeCalendar
}

func (c Calendar) Decode() map[string]string {
	return map[string]string{"name": c.Name}
}

// CalendarLabels returns the calendar basis labels in column order
func CalendarLabels() []Feature {
	return []Feature{
		NewCalendar(CalendarYear),
		NewCalendar(CalendarMonth),
		NewCalendar(CalendarMonthSquare),
		NewCalendar(CalendarYearSquare),
	}
}

// CalendarBasis returns [year, month, month^2, year^2] for t
func CalendarBasis(t time.Time) []float64 {
	year := float64(t.Year())
	month := float64(t.Month())
	return []float64{year, month, month * month, year * year}
}

// CalendarMatrix stacks the calendar basis of every time point into an m x 4 design matrix
func CalendarMatrix(t []time.Time) (*mat.Dense, error) {
	rows := make([][]float64, 0, len(t))
	for _, tPnt := range t {
		rows = append(rows, CalendarBasis(tPnt))
	}
	return mat_.NewDenseFromArray(rows)
}

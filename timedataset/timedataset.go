// Package timedataset holds univariate time series and the month-end calendar helpers used to
// index them.
package timedataset

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNonMontonic        = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrDuplicateMonth     = errors.New("multiple observations fall in the same month")
)

// TimeDataset represents a time series storing a slice of time points and values.
// Both must be of the same length.
type TimeDataset struct {
	T []time.Time
	Y []float64
}

// NewUnivariateDataset returns an instance of a TimeDataset given a time and value slice.
func NewUnivariateDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	var lastT time.Time
	for i := 0; i < len(t); i++ {
		currT := t[i]
		if i > 0 && !currT.After(lastT) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMontonic)
		}
		lastT = currT
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	td := &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}

	return td, nil
}

// NewMonthlyDataset normalizes every time point to the last day of its month and returns a
// dataset with exactly one point per calendar month between the first and last observation.
// Months without an observation are present with a NaN value and are never interpolated.
func NewMonthlyDataset(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	for i := 1; i < len(t); i++ {
		prev, curr := MonthKey(t[i-1]), MonthKey(t[i])
		if curr == prev {
			return nil, fmt.Errorf("%s at %d, %w", MonthEnd(t[i]).Format(time.DateOnly), i, ErrDuplicateMonth)
		}
		if curr < prev {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMontonic)
		}
	}

	months := MonthRange(t[0], t[len(t)-1])
	values := make([]float64, len(months))
	for i := range values {
		values[i] = math.NaN()
	}
	start := MonthKey(t[0])
	for i, tPnt := range t {
		values[MonthKey(tPnt)-start] = y[i]
	}

	return &TimeDataset{
		T: months,
		Y: values,
	}, nil
}

// Copy returns a deep copy of the dataset
func (td *TimeDataset) Copy() *TimeDataset {
	tSeries := make([]time.Time, len(td.T))
	ySeries := make([]float64, len(td.T))
	copy(tSeries, td.T)
	copy(ySeries, td.Y)
	return &TimeDataset{
		T: tSeries,
		Y: ySeries,
	}
}

// Len returns the number of points in the dataset
func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.T)
}

// DropNaN returns a copy of the dataset without the NaN observations
func (td *TimeDataset) DropNaN() *TimeDataset {
	t := make([]time.Time, 0, len(td.T))
	y := make([]float64, 0, len(td.Y))
	for i := 0; i < len(td.T); i++ {
		if math.IsNaN(td.Y[i]) {
			continue
		}
		t = append(t, td.T[i])
		y = append(y, td.Y[i])
	}
	return &TimeDataset{T: t, Y: y}
}

// Since returns a copy of the dataset only containing points at or after start
func (td *TimeDataset) Since(start time.Time) *TimeDataset {
	out := &TimeDataset{
		T: make([]time.Time, 0, len(td.T)),
		Y: make([]float64, 0, len(td.Y)),
	}
	for i := 0; i < len(td.T); i++ {
		if td.T[i].Before(start) {
			continue
		}
		out.T = append(out.T, td.T[i])
		out.Y = append(out.Y, td.Y[i])
	}
	return out
}

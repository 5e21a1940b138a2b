package timedataset

import (
	"math"
	"sort"
	"time"
)

// ResampleMonthlyMean buckets unordered observations by calendar month and averages the non-NaN
// values of each bucket. The result spans the first through the last month holding a valid value;
// months without any valid value are NaN.
func ResampleMonthlyMean(t []time.Time, y []float64) (*TimeDataset, error) {
	if len(t) != len(y) {
		return nil, ErrDatasetLenMismatch
	}

	type bucket struct {
		sum float64
		cnt int
	}
	buckets := make(map[int]*bucket)
	for i, tPnt := range t {
		if math.IsNaN(y[i]) {
			continue
		}
		key := MonthKey(tPnt)
		b, exists := buckets[key]
		if !exists {
			b = new(bucket)
			buckets[key] = b
		}
		b.sum += y[i]
		b.cnt++
	}
	if len(buckets) == 0 {
		return nil, ErrNoTrainingData
	}

	keys := make([]int, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	monthT := make([]time.Time, 0, len(keys))
	monthY := make([]float64, 0, len(keys))
	for _, key := range keys {
		b := buckets[key]
		monthT = append(monthT, monthFromKey(key))
		monthY = append(monthY, b.sum/float64(b.cnt))
	}
	return NewMonthlyDataset(monthT, monthY)
}

// Interpolate fills interior NaN values by linear interpolation weighted by elapsed time between
// the surrounding valid observations. Leading and trailing NaNs are left untouched.
func (td *TimeDataset) Interpolate() *TimeDataset {
	out := td.Copy()

	prev := -1
	for i := 0; i < len(out.Y); i++ {
		if math.IsNaN(out.Y[i]) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			span := out.T[i].Sub(out.T[prev]).Seconds()
			for j := prev + 1; j < i; j++ {
				frac := out.T[j].Sub(out.T[prev]).Seconds() / span
				out.Y[j] = out.Y[prev] + frac*(out.Y[i]-out.Y[prev])
			}
		}
		prev = i
	}
	return out
}

func monthFromKey(key int) time.Time {
	return MonthEnd(time.Date(key/12, time.Month(key%12+1), 1, 0, 0, 0, 0, time.UTC))
}

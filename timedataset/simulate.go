package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateMonthlyT returns n consecutive month-ends starting at the month of start
func GenerateMonthlyT(start time.Time, n int) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, AddMonths(start, i))
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// SetNaN blanks out the values in [start, end)
func (s Series) SetNaN(t []time.Time, start, end time.Time) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		if (t[i].After(start) || t[i].Equal(start)) && t[i].Before(end) {
			s[i] = math.NaN()
		}
	}
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateTrendY returns a straight line increasing by slope every step
func GenerateTrendY(n int, slope float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, slope*float64(i))
	}
	return Series(y)
}

// GenerateSeasonalY returns a sine wave repeating every periodMonths with the phase offset in
// months. The phase is anchored on the calendar month so the wave is stable across start dates.
func GenerateSeasonalY(t []time.Time, amp, periodMonths, phaseMonths float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		m := float64(MonthKey(t[i]))
		y = append(y, amp*math.Sin(2.0*math.Pi/periodMonths*(m+phaseMonths)))
	}
	return Series(y)
}

// GenerateNoise returns normally distributed noise scaled by noiseScale drawn from rng
func GenerateNoise(n int, noiseScale float64, rng *rand.Rand) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rng.NormFloat64()*noiseScale)
	}
	return Series(y)
}

package seasonal

import (
	"bytes"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/aouyang1/go-climate-forecaster/timedataset"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seasonalPattern = []float64{0, 2, 5, 9, 7, 4, 1, -3, -6, -8, -5, -2}

// integerSeries is a linear trend plus a fixed monthly pattern whose differences are exactly zero
func integerSeries(start time.Time, n int) ([]time.Time, []float64) {
	t := timedataset.GenerateMonthlyT(start, n)
	y := make([]float64, n)
	for i := range y {
		y[i] = 100 + 2*float64(i) + seasonalPattern[i%12]
	}
	return t, y
}

func TestSARIMAExactContinuation(t *testing.T) {
	start := time.Date(1990, 1, 31, 0, 0, 0, 0, time.UTC)
	n := 20 * 12
	tSeries, y := integerSeries(start, n+36)

	s, err := New(nil)
	require.Nil(t, err)
	require.Nil(t, s.Fit(tSeries[:n], y[:n]))
	assert.True(t, s.Trained())
	assert.Equal(t, tSeries[n-1], s.TrainEndTime())

	fc, err := s.Forecast(36)
	require.Nil(t, err)
	require.Len(t, fc.Mean, 36)
	assert.InDeltaSlice(t, y[n:], fc.Mean, 1e-9)
	assert.Equal(t, tSeries[n:], fc.T)
	assert.Equal(t, fc.Mean, fc.Lower)
	assert.Equal(t, fc.Mean, fc.Upper)

	scores := s.Scores()
	require.NotNil(t, scores)
	assert.InDelta(t, 0.0, scores.MSE, 1e-12)
}

func TestSARIMANoisySeries(t *testing.T) {
	start := time.Date(1985, 1, 31, 0, 0, 0, 0, time.UTC)
	n := 30 * 12
	steps := 24
	tSeries := timedataset.GenerateMonthlyT(start, n+steps)

	truth := timedataset.GenerateConstY(n+steps, 50).
		Add(timedataset.GenerateTrendY(n+steps, 0.1)).
		Add(timedataset.GenerateSeasonalY(tSeries, 3.0, 12, 0))
	noise := timedataset.GenerateNoise(n, 0.01, rand.New(rand.NewPCG(1, 2)))
	y := make([]float64, n)
	copy(y, truth[:n])
	timedataset.Series(y).Add(noise)

	s, err := New(NewDefaultOptions())
	require.Nil(t, err)
	require.Nil(t, s.Fit(tSeries[:n], y))

	fc, err := s.Forecast(steps)
	require.Nil(t, err)
	require.Len(t, fc.Mean, steps)
	assert.InDeltaSlice(t, []float64(truth[n:]), fc.Mean, 0.5)

	for i := range fc.Mean {
		assert.LessOrEqual(t, fc.Lower[i], fc.Mean[i])
		assert.GreaterOrEqual(t, fc.Upper[i], fc.Mean[i])
		if i > 0 {
			assert.GreaterOrEqual(t, fc.Upper[i]-fc.Lower[i], fc.Upper[i-1]-fc.Lower[i-1])
		}
	}
}

func TestSARIMAErrors(t *testing.T) {
	start := time.Date(2000, 1, 31, 0, 0, 0, 0, time.UTC)

	t.Run("insufficient data", func(t *testing.T) {
		tSeries, y := integerSeries(start, 30)
		s, err := New(nil)
		require.Nil(t, err)
		assert.ErrorIs(t, s.Fit(tSeries, y), ErrInsufficientTrainingData)
	})

	t.Run("nan in data", func(t *testing.T) {
		tSeries, y := integerSeries(start, 240)
		y[10] = math.NaN()
		s, err := New(nil)
		require.Nil(t, err)
		assert.ErrorIs(t, s.Fit(tSeries, y), ErrNaNInTrainingData)
	})

	t.Run("length mismatch", func(t *testing.T) {
		tSeries, y := integerSeries(start, 240)
		s, err := New(nil)
		require.Nil(t, err)
		assert.ErrorIs(t, s.Fit(tSeries[:10], y), timedataset.ErrDatasetLenMismatch)
	})

	t.Run("untrained", func(t *testing.T) {
		s, err := New(nil)
		require.Nil(t, err)
		_, err = s.Forecast(3)
		assert.ErrorIs(t, err, ErrUntrainedSARIMA)

		_, err = s.Model()
		assert.ErrorIs(t, err, ErrUntrainedSARIMA)
	})

	t.Run("nil receiver", func(t *testing.T) {
		var s *SARIMA
		_, err := s.Forecast(3)
		assert.ErrorIs(t, err, ErrUninitializedSARIMA)
		assert.False(t, s.Trained())
		assert.True(t, s.TrainEndTime().IsZero())
	})

	t.Run("negative steps", func(t *testing.T) {
		tSeries, y := integerSeries(start, 240)
		s, err := New(nil)
		require.Nil(t, err)
		require.Nil(t, s.Fit(tSeries, y))

		_, err = s.Forecast(-1)
		assert.ErrorIs(t, err, ErrNegativeSteps)

		fc, err := s.Forecast(0)
		require.Nil(t, err)
		assert.Empty(t, fc.Mean)
		assert.NotNil(t, fc.T)
	})
}

func TestOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt *Options
		err error
	}{
		"nil": {
			nil, nil,
		},
		"negative order": {
			&Options{AR: -1}, ErrNegativeOrder,
		},
		"too much differencing": {
			&Options{Diff: 3}, ErrDifferencingOrder,
		},
		"too much seasonal differencing": {
			&Options{SeasonalDiff: 2, Period: 12}, ErrDifferencingOrder,
		},
		"missing period": {
			&Options{SeasonalAR: 1}, ErrNonPositivePeriod,
		},
		"negative long order": {
			&Options{LongAROrder: -1}, ErrNegativeLongAROrder,
		},
		"non seasonal": {
			&Options{AR: 2, Diff: 1, MA: 1}, nil,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := td.opt.Validate()
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestOptionsLags(t *testing.T) {
	opt := NewDefaultOptions()
	assert.Equal(t, []int{1, 12, 13}, opt.arLags())
	assert.Equal(t, []int{1, 12, 13}, opt.maLags())
	assert.Equal(t, []int{1, 12}, opt.diffLags())
	assert.Equal(t, 27, opt.longAROrder())
	assert.Equal(t, "SARIMA(1,1,1)(1,1,1,12)", opt.String())
}

func TestSARIMAModelRoundTrip(t *testing.T) {
	start := time.Date(1980, 1, 31, 0, 0, 0, 0, time.UTC)
	n := 25 * 12
	tSeries := timedataset.GenerateMonthlyT(start, n)
	y := timedataset.GenerateConstY(n, 10).
		Add(timedataset.GenerateTrendY(n, 0.05)).
		Add(timedataset.GenerateSeasonalY(tSeries, 1.5, 12, 2)).
		Add(timedataset.GenerateNoise(n, 0.1, rand.New(rand.NewPCG(7, 11))))

	s, err := New(nil)
	require.Nil(t, err)
	require.Nil(t, s.Fit(tSeries, y))

	model, err := s.Model()
	require.Nil(t, err)
	out, err := json.Marshal(model)
	require.Nil(t, err)

	var decoded Model
	require.Nil(t, json.Unmarshal(out, &decoded))
	s2, err := NewFromModel(decoded)
	require.Nil(t, err)

	expected, err := s.Forecast(18)
	require.Nil(t, err)
	actual, err := s2.Forecast(18)
	require.Nil(t, err)
	assert.InDeltaSlice(t, expected.Mean, actual.Mean, 1e-9)
	assert.Equal(t, expected.T, actual.T)

	var buf bytes.Buffer
	require.Nil(t, decoded.TablePrint(&buf, "", "  "))
	assert.Contains(t, buf.String(), "SARIMA(1,1,1)(1,1,1,12):")

	bad := decoded
	bad.Tails = bad.Tails[:1]
	_, err = NewFromModel(bad)
	assert.ErrorIs(t, err, ErrInvalidModel)

	bad = decoded
	bad.ARCoef = nil
	_, err = NewFromModel(bad)
	assert.ErrorIs(t, err, ErrInvalidModel)
}

func TestIntegrateInvertsDifference(t *testing.T) {
	y := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}
	lag := 3
	d := difference(y, lag)
	res := integrate(d[4:], y[4:4+lag], lag)
	assert.InDeltaSlice(t, y[4+lag:], res, 1e-12)
}

package additive

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/aouyang1/go-climate-forecaster/timedataset"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// additiveCurve is exactly representable by the default feature set given the training window
func additiveCurve(t []time.Time, start, end time.Time) []float64 {
	span := end.Sub(start).Seconds()
	y := make([]float64, len(t))
	for i, tPnt := range t {
		scaled := tPnt.Sub(start).Seconds() / span
		days := float64(tPnt.Unix()) / 86400.0
		y[i] = 10 + 5*scaled +
			3*math.Sin(2*math.Pi*days/DefaultYearlyPeriodDays) +
			math.Cos(2*math.Pi*2*days/DefaultYearlyPeriodDays)
	}
	return y
}

func trainingWindow(n int) []time.Time {
	return timedataset.GenerateMonthlyT(time.Date(1980, 1, 31, 0, 0, 0, 0, time.UTC), n)
}

func TestAdditiveFitPredict(t *testing.T) {
	n := 30 * 12
	all := trainingWindow(n + 24)
	tTrain := all[:n]
	y := additiveCurve(all, tTrain[0], tTrain[n-1])

	a, err := New(nil)
	require.Nil(t, err)
	require.Nil(t, a.Fit(tTrain, y[:n]))
	assert.True(t, a.Trained())
	assert.Equal(t, tTrain[n-1], a.TrainEndTime())

	scores := a.Scores()
	require.NotNil(t, scores)
	assert.InDelta(t, 1.0, scores.R2, 1e-9)

	frame, err := a.Predict(all[n:])
	require.Nil(t, err)
	require.Equal(t, 24, frame.Len())
	assert.Equal(t, all[n:], frame.T)
	assert.InDeltaSlice(t, y[n:], frame.Yhat, 1e-6)

	for i := range frame.T {
		assert.InDelta(t, frame.Yhat[i], frame.Trend[i]+frame.Seasonality[i], 1e-9)
		assert.LessOrEqual(t, frame.YhatLower[i], frame.Yhat[i])
		assert.GreaterOrEqual(t, frame.YhatUpper[i], frame.Yhat[i])
	}
}

func TestAdditivePredictSortsAndDedupes(t *testing.T) {
	n := 20 * 12
	tTrain := trainingWindow(n)
	y := additiveCurve(tTrain, tTrain[0], tTrain[n-1])

	a, err := New(nil)
	require.Nil(t, err)
	require.Nil(t, a.Fit(tTrain, y))

	ds := []time.Time{tTrain[5], tTrain[2], tTrain[5], tTrain[9]}
	frame, err := a.Predict(ds)
	require.Nil(t, err)
	assert.Equal(t, []time.Time{tTrain[2], tTrain[5], tTrain[9]}, frame.T)
	assert.InDeltaSlice(t, []float64{y[2], y[5], y[9]}, frame.Yhat, 1e-6)

	// input is left untouched
	assert.Equal(t, tTrain[5], ds[0])

	frame, err = a.Predict(nil)
	require.Nil(t, err)
	assert.Equal(t, 0, frame.Len())
}

func TestAdditiveLasso(t *testing.T) {
	n := 30 * 12
	tTrain := trainingWindow(n)
	y := additiveCurve(tTrain, tTrain[0], tTrain[n-1])

	opt := NewDefaultOptions()
	opt.Regularization = 0.1
	a, err := New(opt)
	require.Nil(t, err)
	require.Nil(t, a.Fit(tTrain, y))
	assert.Greater(t, a.Scores().R2, 0.95)
}

func TestAdditiveFitSkipsNaN(t *testing.T) {
	n := 20 * 12
	tTrain := trainingWindow(n)
	y := additiveCurve(tTrain, tTrain[0], tTrain[n-1])
	y[100] = math.NaN()

	a, err := New(nil)
	require.Nil(t, err)
	require.Nil(t, a.Fit(tTrain, y))

	frame, err := a.Predict(tTrain[100:101])
	require.Nil(t, err)
	assert.False(t, math.IsNaN(frame.Yhat[0]))
}

func TestAdditiveErrors(t *testing.T) {
	tTrain := trainingWindow(12)
	y := additiveCurve(tTrain, tTrain[0], tTrain[11])

	a, err := New(nil)
	require.Nil(t, err)
	assert.ErrorIs(t, a.Fit(tTrain, y), ErrInsufficientTrainingData)
	assert.ErrorIs(t, a.Fit(tTrain, y[:3]), ErrMismatchedDataLen)

	_, err = a.Predict(tTrain)
	assert.ErrorIs(t, err, ErrUntrainedModel)

	_, err = a.Model()
	assert.ErrorIs(t, err, ErrUntrainedModel)

	var nilModel *Additive
	_, err = nilModel.Predict(tTrain)
	assert.ErrorIs(t, err, ErrUninitializedModel)
	assert.False(t, nilModel.Trained())
	assert.Equal(t, 0, (*Frame)(nil).Len())
}

func TestOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		mutate func(o *Options)
		err    error
	}{
		"defaults": {
			func(o *Options) {}, nil,
		},
		"negative changepoints": {
			func(o *Options) { o.Changepoints = -1 }, ErrNegativeChangepoints,
		},
		"changepoint range": {
			func(o *Options) { o.ChangepointRange = 1.5 }, ErrInvalidChangepointRange,
		},
		"no changepoints ignores range": {
			func(o *Options) { o.Changepoints = 0; o.ChangepointRange = 0 }, nil,
		},
		"negative orders": {
			func(o *Options) { o.YearlyOrders = -1 }, ErrNegativeOrders,
		},
		"zero period": {
			func(o *Options) { o.YearlyPeriodDays = 0 }, ErrNonPositivePeriod,
		},
		"negative regularization": {
			func(o *Options) { o.Regularization = -0.1 }, ErrNegativeRegularization,
		},
		"interval width": {
			func(o *Options) { o.IntervalWidth = 1 }, ErrInvalidIntervalWidth,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt := NewDefaultOptions()
			td.mutate(opt)
			_, err := opt.Validate()
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestAdditiveModelRoundTrip(t *testing.T) {
	n := 20 * 12
	all := trainingWindow(n + 12)
	y := additiveCurve(all, all[0], all[n-1])

	a, err := New(nil)
	require.Nil(t, err)
	require.Nil(t, a.Fit(all[:n], y[:n]))

	model, err := a.Model()
	require.Nil(t, err)
	out, err := json.Marshal(model)
	require.Nil(t, err)

	var decoded Model
	require.Nil(t, json.Unmarshal(out, &decoded))
	a2, err := NewFromModel(decoded)
	require.Nil(t, err)

	expected, err := a.Predict(all[n:])
	require.Nil(t, err)
	actual, err := a2.Predict(all[n:])
	require.Nil(t, err)
	assert.InDeltaSlice(t, expected.Yhat, actual.Yhat, 1e-9)

	var buf bytes.Buffer
	require.Nil(t, decoded.TablePrint(&buf, "", "  "))
	assert.Contains(t, buf.String(), "Prophet:")
	assert.Contains(t, buf.String(), "seasonality")

	_, err = NewFromModel(Model{Options: NewDefaultOptions()})
	assert.ErrorIs(t, err, ErrInvalidModel)
}

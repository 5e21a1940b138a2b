// Package seasonal implements a seasonal autoregressive integrated moving average model fit with
// the two stage Hannan-Rissanen regression
package seasonal

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aouyang1/go-climate-forecaster/linearmodel"
	"github.com/aouyang1/go-climate-forecaster/stats"
	"github.com/aouyang1/go-climate-forecaster/timedataset"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrUninitializedSARIMA      = errors.New("uninitialized sarima")
	ErrUntrainedSARIMA          = errors.New("sarima has not been trained yet")
	ErrInsufficientTrainingData = errors.New("insufficient training data for model orders")
	ErrNaNInTrainingData        = errors.New("training data contains nans")
	ErrNegativeSteps            = errors.New("negative forecast steps")
	ErrInvalidModel             = errors.New("invalid serialized sarima model")
)

// Forecast holds the mean path and 95% interval of a multi step forecast. T starts one month after
// the training end time.
type Forecast struct {
	T     []time.Time `json:"t"`
	Mean  []float64   `json:"mean"`
	Lower []float64   `json:"lower"`
	Upper []float64   `json:"upper"`
}

// SARIMA models a monthly series after regular and seasonal differencing as a linear function of
// its own lags and of lagged innovations
type SARIMA struct {
	opt    *Options
	scores *stats.Scores

	trainEndTime time.Time

	arLags []int
	arCoef []float64
	maLags []int
	maCoef []float64
	mean   float64
	sigma  float64

	// tails[k] holds the last lag values of the series after k differencing passes
	diffLags []int
	tails    [][]float64

	// recent stationary values and innovations used to continue the recursion
	recent       []float64
	recentErrors []float64

	trained bool
}

// New creates an untrained SARIMA with the given options. If none are provided the default
// SARIMA(1,1,1)(1,1,1,12) is used.
func New(opt *Options) (*SARIMA, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &SARIMA{opt: opt}, nil
}

// Fit trains the model on an evenly spaced monthly series. The series must not contain NaNs.
func (s *SARIMA) Fit(t []time.Time, y []float64) error {
	if s == nil || s.opt == nil {
		return ErrUninitializedSARIMA
	}
	if len(t) != len(y) {
		return fmt.Errorf("time has %d points and values have %d, %w", len(t), len(y), timedataset.ErrDatasetLenMismatch)
	}
	for i, v := range y {
		if math.IsNaN(v) {
			return fmt.Errorf("at index %d, %w", i, ErrNaNInTrainingData)
		}
	}

	diffLags := s.opt.diffLags()
	levels := make([][]float64, 0, len(diffLags)+1)
	levels = append(levels, y)
	for _, lag := range diffLags {
		prev := levels[len(levels)-1]
		if len(prev) <= lag {
			return fmt.Errorf("differencing at lag %d, %w", lag, ErrInsufficientTrainingData)
		}
		levels = append(levels, difference(prev, lag))
	}
	x := levels[len(levels)-1]

	mean := 0.0
	if len(diffLags) == 0 {
		for _, v := range x {
			mean += v
		}
		mean /= float64(len(x))
	}
	centered := make([]float64, len(x))
	for i, v := range x {
		centered[i] = v - mean
	}

	arLags := s.opt.arLags()
	maLags := s.opt.maLags()
	longOrder := s.opt.longAROrder()
	nParams := len(arLags) + len(maLags)
	start := longOrder + max(maxLag(arLags), maxLag(maLags))
	if len(centered)-start <= nParams || len(centered) <= 2*longOrder {
		return fmt.Errorf("%s needs more than %d differenced observations, got %d, %w",
			s.opt, max(start+nParams, 2*longOrder), len(centered), ErrInsufficientTrainingData)
	}

	// stage one: long autoregression to estimate the innovations
	longLags := make([]int, longOrder)
	for i := range longLags {
		longLags[i] = i + 1
	}
	longCoef, err := fitLagRegression(centered, nil, longLags, nil, longOrder)
	if err != nil {
		return fmt.Errorf("unable to fit long autoregression, %w", err)
	}
	innovations := residuals(centered, nil, longLags, longCoef, nil, nil, longOrder)

	// stage two: regress on the model lags of the series and the estimated innovations
	coef, err := fitLagRegression(centered, innovations, arLags, maLags, start)
	if err != nil {
		return fmt.Errorf("unable to fit lag regression, %w", err)
	}
	arCoef := coef[:len(arLags)]
	maCoef := coef[len(arLags):]

	errs := residuals(centered, innovations, arLags, arCoef, maLags, maCoef, start)
	sigma := 0.0
	nResid := len(errs) - start
	for _, e := range errs[start:] {
		sigma += e * e
	}
	sigma = math.Sqrt(sigma / float64(max(nResid-nParams, 1)))

	tails := make([][]float64, len(diffLags))
	for k, lag := range diffLags {
		lvl := levels[k]
		tails[k] = append([]float64(nil), lvl[len(lvl)-lag:]...)
	}

	s.trainEndTime = timedataset.MonthEnd(t[len(t)-1])
	s.arLags, s.arCoef = arLags, arCoef
	s.maLags, s.maCoef = maLags, maCoef
	s.mean = mean
	s.sigma = sigma
	s.diffLags = diffLags
	s.tails = tails
	s.recent = lastN(centered, maxLag(arLags))
	s.recentErrors = lastN(errs, maxLag(maLags))
	s.trained = true

	// one step ahead errors in the differenced space equal the errors on the original scale
	offset := len(y) - len(x)
	predicted := make([]float64, 0, len(x)-start)
	actual := make([]float64, 0, len(x)-start)
	for i := start; i < len(x); i++ {
		actual = append(actual, y[offset+i])
		predicted = append(predicted, y[offset+i]-errs[i])
	}
	s.scores, err = stats.NewScores(predicted, actual)
	if err != nil {
		return fmt.Errorf("unable to score sarima, %w", err)
	}
	return nil
}

// Forecast predicts the next steps months after the training end time. Future innovations are
// taken as zero and the path is integrated back through every differencing pass.
func (s *SARIMA) Forecast(steps int) (*Forecast, error) {
	if s == nil {
		return nil, ErrUninitializedSARIMA
	}
	if !s.trained {
		return nil, ErrUntrainedSARIMA
	}
	if steps < 0 {
		return nil, ErrNegativeSteps
	}

	fc := &Forecast{
		T:     timedataset.MonthRange(timedataset.AddMonths(s.trainEndTime, 1), timedataset.AddMonths(s.trainEndTime, steps)),
		Mean:  make([]float64, steps),
		Lower: make([]float64, steps),
		Upper: make([]float64, steps),
	}
	if fc.T == nil {
		fc.T = []time.Time{}
	}
	if steps == 0 {
		return fc, nil
	}

	hist := append([]float64(nil), s.recent...)
	histErrs := append([]float64(nil), s.recentErrors...)
	for i := 0; i < steps; i++ {
		next := 0.0
		for j, lag := range s.arLags {
			if idx := len(hist) - lag; idx >= 0 {
				next += s.arCoef[j] * hist[idx]
			}
		}
		for j, lag := range s.maLags {
			if idx := len(histErrs) - lag; idx >= 0 {
				next += s.maCoef[j] * histErrs[idx]
			}
		}
		hist = append(hist, next)
		histErrs = append(histErrs, 0)
		fc.Mean[i] = next + s.mean
	}

	for k := len(s.diffLags) - 1; k >= 0; k-- {
		fc.Mean = integrate(fc.Mean, s.tails[k], s.diffLags[k])
	}

	for i, v := range fc.Mean {
		band := z95 * s.sigma * math.Sqrt(float64(i+1))
		fc.Lower[i] = v - band
		fc.Upper[i] = v + band
	}
	return fc, nil
}

// Trained reports whether the model can forecast
func (s *SARIMA) Trained() bool {
	return s != nil && s.trained
}

// TrainEndTime returns the month-end of the last training observation
func (s *SARIMA) TrainEndTime() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.trainEndTime
}

// Scores returns the one step ahead in-sample fit scores
func (s *SARIMA) Scores() *stats.Scores {
	if s == nil || s.scores == nil {
		return nil
	}
	sc := *s.scores
	return &sc
}

// fitLagRegression regresses x[t] on x[t-l] for every ar lag and e[t-l] for every ma lag over
// t >= start without an intercept. Non-finite coefficients are replaced with zero.
func fitLagRegression(x, e []float64, arLags, maLags []int, start int) ([]float64, error) {
	n := len(arLags) + len(maLags)
	m := len(x) - start
	design := mat.NewDense(m, n, nil)
	target := mat.NewDense(m, 1, nil)
	for r := 0; r < m; r++ {
		t := start + r
		for j, lag := range arLags {
			design.Set(r, j, x[t-lag])
		}
		for j, lag := range maLags {
			design.Set(r, len(arLags)+j, e[t-lag])
		}
		target.Set(r, 0, x[t])
	}

	ols, err := linearmodel.NewOLSRegression(&linearmodel.OLSOptions{FitIntercept: false})
	if err != nil {
		return nil, err
	}
	if err := ols.Fit(design, target); err != nil {
		return nil, err
	}

	coef := ols.Coef()
	for i, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			slog.Warn("non-finite sarima coefficient, zeroing", "index", i, "value", c)
			coef[i] = 0
		}
	}
	return coef, nil
}

// residuals returns x[t] minus the lag prediction for every t >= start, reading lagged
// innovations from e. Indices before start are left at zero.
func residuals(x, e []float64, arLags []int, arCoef []float64, maLags []int, maCoef []float64, start int) []float64 {
	errs := make([]float64, len(x))
	for t := start; t < len(x); t++ {
		pred := 0.0
		for j, lag := range arLags {
			pred += arCoef[j] * x[t-lag]
		}
		for j, lag := range maLags {
			pred += maCoef[j] * e[t-lag]
		}
		errs[t] = x[t] - pred
	}
	return errs
}

func difference(y []float64, lag int) []float64 {
	res := make([]float64, len(y)-lag)
	for i := range res {
		res[i] = y[i+lag] - y[i]
	}
	return res
}

// integrate inverts one differencing pass given the last lag values of the undifferenced series
func integrate(w, tail []float64, lag int) []float64 {
	res := make([]float64, len(w))
	for i, v := range w {
		if i-lag >= 0 {
			res[i] = v + res[i-lag]
			continue
		}
		res[i] = v + tail[len(tail)+i-lag]
	}
	return res
}

func lastN(x []float64, n int) []float64 {
	if n > len(x) {
		n = len(x)
	}
	return append([]float64{}, x[len(x)-n:]...)
}

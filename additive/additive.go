// Package additive implements a piecewise linear trend plus fourier seasonality model in the
// style of prophet, fit as a single linear regression
package additive

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/aouyang1/go-climate-forecaster/feature"
	"github.com/aouyang1/go-climate-forecaster/linearmodel"
	"github.com/aouyang1/go-climate-forecaster/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const yearlySeasonality = "yearly"

var (
	ErrUninitializedModel       = errors.New("uninitialized additive model")
	ErrUntrainedModel           = errors.New("additive model has not been trained yet")
	ErrInsufficientTrainingData = errors.New("insufficient training data after removing nans")
	ErrMismatchedDataLen        = errors.New("input data has different length than time")
	ErrEmptyTrainingWindow      = errors.New("training window has zero duration")
)

// Frame is the prediction for a set of dates, sorted ascending with duplicates removed
type Frame struct {
	T           []time.Time `json:"ds"`
	Yhat        []float64   `json:"yhat"`
	YhatLower   []float64   `json:"yhat_lower"`
	YhatUpper   []float64   `json:"yhat_upper"`
	Trend       []float64   `json:"trend"`
	Seasonality []float64   `json:"seasonality"`
}

// Len returns the number of rows in the frame
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.T)
}

// Additive models y(t) = trend(t) + seasonality(t). The trend is an intercept, a linear slope and
// hinge functions at each changepoint. Seasonality is a yearly fourier series.
type Additive struct {
	opt    *Options
	scores *stats.Scores

	trainStartTime time.Time
	trainEndTime   time.Time

	fLabels   *feature.Labels
	intercept float64
	coef      []float64
	sigma     float64
	trained   bool
}

// New creates an untrained additive model. If no options are provided, a default is used.
func New(opt *Options) (*Additive, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &Additive{opt: opt}, nil
}

// scaleTime maps t onto the unit interval of the training window
func (a *Additive) scaleTime(t []time.Time) []float64 {
	span := a.trainEndTime.Sub(a.trainStartTime).Seconds()
	scaled := make([]float64, len(t))
	for i, tPnt := range t {
		scaled[i] = tPnt.Sub(a.trainStartTime).Seconds() / span
	}
	return scaled
}

// epochDays returns days since the unix epoch for each time point
func epochDays(t []time.Time) []float64 {
	days := make([]float64, len(t))
	for i, tPnt := range t {
		days[i] = float64(tPnt.Unix()) / 86400.0
	}
	return days
}

func (a *Additive) changepoints() []*feature.Changepoint {
	chpts := make([]*feature.Changepoint, 0, a.opt.Changepoints)
	for k := 1; k <= a.opt.Changepoints; k++ {
		pos := a.opt.ChangepointRange * float64(k) / float64(a.opt.Changepoints)
		chpts = append(chpts, feature.NewChangepoint(strconv.Itoa(k-1), pos))
	}
	return chpts
}

func (a *Additive) generateFeatures(t []time.Time) feature.Set {
	scaled := a.scaleTime(t)
	feat := make(feature.Set)

	linear := feature.Linear()
	feat.Add(linear, linear.Generate(scaled))
	for _, chpt := range a.changepoints() {
		feat.Add(chpt, chpt.Generate(scaled))
	}

	days := epochDays(t)
	for order := 1; order <= a.opt.YearlyOrders; order++ {
		for _, fcomp := range []feature.FourierComp{feature.FourierCompSin, feature.FourierCompCos} {
			seas := feature.NewSeasonality(yearlySeasonality, fcomp, order)
			feat.Add(seas, seas.Generate(days, a.opt.YearlyPeriodDays))
		}
	}
	return feat
}

// Fit trains the model on the observations, skipping NaN values
func (a *Additive) Fit(t []time.Time, y []float64) error {
	if a == nil || a.opt == nil {
		return ErrUninitializedModel
	}
	if len(t) != len(y) {
		return fmt.Errorf("time has %d points and values have %d, %w", len(t), len(y), ErrMismatchedDataLen)
	}

	trainT := make([]time.Time, 0, len(t))
	trainY := make([]float64, 0, len(y))
	for i, v := range y {
		if math.IsNaN(v) {
			continue
		}
		trainT = append(trainT, t[i])
		trainY = append(trainY, v)
	}
	nFeat := 1 + a.opt.Changepoints + 2*a.opt.YearlyOrders
	if len(trainY) <= nFeat {
		return fmt.Errorf("need more than %d observations, got %d, %w", nFeat, len(trainY), ErrInsufficientTrainingData)
	}

	sort.Sort(byTime{trainT, trainY})
	a.trainStartTime = trainT[0]
	a.trainEndTime = trainT[len(trainT)-1]
	if !a.trainEndTime.After(a.trainStartTime) {
		return ErrEmptyTrainingWindow
	}

	x := a.generateFeatures(trainT)
	labels := x.Labels()
	design := x.Matrix(labels)
	target := mat.NewDense(len(trainY), 1, trainY)

	var model linearmodel.Model
	var err error
	if a.opt.Regularization > 0 {
		lassoOpt := linearmodel.NewDefaultLassoOptions()
		lassoOpt.Lambda = a.opt.Regularization
		model, err = linearmodel.NewLassoRegression(lassoOpt)
	} else {
		model, err = linearmodel.NewOLSRegression(linearmodel.NewDefaultOLSOptions())
	}
	if err != nil {
		return err
	}
	if err := model.Fit(design, target); err != nil {
		return fmt.Errorf("unable to fit additive model, %w", err)
	}

	a.fLabels = labels
	a.intercept = model.Intercept()
	a.coef = model.Coef()
	a.trained = true

	predicted, err := a.yhat(trainT)
	if err != nil {
		return err
	}
	a.scores, err = stats.NewScores(predicted, trainY)
	if err != nil {
		return fmt.Errorf("unable to score additive model, %w", err)
	}

	resid := make([]float64, len(trainY))
	floats.SubTo(resid, trainY, predicted)
	a.sigma = math.Sqrt(floats.Dot(resid, resid) / float64(max(len(resid)-nFeat-1, 1)))
	return nil
}

// components evaluates the trend and seasonality of each time point in the given order
func (a *Additive) components(t []time.Time) ([]float64, []float64, error) {
	x := a.generateFeatures(t)
	design := x.Matrix(a.fLabels)
	if design == nil {
		return nil, nil, linearmodel.ErrNoDesignMatrix
	}
	_, n := design.Dims()
	if n != len(a.coef) {
		return nil, nil, fmt.Errorf("got %d features, expected %d, %w", n, len(a.coef), linearmodel.ErrFeatureLenMismatch)
	}

	trend := make([]float64, len(t))
	seas := make([]float64, len(t))
	floats.AddConst(a.intercept, trend)
	for j, label := range a.fLabels.Labels() {
		dst := trend
		if label.Type() == feature.FeatureTypeSeasonality {
			dst = seas
		}
		floats.AddScaled(dst, a.coef[j], mat.Col(nil, j, design))
	}
	return trend, seas, nil
}

func (a *Additive) yhat(t []time.Time) ([]float64, error) {
	trend, seas, err := a.components(t)
	if err != nil {
		return nil, err
	}
	floats.Add(trend, seas)
	return trend, nil
}

// Predict returns the prediction frame for ds. Rows are sorted ascending by time and duplicate
// times are collapsed, so callers must key the result by time rather than by position.
func (a *Additive) Predict(ds []time.Time) (*Frame, error) {
	if a == nil {
		return nil, ErrUninitializedModel
	}
	if !a.trained {
		return nil, ErrUntrainedModel
	}

	t := uniqueSorted(ds)
	frame := &Frame{
		T:           t,
		Yhat:        make([]float64, len(t)),
		YhatLower:   make([]float64, len(t)),
		YhatUpper:   make([]float64, len(t)),
		Trend:       make([]float64, len(t)),
		Seasonality: make([]float64, len(t)),
	}
	if len(t) == 0 {
		return frame, nil
	}

	trend, seas, err := a.components(t)
	if err != nil {
		return nil, err
	}
	z := distuv.UnitNormal.Quantile(0.5 + a.opt.IntervalWidth/2)
	for i := range t {
		frame.Trend[i] = trend[i]
		frame.Seasonality[i] = seas[i]
		frame.Yhat[i] = trend[i] + seas[i]
		frame.YhatLower[i] = frame.Yhat[i] - z*a.sigma
		frame.YhatUpper[i] = frame.Yhat[i] + z*a.sigma
	}
	return frame, nil
}

// Trained reports whether the model can be used for inference
func (a *Additive) Trained() bool {
	return a != nil && a.trained
}

// TrainEndTime returns the last training observation time
func (a *Additive) TrainEndTime() time.Time {
	if a == nil {
		return time.Time{}
	}
	return a.trainEndTime
}

// Scores returns the in-sample fit scores
func (a *Additive) Scores() *stats.Scores {
	if a == nil || a.scores == nil {
		return nil
	}
	s := *a.scores
	return &s
}

func uniqueSorted(ds []time.Time) []time.Time {
	t := make([]time.Time, len(ds))
	copy(t, ds)
	sort.Slice(t, func(i, j int) bool { return t[i].Before(t[j]) })

	out := t[:0]
	for i, tPnt := range t {
		if i > 0 && tPnt.Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, tPnt)
	}
	return out
}

type byTime struct {
	t []time.Time
	y []float64
}

func (b byTime) Len() int           { return len(b.t) }
func (b byTime) Less(i, j int) bool { return b.t[i].Before(b.t[j]) }
func (b byTime) Swap(i, j int) {
	b.t[i], b.t[j] = b.t[j], b.t[i]
	b.y[i], b.y[j] = b.y[j], b.y[i]
}

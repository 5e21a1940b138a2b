// Package regression fits a least squares model over calendar features of a monthly series
package regression

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-climate-forecaster/feature"
	"github.com/aouyang1/go-climate-forecaster/linearmodel"
	mat_ "github.com/aouyang1/go-climate-forecaster/mat"
	"github.com/aouyang1/go-climate-forecaster/stats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrUninitializedRegression  = errors.New("uninitialized regression")
	ErrUntrainedRegression      = errors.New("regression has not been trained yet")
	ErrInsufficientTrainingData = errors.New("insufficient training data after removing nans")
	ErrMismatchedDataLen        = errors.New("input data has different length than time")
	ErrDegenerateFit            = errors.New("fit produced non-finite coefficients")
)

// Regression models a series as a linear combination of the calendar basis of each observation
// time. Columns are standardized before fitting so the year and year squared terms stay
// numerically separable.
type Regression struct {
	scale  *mat_.ColumnScale
	scores *stats.Scores

	trainEndTime time.Time
	intercept    float64
	coef         []float64
	trained      bool
}

// New creates an untrained regression
func New() *Regression {
	return &Regression{}
}

// NewFromModel creates a regression from a serialized model that can be used for inference
// immediately
func NewFromModel(model Model) (*Regression, error) {
	labels, err := model.Weights.FeatureLabels()
	if err != nil {
		return nil, fmt.Errorf("unable to decode regression weights, %w", err)
	}
	if labels.Len() != len(feature.CalendarLabels()) {
		return nil, fmt.Errorf("got %d weights, %w", labels.Len(), linearmodel.ErrFeatureLenMismatch)
	}
	if model.Scale == nil || len(model.Scale.Mean) != labels.Len() {
		return nil, fmt.Errorf("regression model scale, %w", mat_.ErrScaleLenMismatch)
	}
	return &Regression{
		scale:        model.Scale,
		scores:       model.Scores,
		trainEndTime: model.TrainEndTime,
		intercept:    model.Weights.Intercept,
		coef:         model.Weights.Coefficients(),
		trained:      true,
	}, nil
}

// Fit trains the regression on the observations, skipping NaN values
func (r *Regression) Fit(t []time.Time, y []float64) error {
	if r == nil {
		return ErrUninitializedRegression
	}
	if len(t) != len(y) {
		return fmt.Errorf("time has %d points and values have %d, %w", len(t), len(y), ErrMismatchedDataLen)
	}

	tFit := make([]time.Time, 0, len(t))
	yFit := make([]float64, 0, len(y))
	for i, v := range y {
		if math.IsNaN(v) {
			continue
		}
		tFit = append(tFit, t[i])
		yFit = append(yFit, v)
	}
	nFeat := len(feature.CalendarLabels())
	if len(yFit) <= nFeat {
		return fmt.Errorf("need more than %d observations, got %d, %w", nFeat, len(yFit), ErrInsufficientTrainingData)
	}

	x, err := feature.CalendarMatrix(tFit)
	if err != nil {
		return fmt.Errorf("unable to build calendar features, %w", err)
	}
	scale := mat_.NewColumnScale(x)
	xScaled, err := scale.Apply(x)
	if err != nil {
		return err
	}

	ols, err := linearmodel.NewOLSRegression(linearmodel.NewDefaultOLSOptions())
	if err != nil {
		return err
	}
	if err := ols.Fit(xScaled, mat.NewDense(len(yFit), 1, yFit)); err != nil {
		return fmt.Errorf("unable to fit calendar regression, %w", err)
	}

	coef := ols.Coef()
	for _, c := range append([]float64{ols.Intercept()}, coef...) {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return ErrDegenerateFit
		}
	}

	r.scale = scale
	r.intercept = ols.Intercept()
	r.coef = coef
	r.trainEndTime = tFit[len(tFit)-1]
	r.trained = true

	predicted, err := r.Predict(x)
	if err != nil {
		return err
	}
	r.scores, err = stats.NewScores(predicted, yFit)
	if err != nil {
		return fmt.Errorf("unable to score regression, %w", err)
	}
	return nil
}

// Predict evaluates the regression on raw calendar feature rows of [year, month, month^2, year^2]
func (r *Regression) Predict(x mat.Matrix) ([]float64, error) {
	if r == nil {
		return nil, ErrUninitializedRegression
	}
	if !r.trained {
		return nil, ErrUntrainedRegression
	}
	if x == nil {
		return nil, linearmodel.ErrNoDesignMatrix
	}

	xScaled, err := r.scale.Apply(x)
	if err != nil {
		return nil, fmt.Errorf("unable to scale calendar features, %w", err)
	}
	m, n := xScaled.Dims()
	if n != len(r.coef) {
		return nil, fmt.Errorf("got %d features, expected %d, %w", n, len(r.coef), linearmodel.ErrFeatureLenMismatch)
	}

	res := mat.NewVecDense(m, nil)
	res.MulVec(xScaled, mat.NewVecDense(n, r.coef))
	out := res.RawVector().Data
	for i := range out {
		out[i] += r.intercept
	}
	return out, nil
}

// PredictTime builds the calendar features for each time and evaluates the regression
func (r *Regression) PredictTime(t []time.Time) ([]float64, error) {
	if len(t) == 0 {
		return []float64{}, nil
	}
	x, err := feature.CalendarMatrix(t)
	if err != nil {
		return nil, err
	}
	return r.Predict(x)
}

// Trained reports whether the regression can be used for inference
func (r *Regression) Trained() bool {
	return r != nil && r.trained
}

// TrainEndTime returns the last observation time used in training
func (r *Regression) TrainEndTime() time.Time {
	if r == nil {
		return time.Time{}
	}
	return r.trainEndTime
}

// Scores returns the in-sample fit scores
func (r *Regression) Scores() *stats.Scores {
	if r == nil || r.scores == nil {
		return nil
	}
	s := *r.scores
	return &s
}

// Model returns the serializable form of a trained regression
func (r *Regression) Model() (Model, error) {
	if r == nil {
		return Model{}, ErrUninitializedRegression
	}
	if !r.trained {
		return Model{}, ErrUntrainedRegression
	}
	weights, err := feature.NewWeights(feature.CalendarLabels(), r.intercept, r.coef)
	if err != nil {
		return Model{}, err
	}
	return Model{
		TrainEndTime: r.trainEndTime,
		Scale: &mat_.ColumnScale{
			Mean: append([]float64(nil), r.scale.Mean...),
			Std:  append([]float64(nil), r.scale.Std...),
		},
		Scores:  r.Scores(),
		Weights: weights,
	}, nil
}

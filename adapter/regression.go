package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/aouyang1/go-climate-forecaster/feature"
	"github.com/aouyang1/go-climate-forecaster/timedataset"
	"gonum.org/v1/gonum/mat"
)

// FeatureRegressor predicts from a design matrix with one row of calendar features per date
type FeatureRegressor interface {
	Predict(x mat.Matrix) ([]float64, error)
}

// LinearRegression feeds the calendar basis of each horizon date to a FeatureRegressor
type LinearRegression struct {
	Model FeatureRegressor
}

func NewLinearRegression(model FeatureRegressor) *LinearRegression {
	return &LinearRegression{Model: model}
}

func (l *LinearRegression) Name() string {
	return NameLinearRegression
}

// Predict ignores history since the regression depends on the calendar only
func (l *LinearRegression) Predict(ctx context.Context, history *timedataset.TimeDataset, horizon []time.Time) ([]float64, error) {
	if l == nil || untrained(l.Model) {
		return nil, fmt.Errorf("%s, %w", NameLinearRegression, ErrMalformedPredictor)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(horizon) == 0 {
		return []float64{}, nil
	}

	x, err := feature.CalendarMatrix(horizon)
	if err != nil {
		return nil, fmt.Errorf("unable to build calendar features, %w", err)
	}
	res, err := l.Model.Predict(x)
	if err != nil {
		return nil, err
	}
	if len(res) != len(horizon) {
		return nil, fmt.Errorf("got %d predictions for %d dates, %w", len(res), len(horizon), ErrPredictionLenMismatch)
	}
	return res, nil
}

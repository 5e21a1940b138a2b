package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/aouyang1/go-climate-forecaster/seasonal"
	"github.com/aouyang1/go-climate-forecaster/timedataset"
)

// StepForecaster forecasts a number of steps past the end of its training data
type StepForecaster interface {
	Forecast(steps int) (*seasonal.Forecast, error)
	TrainEndTime() time.Time
}

// SARIMA requests one step per horizon date. The model continues from its own training end, so it
// must have been trained through the last historical month.
type SARIMA struct {
	Model StepForecaster
}

func NewSARIMA(model StepForecaster) *SARIMA {
	return &SARIMA{Model: model}
}

func (s *SARIMA) Name() string {
	return NameSARIMA
}

func (s *SARIMA) Predict(ctx context.Context, history *timedataset.TimeDataset, horizon []time.Time) ([]float64, error) {
	if s == nil || untrained(s.Model) {
		return nil, fmt.Errorf("%s, %w", NameSARIMA, ErrMalformedPredictor)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(horizon) == 0 {
		return []float64{}, nil
	}
	if history.Len() == 0 {
		return nil, ErrEmptyHistory
	}

	last := history.T[len(history.T)-1]
	trainEnd := s.Model.TrainEndTime()
	if timedataset.MonthKey(trainEnd) != timedataset.MonthKey(last) {
		return nil, fmt.Errorf("trained through %s, history ends %s, %w",
			trainEnd.Format(time.DateOnly), last.Format(time.DateOnly), ErrTrainEndMismatch)
	}
	if timedataset.MonthsBetween(last, horizon[0]) != 1 {
		return nil, fmt.Errorf("horizon starts %s, %w", horizon[0].Format(time.DateOnly), ErrHorizonMisaligned)
	}

	fc, err := s.Model.Forecast(len(horizon))
	if err != nil {
		return nil, err
	}
	if fc == nil || len(fc.Mean) != len(horizon) {
		got := 0
		if fc != nil {
			got = len(fc.Mean)
		}
		return nil, fmt.Errorf("got %d steps for %d dates, %w", got, len(horizon), ErrPredictionLenMismatch)
	}

	res := make([]float64, len(fc.Mean))
	copy(res, fc.Mean)
	return res, nil
}

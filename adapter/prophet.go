package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/aouyang1/go-climate-forecaster/additive"
	"github.com/aouyang1/go-climate-forecaster/timedataset"
)

// FramePredictor predicts a frame of dates which may come back reordered or deduplicated
type FramePredictor interface {
	Predict(ds []time.Time) (*additive.Frame, error)
}

// Prophet sends the horizon dates to a FramePredictor and re-keys the response by month
type Prophet struct {
	Model FramePredictor
}

func NewProphet(model FramePredictor) *Prophet {
	return &Prophet{Model: model}
}

func (p *Prophet) Name() string {
	return NameProphet
}

func (p *Prophet) Predict(ctx context.Context, history *timedataset.TimeDataset, horizon []time.Time) ([]float64, error) {
	if p == nil || untrained(p.Model) {
		return nil, fmt.Errorf("%s, %w", NameProphet, ErrMalformedPredictor)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(horizon) == 0 {
		return []float64{}, nil
	}

	frame, err := p.Model.Predict(horizon)
	if err != nil {
		return nil, err
	}
	if frame == nil || len(frame.T) != len(frame.Yhat) {
		return nil, fmt.Errorf("frame has mismatched columns, %w", ErrPredictionLenMismatch)
	}

	byMonth := make(map[int]float64, len(frame.T))
	for i, t := range frame.T {
		byMonth[timedataset.MonthKey(t)] = frame.Yhat[i]
	}

	res := make([]float64, len(horizon))
	for i, t := range horizon {
		v, exists := byMonth[timedataset.MonthKey(t)]
		if !exists {
			return nil, fmt.Errorf("%s, %w", t.Format(time.DateOnly), ErrMissingPrediction)
		}
		res[i] = v
	}
	return res, nil
}

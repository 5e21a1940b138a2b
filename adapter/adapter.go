// Package adapter unifies the calling conventions of the three forecast models behind a single
// Predictor capability that maps a history and horizon to one value per horizon date
package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/aouyang1/go-climate-forecaster/timedataset"
)

// Column names of the model predictions in the forecast table
const (
	NameLinearRegression = "Linear Regression"
	NameSARIMA           = "SARIMA"
	NameProphet          = "Prophet"
)

var (
	ErrMalformedPredictor    = errors.New("predictor model is missing or untrained")
	ErrTrainEndMismatch      = errors.New("model training end does not match the last historical month")
	ErrHorizonMisaligned     = errors.New("horizon does not start the month after the last historical month")
	ErrPredictionLenMismatch = errors.New("prediction length does not match horizon length")
	ErrMissingPrediction     = errors.New("prediction missing for horizon month")
	ErrEmptyHistory          = errors.New("empty history")
)

// Predictor produces exactly one prediction per horizon date, in horizon order
type Predictor interface {
	Name() string
	Predict(ctx context.Context, history *timedataset.TimeDataset, horizon []time.Time) ([]float64, error)
}

type trainable interface {
	Trained() bool
}

// untrained reports whether a model is nil or reports itself as untrained
func untrained(m any) bool {
	if m == nil {
		return true
	}
	if tr, ok := m.(trainable); ok {
		return !tr.Trained()
	}
	return false
}

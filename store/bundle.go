package store

import (
	"fmt"
	"time"

	"github.com/aouyang1/go-climate-forecaster/adapter"
	"github.com/aouyang1/go-climate-forecaster/additive"
	"github.com/aouyang1/go-climate-forecaster/regression"
	"github.com/aouyang1/go-climate-forecaster/seasonal"
	"github.com/aouyang1/go-climate-forecaster/target"
)

// Kind names a persisted model artifact of a target
type Kind string

const (
	KindLinearRegression Kind = "linear_regression"
	KindSARIMA           Kind = "sarima_model"
	KindProphet          Kind = "prophet_model"
)

// Kinds lists the model artifacts in table column order
func Kinds() []Kind {
	return []Kind{KindLinearRegression, KindSARIMA, KindProphet}
}

// Bundle holds the three trained models of one target
type Bundle struct {
	Target     target.Target
	TrainedAt  time.Time
	Regression regression.Model
	SARIMA     seasonal.Model
	Prophet    additive.Model
}

// artifact is the persisted envelope of one model
type artifact[M any] struct {
	Target    target.Target `json:"target"`
	TrainedAt time.Time     `json:"trained_at"`
	Model     M             `json:"model"`
}

// Predictors restores the models and wraps them in their adapters in table column order
func (b *Bundle) Predictors() ([]adapter.Predictor, error) {
	if b == nil {
		return nil, ErrUntrainedBundle
	}

	reg, err := regression.NewFromModel(b.Regression)
	if err != nil {
		return nil, fmt.Errorf("unable to restore %s regression, %w", b.Target, err)
	}
	sarima, err := seasonal.NewFromModel(b.SARIMA)
	if err != nil {
		return nil, fmt.Errorf("unable to restore %s sarima, %w", b.Target, err)
	}
	prophet, err := additive.NewFromModel(b.Prophet)
	if err != nil {
		return nil, fmt.Errorf("unable to restore %s prophet, %w", b.Target, err)
	}

	return []adapter.Predictor{
		adapter.NewLinearRegression(reg),
		adapter.NewSARIMA(sarima),
		adapter.NewProphet(prophet),
	}, nil
}

func (b *Bundle) encode(kind Kind, compress bool) ([]byte, error) {
	switch kind {
	case KindLinearRegression:
		return encode(artifact[regression.Model]{b.Target, b.TrainedAt, b.Regression}, compress)
	case KindSARIMA:
		return encode(artifact[seasonal.Model]{b.Target, b.TrainedAt, b.SARIMA}, compress)
	case KindProphet:
		return encode(artifact[additive.Model]{b.Target, b.TrainedAt, b.Prophet}, compress)
	}
	return nil, fmt.Errorf("model kind %q, %w", kind, ErrModelNotFound)
}

// decode fills the model of kind from data, verifying it was trained for the bundle's target
func (b *Bundle) decode(kind Kind, data []byte, compressed bool) error {
	var (
		tgt       target.Target
		trainedAt time.Time
	)
	switch kind {
	case KindLinearRegression:
		var a artifact[regression.Model]
		if err := decode(data, compressed, &a); err != nil {
			return err
		}
		tgt, trainedAt, b.Regression = a.Target, a.TrainedAt, a.Model
	case KindSARIMA:
		var a artifact[seasonal.Model]
		if err := decode(data, compressed, &a); err != nil {
			return err
		}
		tgt, trainedAt, b.SARIMA = a.Target, a.TrainedAt, a.Model
	case KindProphet:
		var a artifact[additive.Model]
		if err := decode(data, compressed, &a); err != nil {
			return err
		}
		tgt, trainedAt, b.Prophet = a.Target, a.TrainedAt, a.Model
	default:
		return fmt.Errorf("model kind %q, %w", kind, ErrModelNotFound)
	}

	if tgt != b.Target {
		return fmt.Errorf("%s artifact trained for %s, %w", kind, tgt, ErrTargetMismatch)
	}
	if trainedAt.After(b.TrainedAt) {
		b.TrainedAt = trainedAt
	}
	return nil
}

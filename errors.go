package forecaster

import (
	"errors"
	"fmt"
	"time"

	"github.com/aouyang1/go-climate-forecaster/target"
)

var (
	ErrLoad           = errors.New("unable to load forecast inputs")
	ErrPrediction     = errors.New("model prediction failed")
	ErrDateOutOfRange = errors.New("date outside of forecast table")
	ErrNoSeriesLoader = errors.New("no series loader")
	ErrNoModelLoader  = errors.New("no predictor loader")
)

// LoadError reports a failure to load the history or the models of a target
type LoadError struct {
	Target target.Target
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("unable to load %s, %v", e.Target, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is matches ErrLoad so callers need not know the underlying cause
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// PredictionError reports a failure of one model while assembling a target's table
type PredictionError struct {
	Target target.Target
	Model  string
	Err    error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("%s prediction for %s failed, %v", e.Model, e.Target, e.Err)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

func (e *PredictionError) Is(target error) bool {
	return target == ErrPrediction
}

// LookupError reports a date with no row in the forecast table
type LookupError struct {
	Date time.Time
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no forecast row for %s, %v", e.Date.Format("2006-01"), e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

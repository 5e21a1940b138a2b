// Package feature describes the labelled regressors the forecast models are fit against
package feature

import "errors"

var (
	ErrUnknownFeatureType = errors.New("unknown feature type")
	ErrWeightLenMismatch  = errors.New("number of labels does not match number of coefficients")
)

type FeatureType string

const (
	FeatureTypeCalendar    FeatureType = "calendar"
	FeatureTypeGrowth      FeatureType = "growth"
	FeatureTypeChangepoint FeatureType = "changepoint"
	FeatureTypeSeasonality FeatureType = "seasonality"
)

// Feature is a labelled model input. String must be unique per feature since it keys feature sets
// and coefficient lookups.
type Feature interface {
	String() string
	Get(string) (string, bool)
	Type() FeatureType
	Decode() map[string]string
}

// Data pairs a feature with its generated values
type Data struct {
	F    Feature
	Data []float64
}

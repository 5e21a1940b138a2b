package feature

import (
	"fmt"
	"strconv"
)

// Encode converts a feature into its type and label map for serialization
func Encode(f Feature) (FeatureType, map[string]string) {
	return f.Type(), f.Decode()
}

// Decode rebuilds a feature from its type and label map as produced by Encode
func Decode(ft FeatureType, labels map[string]string) (Feature, error) {
	switch ft {
	case FeatureTypeCalendar:
		return NewCalendar(labels["name"]), nil
	case FeatureTypeGrowth:
		return NewGrowth(labels["name"]), nil
	case FeatureTypeChangepoint:
		pos, err := strconv.ParseFloat(labels["position"], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid changepoint position, %w", err)
		}
		return NewChangepoint(labels["name"], pos), nil
	case FeatureTypeSeasonality:
		order, err := strconv.Atoi(labels["order"])
		if err != nil {
			return nil, fmt.Errorf("invalid seasonality order, %w", err)
		}
		return NewSeasonality(labels["name"], FourierComp(labels["fourier_component"]), order), nil
	}
	return nil, fmt.Errorf("%q, %w", string(ft), ErrUnknownFeatureType)
}

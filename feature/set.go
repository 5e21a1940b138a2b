package feature

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Set represents a mapping to each feature data keyed by the string representation
// of the feature.
type Set map[string]Data

// Add stores the feature values keyed by the feature string
func (s Set) Add(f Feature, data []float64) {
	s[f.String()] = Data{F: f, Data: data}
}

// Labels returns the sorted slice of all tracked features in the FeatureSet
func (s Set) Labels() *Labels {
	if s == nil {
		return nil
	}

	labels := make([]Feature, 0, len(s))
	for _, feat := range s {
		labels = append(labels, feat.F)
	}
	sort.Slice(
		labels,
		func(i, j int) bool {
			return labels[i].String() < labels[j].String()
		},
	)
	return NewLabels(labels)
}

// Matrix returns a matrix representation of the FeatureSet in the column order of labels. The
// matrix has m rows representing the number of observations and n columns representing the
// number of features.
func (s Set) Matrix(labels *Labels) *mat.Dense {
	if s == nil || labels.Len() == 0 {
		return nil
	}

	var m int
	// use first feature to get length
	for _, flabel := range labels.Labels() {
		m = len(s[flabel.String()].Data)
		break
	}
	if m == 0 {
		return nil
	}
	n := labels.Len()

	obs := make([]float64, m*n)
	for featNum, label := range labels.Labels() {
		feature := s[label.String()]
		for i := 0; i < len(feature.Data); i++ {
			obs[n*i+featNum] = feature.Data[i]
		}
	}
	return mat.NewDense(m, n, obs)
}

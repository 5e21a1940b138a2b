package feature

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeights(t *testing.T) {
	labels := []Feature{Linear(), NewChangepoint("0", 0.1), NewSeasonality("yearly", FourierCompSin, 1)}
	w, err := NewWeights(labels, 1.5, []float64{2, 0, -0.25})
	require.Nil(t, err)

	assert.Equal(t, 1.5, w.Intercept)
	assert.Equal(t, []float64{2, 0, -0.25}, w.Coefficients())

	fl, err := w.FeatureLabels()
	require.Nil(t, err)
	assert.Equal(t, labels, fl.Labels())

	var buf bytes.Buffer
	require.Nil(t, w.TablePrint(&buf, "", "  ", 0))
	out := buf.String()
	assert.Contains(t, out, "Weights:")
	assert.Contains(t, out, "name=0,position=0.1")
	assert.Contains(t, out, "...")

	_, err = NewWeights(labels, 0, []float64{1})
	assert.ErrorIs(t, err, ErrWeightLenMismatch)
}

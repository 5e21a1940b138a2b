package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScores(t *testing.T) {
	testData := map[string]struct {
		predicted []float64
		actual    []float64
		expected  *Scores
		err       error
	}{
		"perfect": {
			[]float64{1, 2, 3, 4},
			[]float64{1, 2, 3, 4},
			&Scores{MSE: 0, MAPE: 0, R2: 1},
			nil,
		},
		"offset": {
			[]float64{2, 3, 4, 5},
			[]float64{1, 2, 3, 4},
			&Scores{MSE: 1, MAPE: (1.0 + 0.5 + 1.0/3.0 + 0.25) / 4.0, R2: 0.2},
			nil,
		},
		"nan skipped": {
			[]float64{1, math.NaN(), 3},
			[]float64{1, 2, 3},
			&Scores{MSE: 0, MAPE: 0, R2: 1},
			nil,
		},
		"length mismatch": {
			[]float64{1},
			[]float64{1, 2},
			nil,
			ErrResLenMismatch,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			scores, err := NewScores(td.predicted, td.actual)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.InDelta(t, td.expected.MSE, scores.MSE, 1e-9, "mse")
			assert.InDelta(t, td.expected.MAPE, scores.MAPE, 1e-9, "mape")
			assert.InDelta(t, td.expected.R2, scores.R2, 1e-9, "r2")
		})
	}
}

package mat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewDenseFromArray(t *testing.T) {
	testData := map[string]struct {
		err error
		x   [][]float64
		m   int
		n   int
	}{
		"nil input": {
			ErrEmptyArray,
			nil,
			0, 0,
		},
		"empty row": {
			ErrEmptyArray,
			[][]float64{{}},
			0, 0,
		},
		"single element": {
			nil,
			[][]float64{{1}},
			1, 1,
		},
		"one row multiple cols": {
			nil,
			[][]float64{{1, 2, 3}},
			1, 3,
		},
		"multiple rows one col": {
			nil,
			[][]float64{{1}, {2}, {3}},
			3, 1,
		},
		"multiple rows and cols": {
			nil,
			[][]float64{{1, 2, 3}, {4, 5, 6}},
			2, 3,
		},
		"inconsistent cols": {
			ErrColMismatch,
			[][]float64{{1, 2, 3}, {4, 5}},
			0, 0,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			mx, err := NewDenseFromArray(td.x)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)

			m, n := mx.Dims()
			assert.Equal(t, td.m, m, "m")
			assert.Equal(t, td.n, n, "n")

			for ri, row := range td.x {
				assert.Equal(t, row, mat.Row(nil, ri, mx), "array")
			}
		})
	}
}

func TestColumnScale(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		1, 5,
		2, 5,
		3, 5,
		4, 5,
	})
	scale := NewColumnScale(x)
	assert.InDeltaSlice(t, []float64{2.5, 5}, scale.Mean, 1e-12)
	assert.InDeltaSlice(t, []float64{1.118033988749895, 1}, scale.Std, 1e-12)

	scaled, err := scale.Apply(x)
	require.Nil(t, err)
	assert.InDeltaSlice(t, []float64{-1.3416407864998738, -0.4472135954999579, 0.4472135954999579, 1.3416407864998738}, mat.Col(nil, 0, scaled), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0}, mat.Col(nil, 1, scaled), 1e-12)

	_, err = scale.Apply(mat.NewDense(1, 3, []float64{1, 2, 3}))
	assert.ErrorIs(t, err, ErrScaleLenMismatch)

	var nilScale *ColumnScale
	_, err = nilScale.Apply(x)
	assert.ErrorIs(t, err, ErrScaleLenMismatch)
}

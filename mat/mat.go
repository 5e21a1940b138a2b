// Package mat holds small helpers for building and scaling gonum design matrices
package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrEmptyArray       = errors.New("empty array")
	ErrColMismatch      = errors.New("column size mismatch")
	ErrScaleLenMismatch = errors.New("scale length does not match matrix columns")
)

// NewDenseFromArray converts a row ordered 2d array into a dense matrix
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)
	if m == 0 {
		return nil, ErrEmptyArray
	}

	n := len(x[0])
	if n == 0 {
		return nil, fmt.Errorf("at row 0, %w", ErrEmptyArray)
	}
	data := make([]float64, 0, m*n)
	for i, row := range x {
		if len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// ColumnScale holds the per column mean and standard deviation of a design matrix
type ColumnScale struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// NewColumnScale computes the per column mean and population standard deviation of x. Constant
// columns get a standard deviation of 1 so they pass through centered.
func NewColumnScale(x mat.Matrix) *ColumnScale {
	_, n := x.Dims()
	scale := &ColumnScale{
		Mean: make([]float64, n),
		Std:  make([]float64, n),
	}
	for j := 0; j < n; j++ {
		col := mat.Col(nil, j, x)
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		scale.Mean[j] = mean
		scale.Std[j] = std
	}
	return scale
}

// Apply returns a copy of x with each column centered and scaled
func (c *ColumnScale) Apply(x mat.Matrix) (*mat.Dense, error) {
	m, n := x.Dims()
	if c == nil || len(c.Mean) != n || len(c.Std) != n {
		return nil, fmt.Errorf("matrix has %d columns, %w", n, ErrScaleLenMismatch)
	}
	res := mat.NewDense(m, n, nil)
	res.Apply(func(i, j int, v float64) float64 {
		return (v - c.Mean[j]) / c.Std[j]
	}, x)
	return res, nil
}

// Package linalg is the numeric backend shared by the forecast models. A
// Backend is created once by the caller and passed to every model; it holds no
// mutable state and is safe for concurrent use.
package linalg

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrIllConditioned is returned when a least-squares design matrix is
// numerically rank deficient.
var ErrIllConditioned = errors.New("design matrix is ill-conditioned")

// Backend solves least-squares problems and computes interval quantiles.
type Backend struct {
	// MaxCondition is the largest design condition number accepted by
	// LeastSquares.
	MaxCondition float64
}

// New returns a Backend with default tolerances.
func New() *Backend {
	return &Backend{MaxCondition: 1e12}
}

// LeastSquares returns the coefficients β minimising ||Xβ - y||₂ where design
// is an n×k matrix given row by row. n must be at least k.
func (b *Backend) LeastSquares(design [][]float64, y []float64) ([]float64, error) {
	n := len(design)
	if n == 0 || n != len(y) {
		return nil, fmt.Errorf("design has %d rows for %d observations", n, len(y))
	}
	k := len(design[0])
	if k == 0 || n < k {
		return nil, fmt.Errorf("need at least %d observations for %d coefficients, got %d", k, k, n)
	}

	x := mat.NewDense(n, k, nil)
	for i, row := range design {
		if len(row) != k {
			return nil, fmt.Errorf("design row %d has %d columns, expected %d", i, len(row), k)
		}
		x.SetRow(i, row)
	}

	var qr mat.QR
	qr.Factorize(x)
	if c := qr.Cond(); math.IsInf(c, 1) || c > b.MaxCondition {
		return nil, fmt.Errorf("%w: condition number %.3g", ErrIllConditioned, c)
	}

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, mat.NewVecDense(n, append([]float64(nil), y...))); err != nil {
		return nil, fmt.Errorf("solving least squares: %w", err)
	}
	return mat.Col(nil, 0, &beta), nil
}

// Quantile returns the two-sided critical value for the given confidence
// level: the Student-t quantile at (1+confidence)/2 with dof degrees of
// freedom, or the standard normal quantile when dof < 1.
func (b *Backend) Quantile(confidence, dof float64) float64 {
	if confidence <= 0 || confidence >= 1 || math.IsNaN(confidence) {
		return 0
	}
	p := (1 + confidence) / 2
	if dof < 1 || math.IsInf(dof, 1) {
		return distuv.UnitNormal.Quantile(p)
	}
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}.Quantile(p)
}

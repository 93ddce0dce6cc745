package linalg

import (
	"errors"
	"math"
	"testing"
)

func TestLeastSquaresExactLine(t *testing.T) {
	b := New()

	// y = 3 + 2x
	design := [][]float64{{1, 0}, {1, 1}, {1, 2}, {1, 3}}
	y := []float64{3, 5, 7, 9}

	beta, err := b.LeastSquares(design, y)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if math.Abs(beta[0]-3) > 1e-9 || math.Abs(beta[1]-2) > 1e-9 {
		t.Errorf("Expected [3 2], got %v", beta)
	}
}

func TestLeastSquaresQuadratic(t *testing.T) {
	b := New()

	design := make([][]float64, 6)
	y := make([]float64, 6)
	for i := range design {
		x := float64(i)
		design[i] = []float64{1, x, x * x}
		y[i] = 1 - x + 0.5*x*x
	}

	beta, err := b.LeastSquares(design, y)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := []float64{1, -1, 0.5}
	for i := range expected {
		if math.Abs(beta[i]-expected[i]) > 1e-9 {
			t.Errorf("Coefficient %d: expected %f, got %f", i, expected[i], beta[i])
		}
	}
}

func TestLeastSquaresErrors(t *testing.T) {
	b := New()

	if _, err := b.LeastSquares(nil, nil); err == nil {
		t.Error("Expected error for empty design")
	}
	if _, err := b.LeastSquares([][]float64{{1, 2, 3}}, []float64{1}); err == nil {
		t.Error("Expected error for underdetermined system")
	}
	if _, err := b.LeastSquares([][]float64{{1, 0}, {1}}, []float64{1, 2}); err == nil {
		t.Error("Expected error for ragged design")
	}

	_, err := b.LeastSquares([][]float64{{1, 2}, {1, 2}, {1, 2}}, []float64{1, 2, 3})
	if !errors.Is(err, ErrIllConditioned) {
		t.Errorf("Expected ErrIllConditioned for collinear columns, got %v", err)
	}
}

func TestQuantile(t *testing.T) {
	b := New()

	if q := b.Quantile(0.95, 0); math.Abs(q-1.959964) > 1e-5 {
		t.Errorf("Expected normal quantile 1.96, got %f", q)
	}
	if q := b.Quantile(0.95, 10); math.Abs(q-2.228139) > 1e-5 {
		t.Errorf("Expected t(10) quantile 2.228, got %f", q)
	}
	if b.Quantile(0.95, 5) <= b.Quantile(0.95, 50) {
		t.Error("Quantile should shrink as degrees of freedom grow")
	}
	if b.Quantile(0.99, 10) <= b.Quantile(0.8, 10) {
		t.Error("Quantile should grow with confidence")
	}
	if b.Quantile(1, 10) != 0 || b.Quantile(0, 10) != 0 {
		t.Error("Out of range confidence should give 0")
	}
}

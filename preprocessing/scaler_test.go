package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/Bhavana1025/ml-Project/pkg/errors"
)

func TestStandardScalerFitTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
		4, 40,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	r, c := scaled.Dims()
	if r != 4 || c != 2 {
		t.Fatalf("unexpected shape (%d, %d)", r, c)
	}

	// each column must have zero mean and unit variance
	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += scaled.At(i, j)
		}
		mean := sum / float64(r)
		if math.Abs(mean) > 1e-10 {
			t.Errorf("column %d mean = %g, want 0", j, mean)
		}

		sumSq := 0.0
		for i := 0; i < r; i++ {
			d := scaled.At(i, j) - mean
			sumSq += d * d
		}
		variance := sumSq / float64(r)
		if math.Abs(variance-1.0) > 1e-10 {
			t.Errorf("column %d variance = %g, want 1", j, variance)
		}
	}
}

func TestStandardScalerConstantFeature(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if v := scaled.At(i, 0); v != 0 {
			t.Errorf("constant feature scaled to %g, want 0", v)
		}
	}
}

func TestStandardScalerInverseTransform(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1.5, -2.0,
		0.5, 4.0,
		-1.0, 1.0,
	})

	scaler := NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	restored, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(restored.At(i, j)-X.At(i, j)) > 1e-10 {
				t.Errorf("restored(%d,%d) = %g, want %g", i, j, restored.At(i, j), X.At(i, j))
			}
		}
	}
}

func TestStandardScalerNotFitted(t *testing.T) {
	scaler := NewStandardScalerDefault()
	X := mat.NewDense(2, 2, nil)

	_, err := scaler.Transform(X)
	if err == nil {
		t.Fatal("Transform on unfitted scaler should fail")
	}

	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
}

func TestStandardScalerDimensionMismatch(t *testing.T) {
	scaler := NewStandardScalerDefault()
	if err := scaler.Fit(mat.NewDense(3, 4, nil)); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := scaler.Transform(mat.NewDense(3, 2, nil))
	if err == nil {
		t.Fatal("Transform with wrong column count should fail")
	}

	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
	if dimErr.Expected != 4 || dimErr.Got != 2 {
		t.Errorf("DimensionError = %+v", dimErr)
	}
}

type emptyMatrix struct{}

func (emptyMatrix) Dims() (int, int)    { return 0, 0 }
func (emptyMatrix) At(_, _ int) float64 { return 0 }
func (m emptyMatrix) T() mat.Matrix     { return m }

func TestStandardScalerEmptyData(t *testing.T) {
	scaler := NewStandardScalerDefault()
	if err := scaler.Fit(emptyMatrix{}); err == nil {
		t.Fatal("Fit on empty data should fail")
	}
}

package svm

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/Bhavana1025/ml-Project/pkg/errors"
)

func separableData() (*mat.Dense, *mat.Dense) {
	// two well-separated clusters in 2D
	X := mat.NewDense(8, 2, []float64{
		1.0, 1.2,
		1.1, 0.9,
		0.9, 1.0,
		1.2, 1.1,
		-1.0, -1.1,
		-1.2, -0.9,
		-0.9, -1.0,
		-1.1, -1.2,
	})
	y := mat.NewDense(8, 1, []float64{1, 1, 1, 1, -1, -1, -1, -1})
	return X, y
}

func xorData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(8, 2, []float64{
		0.9, 1.1,
		1.1, 0.9,
		-1.1, -0.9,
		-0.9, -1.1,
		1.0, -1.0,
		0.9, -1.2,
		-1.0, 1.0,
		-1.1, 1.2,
	})
	y := mat.NewDense(8, 1, []float64{1, 1, 1, 1, -1, -1, -1, -1})
	return X, y
}

func TestSVCLinearSeparable(t *testing.T) {
	X, y := separableData()

	clf := NewSVC(WithKernel(KernelLinear), WithC(1.0))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	score, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score != 1.0 {
		t.Errorf("training accuracy = %v, want 1.0", score)
	}
	if score < 0 || score > 1 {
		t.Errorf("accuracy %v outside [0, 1]", score)
	}
}

func TestSVCRBFXor(t *testing.T) {
	X, y := xorData()

	// XOR is not linearly separable; RBF should fit it perfectly.
	clf := NewSVC(WithKernel(KernelRBF), WithC(10), WithGamma(1.0), WithRandomState(7))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	score, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score != 1.0 {
		t.Errorf("training accuracy = %v, want 1.0", score)
	}
	if clf.NSupport() == 0 {
		t.Error("expected support vectors after fitting")
	}
}

func TestSVCPredictUnfitted(t *testing.T) {
	clf := NewSVC()
	_, err := clf.Predict(mat.NewDense(1, 2, nil))
	if err == nil {
		t.Fatal("Predict on unfitted model should fail")
	}

	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
}

func TestSVCRejectsBadLabels(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{0, 0, 1, 1})
	y := mat.NewDense(2, 1, []float64{1, 2})

	clf := NewSVC()
	if err := clf.Fit(X, y); err == nil {
		t.Fatal("expected error for labels outside ±1")
	}
}

func TestSVCRejectsBadParams(t *testing.T) {
	X, y := separableData()

	if err := NewSVC(WithC(-1)).Fit(X, y); err == nil {
		t.Error("expected error for negative C")
	}
	if err := NewSVC(WithKernel("poly")).Fit(X, y); err == nil {
		t.Error("expected error for unsupported kernel")
	}
}

func TestSVCDimensionMismatch(t *testing.T) {
	X, y := separableData()

	clf := NewSVC(WithKernel(KernelLinear))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	_, err := clf.Predict(mat.NewDense(1, 3, nil))
	if err == nil {
		t.Fatal("expected error for feature-count mismatch")
	}

	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionError, got %v", err)
	}
}

func TestSVCClone(t *testing.T) {
	X, y := separableData()

	clf := NewSVC(WithKernel(KernelLinear), WithC(5))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	clone := clf.Clone()
	if _, err := clone.Predict(X); err == nil {
		t.Error("clone must be unfitted")
	}

	if err := clone.Fit(X, y); err != nil {
		t.Fatalf("clone Fit failed: %v", err)
	}
	score, err := clone.Score(X, y)
	if err != nil {
		t.Fatalf("clone Score failed: %v", err)
	}
	if score != 1.0 {
		t.Errorf("clone accuracy = %v, want 1.0", score)
	}
}

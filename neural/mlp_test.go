package neural

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/Bhavana1025/ml-Project/pkg/errors"
)

func blobs(n int, seed uint64) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(seed, seed))
	X := mat.NewDense(2*n, 2, nil)
	y := mat.NewDense(2*n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, 2+rng.NormFloat64()*0.3)
		X.Set(i, 1, 2+rng.NormFloat64()*0.3)
		y.Set(i, 0, 1)

		X.Set(n+i, 0, -2+rng.NormFloat64()*0.3)
		X.Set(n+i, 1, -2+rng.NormFloat64()*0.3)
		y.Set(n+i, 0, -1)
	}
	return X, y
}

func TestMLPSeparatesBlobs(t *testing.T) {
	X, y := blobs(20, 1)

	clf := NewMLPClassifier(
		WithHiddenLayers(8),
		WithLearningRate(0.05),
		WithEpochs(100),
		WithSeed(1),
	)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	score, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score < 0.95 {
		t.Errorf("training accuracy = %v, want >= 0.95", score)
	}
	if score < 0 || score > 1 {
		t.Errorf("accuracy %v outside [0, 1]", score)
	}
}

func TestDeepClassifierAdam(t *testing.T) {
	X, y := blobs(20, 2)

	clf := NewDeepClassifier(2)
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	score, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score < 0.95 {
		t.Errorf("training accuracy = %v, want >= 0.95", score)
	}
}

func TestMLPPredictProbaSumsToOne(t *testing.T) {
	X, y := blobs(10, 3)

	clf := NewMLPClassifier(WithHiddenLayers(4), WithEpochs(10), WithSeed(3))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	probas, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}

	r, _ := probas.Dims()
	for i := 0; i < r; i++ {
		sum := probas.At(i, 0) + probas.At(i, 1)
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("row %d probabilities sum to %v", i, sum)
		}
	}
}

func TestMLPDeterministicWithSeed(t *testing.T) {
	X, y := blobs(10, 4)

	a := NewMLPClassifier(WithHiddenLayers(4), WithEpochs(20), WithSeed(9))
	b := NewMLPClassifier(WithHiddenLayers(4), WithEpochs(20), WithSeed(9))
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	predA, _ := a.Predict(X)
	predB, _ := b.Predict(X)
	if !mat.Equal(predA, predB) {
		t.Error("same seed must give identical predictions")
	}
}

func TestMLPValidation(t *testing.T) {
	X, y := blobs(5, 5)

	if err := NewMLPClassifier(WithOptimizer("rmsprop")).Fit(X, y); err == nil {
		t.Error("expected error for unknown optimizer")
	}
	if err := NewMLPClassifier(WithLearningRate(0)).Fit(X, y); err == nil {
		t.Error("expected error for zero learning rate")
	}
	if err := NewMLPClassifier(WithHiddenLayers(0)).Fit(X, y); err == nil {
		t.Error("expected error for zero-width hidden layer")
	}

	badY := mat.NewDense(10, 1, nil) // zeros are not ±1
	if err := NewMLPClassifier().Fit(X, badY); err == nil {
		t.Error("expected error for non ±1 labels")
	}
}

func TestMLPUnfitted(t *testing.T) {
	_, err := NewMLPClassifier().Predict(mat.NewDense(1, 2, nil))
	if err == nil {
		t.Fatal("Predict on unfitted model should fail")
	}
	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
}

func TestMLPClone(t *testing.T) {
	clf := NewMLPClassifier(WithHiddenLayers(16, 8), WithOptimizer(OptimizerAdam))
	clone := clf.Clone().(*MLPClassifier)

	if len(clone.hidden) != 2 || clone.hidden[0] != 16 || clone.hidden[1] != 8 {
		t.Errorf("clone hidden layers = %v", clone.hidden)
	}
	if clone.optimizer != OptimizerAdam {
		t.Errorf("clone optimizer = %v", clone.optimizer)
	}
	if _, err := clone.Predict(mat.NewDense(1, 2, nil)); err == nil {
		t.Error("clone must be unfitted")
	}
}

// Package linear implements logistic regression, used standalone and as the
// meta-learner of the stacked ensemble.
package linear

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/Bhavana1025/ml-Project/core/model"
	"github.com/Bhavana1025/ml-Project/pkg/errors"
)

// LogisticRegression is a binary logistic regression classifier for ±1
// labels, trained by full-batch gradient descent with an L2 penalty.
type LogisticRegression struct {
	state *model.StateManager

	// Hyperparameters
	c            float64 // inverse regularization strength
	fitIntercept bool
	maxIter      int
	tol          float64
	seed         uint64

	// Model parameters
	coef      []float64
	intercept float64
	nFeatures int
	nIter     int
}

// Option is a functional option for LogisticRegression.
type Option func(*LogisticRegression)

// WithC sets the inverse regularization strength.
func WithC(c float64) Option {
	return func(lr *LogisticRegression) { lr.c = c }
}

// WithFitIntercept sets whether to fit an intercept term.
func WithFitIntercept(fit bool) Option {
	return func(lr *LogisticRegression) { lr.fitIntercept = fit }
}

// WithMaxIter sets the maximum number of iterations.
func WithMaxIter(maxIter int) Option {
	return func(lr *LogisticRegression) { lr.maxIter = maxIter }
}

// WithTol sets the tolerance for the stopping criterion.
func WithTol(tol float64) Option {
	return func(lr *LogisticRegression) { lr.tol = tol }
}

// WithRandomState seeds weight initialization.
func WithRandomState(seed uint64) Option {
	return func(lr *LogisticRegression) { lr.seed = seed }
}

// NewLogisticRegression creates a LogisticRegression classifier.
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		c:            1.0,
		fitIntercept: true,
		maxIter:      100,
		tol:          1e-4,
		seed:         42,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Clone returns an unfitted copy with the same hyperparameters.
func (lr *LogisticRegression) Clone() model.Classifier {
	return NewLogisticRegression(
		WithC(lr.c),
		WithFitIntercept(lr.fitIntercept),
		WithMaxIter(lr.maxIter),
		WithTol(lr.tol),
		WithRandomState(lr.seed),
	)
}

// GetParams returns the model hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"C":             lr.c,
		"fit_intercept": lr.fitIntercept,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
	}
}

// NIter returns the number of gradient descent iterations actually run.
func (lr *LogisticRegression) NIter() int {
	return lr.nIter
}

// Fit trains the model with gradient descent.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("LogisticRegression.Fit", "y must be a column vector")
	}
	if lr.c <= 0 {
		return errors.NewValidationError("C", "must be positive", lr.c)
	}

	// convert ±1 labels to 0/1
	yBinary := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		switch y.At(i, 0) {
		case 1:
			yBinary[i] = 1
		case -1:
			yBinary[i] = 0
		default:
			return errors.NewValueError("LogisticRegression.Fit", "labels must be +1 or -1")
		}
	}

	lr.nFeatures = nFeatures
	rng := rand.New(rand.NewPCG(lr.seed, lr.seed))
	weights := make([]float64, nFeatures)
	for j := range weights {
		weights[j] = rng.NormFloat64() * 0.01
	}
	intercept := 0.0

	baseLearningRate := 1.0
	lambda := 1.0 / lr.c

	for iter := 0; iter < lr.maxIter; iter++ {
		gradWeights := make([]float64, nFeatures)
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * weights[j]
			}
			residual := sigmoid(z) - yBinary[i]
			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += residual * X.At(i, j)
			}
		}

		for j := range gradWeights {
			gradWeights[j] = gradWeights[j]/float64(nSamples) + lambda*weights[j]
		}
		gradIntercept /= float64(nSamples)

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))

		for j := range weights {
			weights[j] -= learningRate * gradWeights[j]
		}
		if lr.fitIntercept {
			intercept -= learningRate * gradIntercept
		}

		lr.nIter = iter + 1

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < lr.tol {
			break
		}
	}

	if lr.nIter == lr.maxIter {
		errors.Warn(errors.NewConvergenceWarning("GradientDescent", lr.maxIter, ""))
	}

	lr.coef = weights
	lr.intercept = intercept
	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()
	return nil
}

// Predict returns ±1 labels for every row of X.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	probas, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}

	nSamples, _ := probas.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		if probas.At(i, 1) >= 0.5 {
			predictions.Set(i, 0, 1)
		} else {
			predictions.Set(i, 0, -1)
		}
	}
	return predictions, nil
}

// PredictProba returns class probabilities, column 0 for label -1 and column
// 1 for label +1.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "PredictProba")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != lr.nFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.PredictProba", lr.nFeatures, nFeatures, 1)
	}

	probas := mat.NewDense(nSamples, 2, nil)
	for i := 0; i < nSamples; i++ {
		z := lr.intercept
		for j := 0; j < nFeatures; j++ {
			z += X.At(i, j) * lr.coef[j]
		}
		p := sigmoid(z)
		probas.Set(i, 0, 1-p)
		probas.Set(i, 1, p)
	}
	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	nSamples, _ := X.Dims()
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples), nil
}

// sigmoid computes the logistic function.
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// Package neighbors implements a k-nearest-neighbors classifier with
// Euclidean distance.
package neighbors

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/Bhavana1025/ml-Project/core/model"
	"github.com/Bhavana1025/ml-Project/core/parallel"
	"github.com/Bhavana1025/ml-Project/pkg/errors"
)

// Weighting schemes for neighbor votes.
const (
	WeightsUniform  = "uniform"
	WeightsDistance = "distance"
)

// KNNClassifier predicts by majority vote among the k nearest training
// samples. Fit only stores the training set.
type KNNClassifier struct {
	state *model.StateManager

	k       int
	weights string

	trainX *mat.Dense
	trainY []float64
}

// Option configures a KNNClassifier.
type Option func(*KNNClassifier)

// WithK sets the neighbor count.
func WithK(k int) Option {
	return func(c *KNNClassifier) { c.k = k }
}

// WithWeights selects the vote weighting: "uniform" or "distance".
func WithWeights(weights string) Option {
	return func(c *KNNClassifier) { c.weights = weights }
}

// NewKNNClassifier creates a KNN classifier (k=5, uniform weights).
func NewKNNClassifier(opts ...Option) *KNNClassifier {
	c := &KNNClassifier{
		state:   model.NewStateManager(),
		k:       5,
		weights: WeightsUniform,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clone returns an unfitted copy with the same hyperparameters.
func (c *KNNClassifier) Clone() model.Classifier {
	return NewKNNClassifier(WithK(c.k), WithWeights(c.weights))
}

// GetParams returns the classifier's hyperparameters.
func (c *KNNClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_neighbors": c.k,
		"weights":     c.weights,
	}
}

// Fit stores the training data.
func (c *KNNClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 {
		return errors.NewModelError("KNNClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("KNNClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("KNNClassifier.Fit", "y must be a column vector")
	}
	if c.k < 1 {
		return errors.NewValidationError("n_neighbors", "must be at least 1", c.k)
	}
	if c.k > nSamples {
		return errors.NewValidationError("n_neighbors", "must not exceed sample count", c.k)
	}
	if c.weights != WeightsUniform && c.weights != WeightsDistance {
		return errors.NewValidationError("weights", "must be uniform or distance", c.weights)
	}

	c.trainX = mat.DenseCopyOf(X)
	c.trainY = make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		c.trainY[i] = y.At(i, 0)
	}

	c.state.SetDimensions(nFeatures, nSamples)
	c.state.SetFitted()
	return nil
}

type neighbor struct {
	dist  float64
	label float64
}

// Predict returns the majority-vote label for every row of X.
func (c *KNNClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !c.state.IsFitted() {
		return nil, errors.NewNotFittedError("KNNClassifier", "Predict")
	}

	nSamples, nFeatures := X.Dims()
	trainN, trainFeatures := c.trainX.Dims()
	if nFeatures != trainFeatures {
		return nil, errors.NewDimensionError("KNNClassifier.Predict", trainFeatures, nFeatures, 1)
	}

	predictions := mat.NewDense(nSamples, 1, nil)

	// queries are independent, so chunk them across cores
	parallel.ParallelizeWithThreshold(nSamples, 16, func(start, end int) {
		row := make([]float64, nFeatures)
		nearest := make([]neighbor, trainN)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)

			for t := 0; t < trainN; t++ {
				train := c.trainX.RawRowView(t)
				sq := 0.0
				for j := range row {
					d := row[j] - train[j]
					sq += d * d
				}
				nearest[t] = neighbor{dist: math.Sqrt(sq), label: c.trainY[t]}
			}

			sort.Slice(nearest, func(a, b int) bool {
				return nearest[a].dist < nearest[b].dist
			})

			votes := make(map[float64]float64)
			for _, n := range nearest[:c.k] {
				w := 1.0
				if c.weights == WeightsDistance {
					w = 1.0 / (n.dist + 1e-12)
				}
				votes[n.label] += w
			}

			best := nearest[0].label
			bestVotes := math.Inf(-1)
			for label, v := range votes {
				if v > bestVotes || (v == bestVotes && label > best) {
					best = label
					bestVotes = v
				}
			}
			predictions.Set(i, 0, best)
		}
	})

	return predictions, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (c *KNNClassifier) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := c.Predict(X)
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

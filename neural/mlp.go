// Package neural implements feed-forward neural network classifiers: a
// configurable MLP for hyperparameter sweeps and a fixed deeper architecture
// for held-out evaluation.
package neural

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/Bhavana1025/ml-Project/core/model"
	"github.com/Bhavana1025/ml-Project/pkg/errors"
)

// Optimizer names accepted by the classifier.
const (
	OptimizerSGD  = "sgd"
	OptimizerAdam = "adam"
)

// MLPClassifier is a feed-forward network for ±1 labels: ReLU hidden layers,
// softmax output, cross-entropy loss, mini-batch training.
type MLPClassifier struct {
	state *model.StateManager

	hidden       []int
	learningRate float64
	epochs       int
	batchSize    int
	momentum     float64
	alpha        float64 // L2 penalty
	optimizer    string
	seed         uint64

	// fitted parameters, one entry per layer
	weights [][]float64 // [layer][out*in], row-major
	biases  [][]float64
	sizes   []int // layer widths including input and the 2 output units
}

// Option configures an MLPClassifier.
type Option func(*MLPClassifier)

// WithHiddenLayers sets the hidden layer widths.
func WithHiddenLayers(sizes ...int) Option {
	return func(m *MLPClassifier) { m.hidden = sizes }
}

// WithLearningRate sets the step size.
func WithLearningRate(lr float64) Option {
	return func(m *MLPClassifier) { m.learningRate = lr }
}

// WithEpochs sets the number of passes over the training set.
func WithEpochs(epochs int) Option {
	return func(m *MLPClassifier) { m.epochs = epochs }
}

// WithBatchSize sets the mini-batch size.
func WithBatchSize(batchSize int) Option {
	return func(m *MLPClassifier) { m.batchSize = batchSize }
}

// WithMomentum sets the SGD momentum coefficient.
func WithMomentum(momentum float64) Option {
	return func(m *MLPClassifier) { m.momentum = momentum }
}

// WithAlpha sets the L2 penalty.
func WithAlpha(alpha float64) Option {
	return func(m *MLPClassifier) { m.alpha = alpha }
}

// WithOptimizer selects "sgd" or "adam".
func WithOptimizer(optimizer string) Option {
	return func(m *MLPClassifier) { m.optimizer = optimizer }
}

// WithSeed seeds weight initialization and batch shuffling.
func WithSeed(seed uint64) Option {
	return func(m *MLPClassifier) { m.seed = seed }
}

// NewMLPClassifier creates an MLP with a single 100-unit hidden layer and
// SGD with momentum, mirroring sklearn's defaults where practical.
func NewMLPClassifier(opts ...Option) *MLPClassifier {
	m := &MLPClassifier{
		state:        model.NewStateManager(),
		hidden:       []int{100},
		learningRate: 0.001,
		epochs:       200,
		batchSize:    32,
		momentum:     0.9,
		alpha:        1e-4,
		optimizer:    OptimizerSGD,
		seed:         42,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewDeepClassifier returns the fixed deeper configuration used for held-out
// evaluation: two hidden layers (64, 32) trained with Adam for 60 epochs.
func NewDeepClassifier(seed uint64) *MLPClassifier {
	return NewMLPClassifier(
		WithHiddenLayers(64, 32),
		WithOptimizer(OptimizerAdam),
		WithLearningRate(0.001),
		WithEpochs(60),
		WithBatchSize(16),
		WithSeed(seed),
	)
}

// Clone returns an unfitted copy with the same hyperparameters.
func (m *MLPClassifier) Clone() model.Classifier {
	hidden := make([]int, len(m.hidden))
	copy(hidden, m.hidden)
	return NewMLPClassifier(
		WithHiddenLayers(hidden...),
		WithLearningRate(m.learningRate),
		WithEpochs(m.epochs),
		WithBatchSize(m.batchSize),
		WithMomentum(m.momentum),
		WithAlpha(m.alpha),
		WithOptimizer(m.optimizer),
		WithSeed(m.seed),
	)
}

// GetParams returns the classifier's hyperparameters.
func (m *MLPClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"hidden_layer_sizes": m.hidden,
		"learning_rate_init": m.learningRate,
		"max_iter":           m.epochs,
		"batch_size":         m.batchSize,
		"momentum":           m.momentum,
		"alpha":              m.alpha,
		"solver":             m.optimizer,
	}
}

// labelIndex maps a ±1 label to its output unit.
func labelIndex(label float64) int {
	if label == 1 {
		return 1
	}
	return 0
}

// Fit trains the network with mini-batch gradient descent.
func (m *MLPClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 {
		return errors.NewModelError("MLPClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("MLPClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("MLPClassifier.Fit", "y must be a column vector")
	}
	if m.optimizer != OptimizerSGD && m.optimizer != OptimizerAdam {
		return errors.NewValidationError("solver", "must be sgd or adam", m.optimizer)
	}
	if m.learningRate <= 0 {
		return errors.NewValidationError("learning_rate_init", "must be positive", m.learningRate)
	}
	for _, h := range m.hidden {
		if h < 1 {
			return errors.NewValidationError("hidden_layer_sizes", "widths must be positive", m.hidden)
		}
	}

	labels := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		v := y.At(i, 0)
		if v != 1 && v != -1 {
			return errors.NewValueError("MLPClassifier.Fit", "labels must be +1 or -1")
		}
		labels[i] = v
	}

	m.sizes = append(append([]int{nFeatures}, m.hidden...), 2)
	nLayers := len(m.sizes) - 1

	rng := rand.New(rand.NewPCG(m.seed, m.seed))

	// He initialization
	m.weights = make([][]float64, nLayers)
	m.biases = make([][]float64, nLayers)
	for l := 0; l < nLayers; l++ {
		in, out := m.sizes[l], m.sizes[l+1]
		scale := math.Sqrt(2.0 / float64(in))
		m.weights[l] = make([]float64, in*out)
		for i := range m.weights[l] {
			m.weights[l][i] = rng.NormFloat64() * scale
		}
		m.biases[l] = make([]float64, out)
	}

	// optimizer state
	velW := make([][]float64, nLayers)
	velB := make([][]float64, nLayers)
	adamMW := make([][]float64, nLayers)
	adamVW := make([][]float64, nLayers)
	adamMB := make([][]float64, nLayers)
	adamVB := make([][]float64, nLayers)
	for l := 0; l < nLayers; l++ {
		velW[l] = make([]float64, len(m.weights[l]))
		velB[l] = make([]float64, len(m.biases[l]))
		adamMW[l] = make([]float64, len(m.weights[l]))
		adamVW[l] = make([]float64, len(m.weights[l]))
		adamMB[l] = make([]float64, len(m.biases[l]))
		adamVB[l] = make([]float64, len(m.biases[l]))
	}

	rows := make([][]float64, nSamples)
	for i := range rows {
		rows[i] = mat.Row(nil, i, X)
	}

	order := make([]int, nSamples)
	for i := range order {
		order[i] = i
	}

	batchSize := m.batchSize
	if batchSize <= 0 || batchSize > nSamples {
		batchSize = nSamples
	}

	const beta1, beta2, eps = 0.9, 0.999, 1e-8
	adamStep := 0

	gradW := make([][]float64, nLayers)
	gradB := make([][]float64, nLayers)
	for l := 0; l < nLayers; l++ {
		gradW[l] = make([]float64, len(m.weights[l]))
		gradB[l] = make([]float64, len(m.biases[l]))
	}

	for epoch := 0; epoch < m.epochs; epoch++ {
		rng.Shuffle(nSamples, func(i, j int) { order[i], order[j] = order[j], order[i] })

		epochLoss := 0.0
		for batchStart := 0; batchStart < nSamples; batchStart += batchSize {
			batchEnd := batchStart + batchSize
			if batchEnd > nSamples {
				batchEnd = nSamples
			}
			n := float64(batchEnd - batchStart)

			for l := 0; l < nLayers; l++ {
				clear(gradW[l])
				clear(gradB[l])
			}

			for _, idx := range order[batchStart:batchEnd] {
				activations, probs := m.forward(rows[idx])
				target := labelIndex(labels[idx])
				epochLoss += -math.Log(math.Max(probs[target], 1e-15))

				// output delta for softmax + cross-entropy
				delta := []float64{probs[0], probs[1]}
				delta[target] -= 1

				for l := nLayers - 1; l >= 0; l-- {
					in, out := m.sizes[l], m.sizes[l+1]
					prev := activations[l]

					for o := 0; o < out; o++ {
						gradB[l][o] += delta[o]
						for i := 0; i < in; i++ {
							gradW[l][o*in+i] += delta[o] * prev[i]
						}
					}

					if l > 0 {
						next := make([]float64, in)
						for i := 0; i < in; i++ {
							if prev[i] > 0 { // ReLU gradient
								sum := 0.0
								for o := 0; o < out; o++ {
									sum += delta[o] * m.weights[l][o*in+i]
								}
								next[i] = sum
							}
						}
						delta = next
					}
				}
			}

			// apply the averaged batch gradient
			for l := 0; l < nLayers; l++ {
				for i := range gradW[l] {
					g := gradW[l][i]/n + m.alpha*m.weights[l][i]
					switch m.optimizer {
					case OptimizerAdam:
						adamMW[l][i] = beta1*adamMW[l][i] + (1-beta1)*g
						adamVW[l][i] = beta2*adamVW[l][i] + (1-beta2)*g*g
						mHat := adamMW[l][i] / (1 - math.Pow(beta1, float64(adamStep+1)))
						vHat := adamVW[l][i] / (1 - math.Pow(beta2, float64(adamStep+1)))
						m.weights[l][i] -= m.learningRate * mHat / (math.Sqrt(vHat) + eps)
					default:
						velW[l][i] = m.momentum*velW[l][i] - m.learningRate*g
						m.weights[l][i] += velW[l][i]
					}
				}
				for i := range gradB[l] {
					g := gradB[l][i] / n
					switch m.optimizer {
					case OptimizerAdam:
						adamMB[l][i] = beta1*adamMB[l][i] + (1-beta1)*g
						adamVB[l][i] = beta2*adamVB[l][i] + (1-beta2)*g*g
						mHat := adamMB[l][i] / (1 - math.Pow(beta1, float64(adamStep+1)))
						vHat := adamVB[l][i] / (1 - math.Pow(beta2, float64(adamStep+1)))
						m.biases[l][i] -= m.learningRate * mHat / (math.Sqrt(vHat) + eps)
					default:
						velB[l][i] = m.momentum*velB[l][i] - m.learningRate*g
						m.biases[l][i] += velB[l][i]
					}
				}
			}
			adamStep++
		}

		if err := errors.CheckScalar("loss_calculation", epochLoss/float64(nSamples), epoch); err != nil {
			return err
		}
	}

	m.state.SetDimensions(nFeatures, nSamples)
	m.state.SetFitted()
	return nil
}

// forward runs one sample through the network, returning per-layer
// activations (input included) and the softmax output.
func (m *MLPClassifier) forward(x []float64) ([][]float64, []float64) {
	nLayers := len(m.sizes) - 1
	activations := make([][]float64, nLayers+1)
	activations[0] = x

	for l := 0; l < nLayers; l++ {
		in, out := m.sizes[l], m.sizes[l+1]
		prev := activations[l]
		a := make([]float64, out)
		for o := 0; o < out; o++ {
			sum := m.biases[l][o]
			w := m.weights[l][o*in:]
			for i := 0; i < in; i++ {
				sum += w[i] * prev[i]
			}
			if l < nLayers-1 && sum < 0 { // ReLU on hidden layers
				sum = 0
			}
			a[o] = sum
		}
		activations[l+1] = a
	}

	logits := activations[nLayers]
	maxLogit := math.Max(logits[0], logits[1])
	e0 := math.Exp(logits[0] - maxLogit)
	e1 := math.Exp(logits[1] - maxLogit)
	return activations, []float64{e0 / (e0 + e1), e1 / (e0 + e1)}
}

// PredictProba returns per-class probabilities, column 0 for label -1 and
// column 1 for label +1.
func (m *MLPClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !m.state.IsFitted() {
		return nil, errors.NewNotFittedError("MLPClassifier", "PredictProba")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != m.sizes[0] {
		return nil, errors.NewDimensionError("MLPClassifier.PredictProba", m.sizes[0], nFeatures, 1)
	}

	probas := mat.NewDense(nSamples, 2, nil)
	row := make([]float64, nFeatures)
	for i := 0; i < nSamples; i++ {
		mat.Row(row, i, X)
		_, probs := m.forward(row)
		probas.Set(i, 0, probs[0])
		probas.Set(i, 1, probs[1])
	}
	return probas, nil
}

// Predict returns ±1 labels for every row of X.
func (m *MLPClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	probas, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}

	nSamples, _ := probas.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		if probas.At(i, 1) >= probas.At(i, 0) {
			predictions.Set(i, 0, 1)
		} else {
			predictions.Set(i, 0, -1)
		}
	}
	return predictions, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (m *MLPClassifier) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := m.Predict(X)
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

// Package svm implements a binary soft-margin support vector classifier
// trained with sequential minimal optimization.
package svm

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/Bhavana1025/ml-Project/core/model"
	"github.com/Bhavana1025/ml-Project/core/parallel"
	"github.com/Bhavana1025/ml-Project/pkg/errors"
)

// Kernel names accepted by the classifier.
const (
	KernelRBF    = "rbf"
	KernelLinear = "linear"
)

// SVC is a binary support vector classifier for ±1 labels.
type SVC struct {
	state *model.StateManager

	// Hyperparameters
	kernel    string
	c         float64 // soft-margin penalty
	gamma     float64 // RBF width; <= 0 means 1/n_features
	tol       float64 // KKT violation tolerance
	maxIter   int     // hard cap on SMO sweeps
	maxPasses int     // sweeps without any alpha update before stopping
	seed      uint64

	// Fitted model: support vectors and their dual coefficients.
	supportX     *mat.Dense
	supportAlpha []float64 // alpha_i * y_i
	b            float64
	gammaFitted  float64
	nFeatures    int
}

// Option configures an SVC.
type Option func(*SVC)

// WithC sets the soft-margin penalty parameter.
func WithC(c float64) Option {
	return func(s *SVC) { s.c = c }
}

// WithGamma sets the RBF kernel width. Values <= 0 select 1/n_features.
func WithGamma(gamma float64) Option {
	return func(s *SVC) { s.gamma = gamma }
}

// WithKernel selects the kernel: "rbf" or "linear".
func WithKernel(kernel string) Option {
	return func(s *SVC) { s.kernel = kernel }
}

// WithTol sets the KKT violation tolerance.
func WithTol(tol float64) Option {
	return func(s *SVC) { s.tol = tol }
}

// WithMaxIter caps the number of SMO sweeps over the training set.
func WithMaxIter(maxIter int) Option {
	return func(s *SVC) { s.maxIter = maxIter }
}

// WithRandomState seeds the partner-selection RNG.
func WithRandomState(seed uint64) Option {
	return func(s *SVC) { s.seed = seed }
}

// NewSVC creates a support vector classifier with sklearn-like defaults
// (C=1, RBF kernel, gamma=1/n_features).
func NewSVC(opts ...Option) *SVC {
	s := &SVC{
		state:     model.NewStateManager(),
		kernel:    KernelRBF,
		c:         1.0,
		gamma:     0,
		tol:       1e-3,
		maxIter:   1000,
		maxPasses: 5,
		seed:      42,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clone returns an unfitted copy with the same hyperparameters.
func (s *SVC) Clone() model.Classifier {
	return NewSVC(
		WithKernel(s.kernel),
		WithC(s.c),
		WithGamma(s.gamma),
		WithTol(s.tol),
		WithMaxIter(s.maxIter),
		WithRandomState(s.seed),
	)
}

// GetParams returns the classifier's hyperparameters.
func (s *SVC) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"kernel":   s.kernel,
		"C":        s.c,
		"gamma":    s.gamma,
		"tol":      s.tol,
		"max_iter": s.maxIter,
	}
}

func (s *SVC) kernelFunc(a, b []float64) float64 {
	switch s.kernel {
	case KernelLinear:
		dot := 0.0
		for i := range a {
			dot += a[i] * b[i]
		}
		return dot
	default: // rbf
		sq := 0.0
		for i := range a {
			d := a[i] - b[i]
			sq += d * d
		}
		return math.Exp(-s.gammaFitted * sq)
	}
}

// Fit trains the classifier with simplified SMO. y must be a column vector of
// ±1 labels.
func (s *SVC) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 {
		return errors.NewModelError("SVC.Fit", "empty data", errors.ErrEmptyData)
	}
	if nSamples < 2 {
		return errors.NewValueError("SVC.Fit", "at least two samples required")
	}
	if yRows != nSamples {
		return errors.NewDimensionError("SVC.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("SVC.Fit", "y must be a column vector")
	}
	if s.kernel != KernelRBF && s.kernel != KernelLinear {
		return errors.NewValidationError("kernel", "must be rbf or linear", s.kernel)
	}
	if s.c <= 0 {
		return errors.NewValidationError("C", "must be positive", s.c)
	}

	labels := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		v := y.At(i, 0)
		if v != 1 && v != -1 {
			return errors.NewValueError("SVC.Fit", "labels must be +1 or -1")
		}
		labels[i] = v
	}

	s.gammaFitted = s.gamma
	if s.gammaFitted <= 0 {
		s.gammaFitted = 1.0 / float64(nFeatures)
	}

	rows := make([][]float64, nSamples)
	for i := range rows {
		rows[i] = mat.Row(nil, i, X)
	}

	// Precompute the kernel matrix; rows are independent so split the work
	// across cores.
	K := make([][]float64, nSamples)
	parallel.ParallelizeWithThreshold(nSamples, 32, func(start, end int) {
		for i := start; i < end; i++ {
			K[i] = make([]float64, nSamples)
			for j := 0; j < nSamples; j++ {
				K[i][j] = s.kernelFunc(rows[i], rows[j])
			}
		}
	})

	alphas := make([]float64, nSamples)
	b := 0.0
	rng := rand.New(rand.NewPCG(s.seed, s.seed))

	decision := func(i int) float64 {
		sum := b
		for k := 0; k < nSamples; k++ {
			if alphas[k] != 0 {
				sum += alphas[k] * labels[k] * K[k][i]
			}
		}
		return sum
	}

	passes := 0
	iter := 0
	for passes < s.maxPasses && iter < s.maxIter {
		changed := 0
		for i := 0; i < nSamples; i++ {
			Ei := decision(i) - labels[i]
			if (labels[i]*Ei < -s.tol && alphas[i] < s.c) || (labels[i]*Ei > s.tol && alphas[i] > 0) {
				j := rng.IntN(nSamples - 1)
				if j >= i {
					j++
				}
				Ej := decision(j) - labels[j]

				alphaIOld, alphaJOld := alphas[i], alphas[j]

				var lo, hi float64
				if labels[i] != labels[j] {
					lo = math.Max(0, alphas[j]-alphas[i])
					hi = math.Min(s.c, s.c+alphas[j]-alphas[i])
				} else {
					lo = math.Max(0, alphas[i]+alphas[j]-s.c)
					hi = math.Min(s.c, alphas[i]+alphas[j])
				}
				if lo == hi {
					continue
				}

				eta := 2*K[i][j] - K[i][i] - K[j][j]
				if eta >= 0 {
					continue
				}

				alphas[j] -= labels[j] * (Ei - Ej) / eta
				if alphas[j] > hi {
					alphas[j] = hi
				} else if alphas[j] < lo {
					alphas[j] = lo
				}
				if math.Abs(alphas[j]-alphaJOld) < 1e-5 {
					alphas[j] = alphaJOld
					continue
				}

				alphas[i] += labels[i] * labels[j] * (alphaJOld - alphas[j])

				b1 := b - Ei - labels[i]*(alphas[i]-alphaIOld)*K[i][i] - labels[j]*(alphas[j]-alphaJOld)*K[i][j]
				b2 := b - Ej - labels[i]*(alphas[i]-alphaIOld)*K[i][j] - labels[j]*(alphas[j]-alphaJOld)*K[j][j]
				switch {
				case alphas[i] > 0 && alphas[i] < s.c:
					b = b1
				case alphas[j] > 0 && alphas[j] < s.c:
					b = b2
				default:
					b = (b1 + b2) / 2
				}

				changed++
			}
		}

		if changed == 0 {
			passes++
		} else {
			passes = 0
		}
		iter++
	}

	if iter >= s.maxIter {
		errors.Warn(errors.NewConvergenceWarning("SMO", s.maxIter, ""))
	}

	// Keep only the support vectors.
	nSupport := 0
	for _, a := range alphas {
		if a > 0 {
			nSupport++
		}
	}
	if nSupport == 0 {
		// degenerate but valid: decision collapses to the bias term
		s.supportX = mat.NewDense(1, nFeatures, rows[0])
		s.supportAlpha = []float64{0}
	} else {
		s.supportX = mat.NewDense(nSupport, nFeatures, nil)
		s.supportAlpha = make([]float64, 0, nSupport)
		k := 0
		for i, a := range alphas {
			if a > 0 {
				s.supportX.SetRow(k, rows[i])
				s.supportAlpha = append(s.supportAlpha, a*labels[i])
				k++
			}
		}
	}
	s.b = b
	s.nFeatures = nFeatures

	s.state.SetDimensions(nFeatures, nSamples)
	s.state.SetFitted()
	return nil
}

// NSupport returns the number of support vectors.
func (s *SVC) NSupport() int {
	if !s.state.IsFitted() {
		return 0
	}
	r, _ := s.supportX.Dims()
	return r
}

// DecisionFunction returns the signed distance to the separating surface for
// every row of X.
func (s *SVC) DecisionFunction(X mat.Matrix) (*mat.VecDense, error) {
	if !s.state.IsFitted() {
		return nil, errors.NewNotFittedError("SVC", "DecisionFunction")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != s.nFeatures {
		return nil, errors.NewDimensionError("SVC.DecisionFunction", s.nFeatures, nFeatures, 1)
	}

	nSupport, _ := s.supportX.Dims()
	out := mat.NewVecDense(nSamples, nil)

	parallel.ParallelizeWithThreshold(nSamples, 64, func(start, end int) {
		row := make([]float64, nFeatures)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			sum := s.b
			for k := 0; k < nSupport; k++ {
				sum += s.supportAlpha[k] * s.kernelFunc(s.supportX.RawRowView(k), row)
			}
			out.SetVec(i, sum)
		}
	})

	return out, nil
}

// Predict returns ±1 labels for every row of X.
func (s *SVC) Predict(X mat.Matrix) (mat.Matrix, error) {
	decisions, err := s.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	n := decisions.Len()
	predictions := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		if decisions.AtVec(i) >= 0 {
			predictions.Set(i, 0, 1)
		} else {
			predictions.Set(i, 0, -1)
		}
	}
	return predictions, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (s *SVC) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := s.Predict(X)
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

// Package ensemble implements stacked generalization over a set of base
// classifiers with a meta-learner trained on out-of-fold predictions.
package ensemble

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/Bhavana1025/ml-Project/core/model"
	"github.com/Bhavana1025/ml-Project/modelselection"
	"github.com/Bhavana1025/ml-Project/pkg/errors"
	"github.com/Bhavana1025/ml-Project/pkg/log"
)

// NamedClassifier pairs a base classifier with a display name.
type NamedClassifier struct {
	Name       string
	Classifier model.Classifier
}

// StackingClassifier trains base classifiers and combines their predictions
// with a meta-learner. Meta-features are out-of-fold predictions so the
// meta-learner never sees a base model's predictions on its own training
// samples.
type StackingClassifier struct {
	state *model.StateManager

	base       []NamedClassifier
	meta       model.Classifier
	cvSplits   int
	randomSeed int

	fittedBase []model.Classifier
	nFeatures  int
}

// Option is a functional option for StackingClassifier.
type Option func(*StackingClassifier)

// WithCV sets the number of internal folds for out-of-fold predictions.
func WithCV(nSplits int) Option {
	return func(sc *StackingClassifier) { sc.cvSplits = nSplits }
}

// WithRandomState seeds the internal fold shuffling.
func WithRandomState(seed int) Option {
	return func(sc *StackingClassifier) { sc.randomSeed = seed }
}

// NewStackingClassifier creates a stacking classifier from the given base
// classifiers and meta-learner.
func NewStackingClassifier(base []NamedClassifier, meta model.Classifier, opts ...Option) *StackingClassifier {
	sc := &StackingClassifier{
		state:      model.NewStateManager(),
		base:       base,
		meta:       meta,
		cvSplits:   5,
		randomSeed: 42,
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// Clone returns an unfitted copy with cloned base and meta classifiers.
func (sc *StackingClassifier) Clone() model.Classifier {
	base := make([]NamedClassifier, len(sc.base))
	for i, nc := range sc.base {
		base[i] = NamedClassifier{Name: nc.Name, Classifier: nc.Classifier.Clone()}
	}
	return NewStackingClassifier(base, sc.meta.Clone(),
		WithCV(sc.cvSplits),
		WithRandomState(sc.randomSeed),
	)
}

// GetParams returns the ensemble configuration.
func (sc *StackingClassifier) GetParams() map[string]interface{} {
	names := make([]string, len(sc.base))
	for i, nc := range sc.base {
		names[i] = nc.Name
	}
	return map[string]interface{}{
		"base": names,
		"cv":   sc.cvSplits,
	}
}

// Fit builds out-of-fold meta-features, trains the meta-learner on them and
// refits every base classifier on the full training set.
func (sc *StackingClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, _ := y.Dims()

	if len(sc.base) == 0 {
		return errors.NewValueError("StackingClassifier.Fit", "no base classifiers")
	}
	if sc.meta == nil {
		return errors.NewValueError("StackingClassifier.Fit", "no meta-learner")
	}
	if nSamples == 0 {
		return errors.NewModelError("StackingClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if yRows != nSamples {
		return errors.NewDimensionError("StackingClassifier.Fit", nSamples, yRows, 0)
	}

	splitter := modelselection.NewStratifiedKFold(sc.cvSplits, true, sc.randomSeed)
	folds := splitter.Split(X, y)

	metaX := mat.NewDense(nSamples, len(sc.base), nil)

	for b, nc := range sc.base {
		for _, fold := range folds {
			trainX, trainY := modelselection.ExtractSubset(X, y, fold.TrainIndices)

			foldClf := nc.Classifier.Clone()
			if err := foldClf.Fit(trainX, trainY); err != nil {
				return errors.Wrapf(err, "base %q out-of-fold training failed", nc.Name)
			}

			testX, _ := modelselection.ExtractSubset(X, y, fold.TestIndices)
			preds, err := foldClf.Predict(testX)
			if err != nil {
				return errors.Wrapf(err, "base %q out-of-fold prediction failed", nc.Name)
			}

			// ExtractSubset sorts indices, so prediction rows line up
			// with the sorted test indices.
			sorted := sortedCopy(fold.TestIndices)
			for i, idx := range sorted {
				metaX.Set(idx, b, preds.At(i, 0))
			}
		}
	}

	if err := sc.meta.Fit(metaX, y); err != nil {
		return errors.Wrapf(err, "meta-learner training failed")
	}

	sc.fittedBase = make([]model.Classifier, len(sc.base))
	for b, nc := range sc.base {
		clf := nc.Classifier.Clone()
		if err := clf.Fit(X, y); err != nil {
			return errors.Wrapf(err, "base %q full training failed", nc.Name)
		}
		sc.fittedBase[b] = clf
	}

	sc.nFeatures = nFeatures
	sc.state.SetDimensions(nFeatures, nSamples)
	sc.state.SetFitted()

	slog.Debug("stacking ensemble fitted",
		slog.String(log.ModelNameKey, "StackingClassifier"),
		slog.Int("base.count", len(sc.base)),
		slog.Int(log.SamplesKey, nSamples),
	)
	return nil
}

// Predict returns ±1 labels for every row of X.
func (sc *StackingClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !sc.state.IsFitted() {
		return nil, errors.NewNotFittedError("StackingClassifier", "Predict")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != sc.nFeatures {
		return nil, errors.NewDimensionError("StackingClassifier.Predict", sc.nFeatures, nFeatures, 1)
	}

	metaX := mat.NewDense(nSamples, len(sc.fittedBase), nil)
	for b, clf := range sc.fittedBase {
		preds, err := clf.Predict(X)
		if err != nil {
			return nil, errors.Wrapf(err, "base %q prediction failed", sc.base[b].Name)
		}
		for i := 0; i < nSamples; i++ {
			metaX.Set(i, b, preds.At(i, 0))
		}
	}

	return sc.meta.Predict(metaX)
}

// Score returns the mean accuracy on the given test data and labels.
func (sc *StackingClassifier) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := sc.Predict(X)
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

func sortedCopy(indices []int) []int {
	out := make([]int, len(indices))
	copy(out, indices)
	sort.Ints(out)
	return out
}

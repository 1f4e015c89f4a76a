// Package metrics implements classification metrics used to benchmark the
// connectome classifiers.
package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/Bhavana1025/ml-Project/pkg/errors"
)

// Accuracy returns the fraction of exactly matching labels.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// AccuracyMatrix computes accuracy for (n, 1) label matrices, the shape
// returned by classifier Predict.
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("AccuracyMatrix", "empty matrix")
	}
	if cTrue != 1 || cPred != 1 {
		return 0, errors.NewValueError("AccuracyMatrix", "labels must be column vectors")
	}
	if rTrue != rPred {
		return 0, errors.NewDimensionError("AccuracyMatrix", rTrue, rPred, 0)
	}

	correct := 0
	for i := 0; i < rTrue; i++ {
		if yTrue.At(i, 0) == yPred.At(i, 0) {
			correct++
		}
	}

	return float64(correct) / float64(rTrue), nil
}

// ConfusionMatrix returns the binary confusion counts for ±1 labels.
// Positive class is +1.
type ConfusionMatrix struct {
	TruePositive  int
	TrueNegative  int
	FalsePositive int
	FalseNegative int
}

// NewConfusionMatrix tallies binary confusion counts from ±1 label vectors.
func NewConfusionMatrix(yTrue, yPred *mat.VecDense) (*ConfusionMatrix, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError("ConfusionMatrix", n, yPred.Len(), 0)
	}

	cm := &ConfusionMatrix{}
	for i := 0; i < n; i++ {
		truth := yTrue.AtVec(i)
		pred := yPred.AtVec(i)
		if truth != 1 && truth != -1 {
			return nil, errors.NewValueError("ConfusionMatrix", "labels must be +1 or -1")
		}

		switch {
		case truth == 1 && pred == 1:
			cm.TruePositive++
		case truth == -1 && pred == -1:
			cm.TrueNegative++
		case truth == -1 && pred == 1:
			cm.FalsePositive++
		default:
			cm.FalseNegative++
		}
	}

	return cm, nil
}

// Precision returns TP / (TP + FP). When no positives were predicted the
// metric is undefined; 0 is returned and an UndefinedMetricWarning raised.
func (cm *ConfusionMatrix) Precision() float64 {
	denom := cm.TruePositive + cm.FalsePositive
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", 0))
		return 0
	}
	return float64(cm.TruePositive) / float64(denom)
}

// Recall returns TP / (TP + FN). When no true positives exist the metric is
// undefined; 0 is returned and an UndefinedMetricWarning raised.
func (cm *ConfusionMatrix) Recall() float64 {
	denom := cm.TruePositive + cm.FalseNegative
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no positive labels", 0))
		return 0
	}
	return float64(cm.TruePositive) / float64(denom)
}

// F1 returns the harmonic mean of precision and recall.
func (cm *ConfusionMatrix) F1() float64 {
	p := cm.Precision()
	r := cm.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Package connectome derives functional-connectivity features from ROI time
// series: a Pearson correlation matrix per subject, vectorized to its upper
// triangle.
package connectome

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Bhavana1025/ml-Project/dataset"
	"github.com/Bhavana1025/ml-Project/pkg/errors"
)

// CorrelationMatrix computes the regions × regions Pearson correlation of a
// timepoints × regions time-series matrix. Deterministic given its input.
func CorrelationMatrix(ts *mat.Dense) (*mat.SymDense, error) {
	r, c := ts.Dims()
	if r < 2 {
		return nil, errors.NewValueError("CorrelationMatrix", "need at least 2 timepoints")
	}
	if c < 2 {
		return nil, errors.NewValueError("CorrelationMatrix", "need at least 2 regions")
	}

	corr := mat.NewSymDense(c, nil)
	stat.CorrelationMatrix(corr, ts, nil)
	return corr, nil
}

// NumFeatures returns the length of a vectorized connectivity matrix for the
// given region count: p(p-1)/2 upper-triangle entries, diagonal excluded.
func NumFeatures(regions int) int {
	return regions * (regions - 1) / 2
}

// Vectorize flattens the strict upper triangle of a connectivity matrix into
// a feature vector of length NumFeatures(p), row-major order.
func Vectorize(corr *mat.SymDense) []float64 {
	p := corr.SymmetricDim()
	features := make([]float64, 0, NumFeatures(p))
	for i := 0; i < p; i++ {
		for j := i + 1; j < p; j++ {
			features = append(features, corr.At(i, j))
		}
	}
	return features
}

// Transform converts a fetched dataset into a feature matrix (subjects ×
// p(p-1)/2) and a ±1 label vector. All subjects must share a region count.
func Transform(ds *dataset.Dataset) (*mat.Dense, *mat.VecDense, error) {
	if len(ds.Subjects) == 0 {
		return nil, nil, errors.NewModelError("connectome.Transform", "no subjects", errors.ErrEmptyData)
	}

	_, regions := ds.Subjects[0].TimeSeries.Dims()
	nFeatures := NumFeatures(regions)

	X := mat.NewDense(len(ds.Subjects), nFeatures, nil)
	for i, subject := range ds.Subjects {
		_, c := subject.TimeSeries.Dims()
		if c != regions {
			return nil, nil, errors.NewDimensionError("connectome.Transform", regions, c, 1)
		}

		corr, err := CorrelationMatrix(subject.TimeSeries)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "subject %s", subject.FileID)
		}
		X.SetRow(i, Vectorize(corr))
	}

	return X, ds.Labels(), nil
}

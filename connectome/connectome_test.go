package connectome

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/Bhavana1025/ml-Project/dataset"
)

func TestCorrelationMatrix(t *testing.T) {
	// second region is an exact negative copy of the first
	ts := mat.NewDense(4, 2, []float64{
		1, -1,
		2, -2,
		3, -3,
		4, -4,
	})

	corr, err := CorrelationMatrix(ts)
	if err != nil {
		t.Fatalf("CorrelationMatrix failed: %v", err)
	}

	if got := corr.At(0, 0); math.Abs(got-1) > 1e-12 {
		t.Errorf("corr(0,0) = %v, want 1", got)
	}
	if got := corr.At(0, 1); math.Abs(got+1) > 1e-12 {
		t.Errorf("corr(0,1) = %v, want -1", got)
	}
}

func TestCorrelationMatrixTooFewTimepoints(t *testing.T) {
	ts := mat.NewDense(1, 3, []float64{1, 2, 3})
	if _, err := CorrelationMatrix(ts); err == nil {
		t.Fatal("expected error for a single timepoint")
	}
}

func TestNumFeatures(t *testing.T) {
	tests := []struct {
		regions int
		want    int
	}{
		{2, 1},
		{3, 3},
		{10, 45},
		{200, 19900}, // CC200 atlas
	}
	for _, tt := range tests {
		if got := NumFeatures(tt.regions); got != tt.want {
			t.Errorf("NumFeatures(%d) = %d, want %d", tt.regions, got, tt.want)
		}
	}
}

func TestVectorizeLength(t *testing.T) {
	p := 5
	corr := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			corr.SetSym(i, j, float64(10*i+j))
		}
	}

	features := Vectorize(corr)
	if len(features) != NumFeatures(p) {
		t.Fatalf("len = %d, want %d", len(features), NumFeatures(p))
	}

	// first entries are row 0 of the strict upper triangle
	if features[0] != corr.At(0, 1) || features[1] != corr.At(0, 2) {
		t.Error("vectorization order is not row-major upper triangle")
	}

	// the diagonal must not appear
	for _, v := range features {
		if v == corr.At(0, 0) {
			t.Fatal("diagonal entry leaked into the feature vector")
		}
	}
}

func syntheticDataset(subjects, timepoints, regions int) *dataset.Dataset {
	ds := &dataset.Dataset{}
	for s := 0; s < subjects; s++ {
		ts := mat.NewDense(timepoints, regions, nil)
		for i := 0; i < timepoints; i++ {
			for j := 0; j < regions; j++ {
				ts.Set(i, j, math.Sin(float64(i*(j+1)+s)))
			}
		}
		dx := dataset.DxAutism
		if s%2 == 1 {
			dx = dataset.DxControl
		}
		ds.Subjects = append(ds.Subjects, dataset.Subject{
			Phenotype:  dataset.Phenotype{FileID: "synthetic", DxGroup: dx},
			TimeSeries: ts,
		})
	}
	return ds
}

func TestTransform(t *testing.T) {
	ds := syntheticDataset(6, 30, 8)

	X, y, err := Transform(ds)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	r, c := X.Dims()
	if r != 6 {
		t.Errorf("rows = %d, want 6", r)
	}
	if c != NumFeatures(8) {
		t.Errorf("cols = %d, want %d", c, NumFeatures(8))
	}
	if y.Len() != 6 {
		t.Errorf("labels = %d, want 6", y.Len())
	}

	for i := 0; i < y.Len(); i++ {
		if v := y.AtVec(i); v != 1 && v != -1 {
			t.Errorf("label %d = %v, want ±1", i, v)
		}
	}
}

func TestTransformRegionMismatch(t *testing.T) {
	ds := syntheticDataset(2, 20, 6)
	ds.Subjects[1].TimeSeries = mat.NewDense(20, 5, nil)

	if _, _, err := Transform(ds); err == nil {
		t.Fatal("expected error for mismatched region counts")
	}
}

func TestTransformEmpty(t *testing.T) {
	if _, _, err := Transform(&dataset.Dataset{}); err == nil {
		t.Fatal("expected error for empty dataset")
	}
}

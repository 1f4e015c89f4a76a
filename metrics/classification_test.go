package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "perfect prediction",
			yTrue: []float64{1, -1, 1, -1},
			yPred: []float64{1, -1, 1, -1},
			want:  1.0,
		},
		{
			name:  "all wrong",
			yTrue: []float64{1, 1, -1, -1},
			yPred: []float64{-1, -1, 1, 1},
			want:  0.0,
		},
		{
			name:  "half right",
			yTrue: []float64{1, 1, -1, -1},
			yPred: []float64{1, -1, -1, 1},
			want:  0.5,
		},
		{
			name:    "dimension mismatch",
			yTrue:   []float64{1, -1},
			yPred:   []float64{1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yTrue := mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			yPred := mat.NewVecDense(len(tt.yPred), tt.yPred)

			got, err := Accuracy(yTrue, yPred)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Accuracy failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Accuracy = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("Accuracy = %v outside [0, 1]", got)
			}
		})
	}
}

func TestAccuracyMatrix(t *testing.T) {
	yTrue := mat.NewDense(3, 1, []float64{1, -1, 1})
	yPred := mat.NewDense(3, 1, []float64{1, 1, 1})

	got, err := AccuracyMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("AccuracyMatrix failed: %v", err)
	}
	want := 2.0 / 3.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("AccuracyMatrix = %v, want %v", got, want)
	}

	if _, err := AccuracyMatrix(yTrue, mat.NewDense(2, 1, nil)); err == nil {
		t.Error("expected error for row mismatch")
	}
	if _, err := AccuracyMatrix(mat.NewDense(3, 2, nil), yPred); err == nil {
		t.Error("expected error for non-column input")
	}
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := mat.NewVecDense(6, []float64{1, 1, 1, -1, -1, -1})
	yPred := mat.NewVecDense(6, []float64{1, 1, -1, -1, 1, -1})

	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("NewConfusionMatrix failed: %v", err)
	}

	if cm.TruePositive != 2 || cm.FalseNegative != 1 || cm.FalsePositive != 1 || cm.TrueNegative != 2 {
		t.Errorf("confusion counts = %+v", cm)
	}

	if p := cm.Precision(); math.Abs(p-2.0/3.0) > 1e-12 {
		t.Errorf("Precision = %v", p)
	}
	if r := cm.Recall(); math.Abs(r-2.0/3.0) > 1e-12 {
		t.Errorf("Recall = %v", r)
	}
	if f1 := cm.F1(); math.Abs(f1-2.0/3.0) > 1e-12 {
		t.Errorf("F1 = %v", f1)
	}
}

func TestConfusionMatrixRejectsNonBinaryLabels(t *testing.T) {
	yTrue := mat.NewVecDense(2, []float64{1, 2})
	yPred := mat.NewVecDense(2, []float64{1, -1})

	if _, err := NewConfusionMatrix(yTrue, yPred); err == nil {
		t.Fatal("expected error for non ±1 labels")
	}
}

func TestPrecisionUndefined(t *testing.T) {
	yTrue := mat.NewVecDense(2, []float64{-1, -1})
	yPred := mat.NewVecDense(2, []float64{-1, -1})

	cm, err := NewConfusionMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("NewConfusionMatrix failed: %v", err)
	}
	if p := cm.Precision(); p != 0 {
		t.Errorf("undefined precision = %v, want 0", p)
	}
}

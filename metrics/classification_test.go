package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/synthasl/pkg/errors"
)

func TestPredict(t *testing.T) {
	logits := mat.NewDense(3, 4, []float64{
		0.1, 0.9, 0.0, 0.0,
		2.0, -1.0, 0.5, 1.9,
		1.0, 1.0, 0.0, 0.0, // tie goes to the first class
	})

	got, err := Predict(logits)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	want := []int{1, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Predict()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestAccuracy(t *testing.T) {
	logits := mat.NewDense(4, 3, []float64{
		5, 1, 1,
		1, 5, 1,
		1, 1, 5,
		5, 1, 1,
	})

	tests := []struct {
		name    string
		targets []int
		want    float64
		wantErr bool
	}{
		{name: "all correct", targets: []int{0, 1, 2, 0}, want: 1.0},
		{name: "half correct", targets: []int{0, 1, 0, 2}, want: 0.5},
		{name: "none correct", targets: []int{2, 2, 0, 1}, want: 0.0},
		{name: "length mismatch", targets: []int{0, 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(logits, tt.targets)
			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccuracyErrors(t *testing.T) {
	_, err := Accuracy(&mat.Dense{}, nil)
	var ve *errors.ValueError
	if !errors.As(err, &ve) {
		t.Errorf("Accuracy() on empty matrix: got %v, want ValueError", err)
	}

	_, err = Accuracy(mat.NewDense(2, 2, nil), []int{0})
	var de *errors.DimensionError
	if !errors.As(err, &de) {
		t.Errorf("Accuracy() on mismatched targets: got %v, want DimensionError", err)
	}
}

func TestCombined(t *testing.T) {
	logits := mat.NewDense(2, 26, nil)
	logits.Set(0, 3, 1)  // predicts D
	logits.Set(1, 25, 1) // predicts Z

	distTrue := mat.NewVecDense(2, []float64{1.0, 5.0})
	distPred := mat.NewVecDense(2, []float64{2.0, 3.0})

	r, err := Combined(logits, []int{3, 0}, distPred, distTrue)
	if err != nil {
		t.Fatalf("Combined() error = %v", err)
	}
	if r.Accuracy != 0.5 {
		t.Errorf("Accuracy = %v, want 0.5", r.Accuracy)
	}
	if math.Abs(r.MAE-1.5) > 1e-12 {
		t.Errorf("MAE = %v, want 1.5", r.MAE)
	}
	if math.Abs(r.MSE-2.5) > 1e-12 {
		t.Errorf("MSE = %v, want 2.5", r.MSE)
	}
	if len(r.LogFields()) != 6 {
		t.Errorf("LogFields() has %d entries, want 6", len(r.LogFields()))
	}

	if _, err := Combined(logits, []int{3, 0}, distPred, mat.NewVecDense(3, nil)); err == nil {
		t.Error("Combined() expected error for mismatched distances")
	}
}

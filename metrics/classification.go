package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/synthasl/pkg/errors"
)

// Predict は各行のスコア（ロジット）の argmax をクラス番号として返す。
// 同点の場合は最初のクラスを選ぶ
func Predict(logits *mat.Dense) ([]int, error) {
	if logits == nil || logits.IsEmpty() {
		return nil, errors.NewValueError("Predict", "empty matrix")
	}
	rows, _ := logits.Dims()
	preds := make([]int, rows)
	for i := range preds {
		preds[i] = floats.MaxIdx(logits.RawRowView(i))
	}
	return preds, nil
}

// Accuracy は argmax 予測が正解クラスと一致した割合を [0, 1] で返す
func Accuracy(logits *mat.Dense, targets []int) (float64, error) {
	preds, err := Predict(logits)
	if err != nil {
		return 0, err
	}
	if len(targets) != len(preds) {
		return 0, errors.NewDimensionError("Accuracy", len(preds), len(targets), 0)
	}

	correct := 0
	for i, p := range preds {
		if p == targets[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(preds)), nil
}

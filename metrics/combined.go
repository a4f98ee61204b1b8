package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/synthasl/pkg/errors"
	"github.com/YuminosukeSato/synthasl/pkg/log"
)

// Report はマルチタスク評価（分類＋距離回帰）の結果
type Report struct {
	Accuracy float64
	MAE      float64
	MSE      float64
}

// LogFields はロガーに渡すキーと値の組を返す
func (r Report) LogFields() []any {
	return []any{
		log.AccuracyKey, r.Accuracy,
		log.MAEKey, r.MAE,
		log.MSEKey, r.MSE,
	}
}

// Combined は分類精度と距離の MAE・MSE をまとめて計算する
func Combined(logits *mat.Dense, classes []int, distPred, distTrue *mat.VecDense) (Report, error) {
	acc, err := Accuracy(logits, classes)
	if err != nil {
		return Report{}, err
	}
	if distTrue.Len() != len(classes) {
		return Report{}, errors.NewDimensionError("Combined", len(classes), distTrue.Len(), 0)
	}
	mae, err := MAE(distTrue, distPred)
	if err != nil {
		return Report{}, err
	}
	mse, err := MSE(distTrue, distPred)
	if err != nil {
		return Report{}, err
	}
	return Report{Accuracy: acc, MAE: mae, MSE: mse}, nil
}

// Package metrics は距離回帰と文字分類の評価指標を提供する。
// 学習ループそのものは対象外で、予測値と正解値の比較だけを行う。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/synthasl/pkg/errors"
)

// residuals は yPred - yTrue を返す。長さが0、または一致しない場合はエラー
func residuals(op string, yTrue, yPred *mat.VecDense) ([]float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}

	diff := make([]float64, n)
	for i := range diff {
		diff[i] = yPred.AtVec(i) - yTrue.AtVec(i)
	}
	return diff, nil
}

// MSE は距離予測の平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	diff, err := residuals("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	// MSE = (1/n) * Σ(yPred - yTrue)²
	return floats.Dot(diff, diff) / float64(len(diff)), nil
}

// RMSE は平方根平均二乗誤差を計算する。距離と同じ単位になる
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	diff, err := residuals("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	// MAE = (1/n) * Σ|yPred - yTrue|
	return floats.Norm(diff, 1) / float64(len(diff)), nil
}

// R2Score は決定係数（R²）を計算する。
// 正解の距離がすべて同じ値の場合は定義できないためエラーを返す
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	diff, err := residuals("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	truth := yTrue.RawVector()
	values := make([]float64, yTrue.Len())
	for i := range values {
		values[i] = truth.Data[i*truth.Inc]
	}
	mean := stat.Mean(values, nil)

	// 全変動（TSS）と残差変動（RSS）
	var tss float64
	for _, v := range values {
		tss += (v - mean) * (v - mean)
	}
	rss := floats.Dot(diff, diff)

	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

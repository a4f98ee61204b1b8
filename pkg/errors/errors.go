// Package errors はsynthasl全体のエラーハンドリングと警告システムを提供します。
// データセット生成はオフラインのバッチ処理のため、ここで定義するエラーは基本的に致命的です。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("synthasl-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nilを渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// FilenameWidthWarning は1文字あたりの画像枚数がファイル名の連番桁数を超える場合の警告です。
// ファイル名は一意のままですが、桁数が揃わなくなります。
type FilenameWidthWarning struct {
	ImagesPerLetter int
	Digits          int
}

func (w *FilenameWidthWarning) Error() string {
	return fmt.Sprintf("images per letter %d exceeds the %d-digit filename index; names will not be fixed width", w.ImagesPerLetter, w.Digits)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *FilenameWidthWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("images_per_letter", w.ImagesPerLetter).
		Int("digits", w.Digits).
		Str("type", "FilenameWidthWarning")
}

// NewFilenameWidthWarning は新しいFilenameWidthWarningを作成します。
func NewFilenameWidthWarning(imagesPerLetter, digits int) *FilenameWidthWarning {
	return &FilenameWidthWarning{ImagesPerLetter: imagesPerLetter, Digits: digits}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// InvalidLetterError はアルファベット（A〜Z）以外のラベルが渡された場合のエラーです。
// 生成器にはフォールバックのスタイルが存在しないため、即座に失敗します。
type InvalidLetterError struct {
	Value string
}

func (e *InvalidLetterError) Error() string {
	return fmt.Sprintf("synthasl: invalid letter %q: must be a single character in A-Z", e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidLetterError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("value", e.Value).
		Str("type", "InvalidLetterError")
}

// NewInvalidLetterError は新しいInvalidLetterErrorを作成し、スタックトレースを付与します。
func NewInvalidLetterError(value string) error {
	return errors.WithStack(&InvalidLetterError{Value: value})
}

// PersistenceError は画像・インデックスの書き込みやディレクトリ作成に失敗した場合のエラーです。
// リトライや部分コミットの回復は行いません。
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("synthasl: %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("synthasl: %s %s", e.Op, e.Path)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *PersistenceError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("path", e.Path).
		Str("type", "PersistenceError")
	if e.Err != nil {
		event.Str("cause", e.Err.Error())
	}
}

// NewPersistenceError は新しいPersistenceErrorを作成し、スタックトレースを付与します。
func NewPersistenceError(op, path string, err error) error {
	return errors.WithStack(&PersistenceError{Op: op, Path: path, Err: err})
}

// IndexRowError はインデックス表の行が不正な場合（フィールド欠落、距離のパース失敗など）のエラーです。
// ラベル付きデータを黙って捨てると目的変数の分布が崩れるため、読み飛ばしません。
type IndexRowError struct {
	Row    int // 1始まりのシート上の行番号（ヘッダーが1行目）
	Field  string
	Reason string
}

func (e *IndexRowError) Error() string {
	return fmt.Sprintf("synthasl: malformed index row %d: field %q: %s", e.Row, e.Field, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *IndexRowError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("row", e.Row).
		Str("field", e.Field).
		Str("reason", e.Reason).
		Str("type", "IndexRowError")
}

// NewIndexRowError は新しいIndexRowErrorを作成し、スタックトレースを付与します。
func NewIndexRowError(row int, field, reason string) error {
	return errors.WithStack(&IndexRowError{Row: row, Field: field, Reason: reason})
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("synthasl: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValidationError は設定パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("synthasl: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError は引数の値が不適切な場合に発生するエラーです。
// 例えば、空のベクトルに対して評価指標を計算しようとした場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("synthasl: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrEmptyIndex はインデックス表にヘッダー行すら存在しない場合のエラーです。
	ErrEmptyIndex = New("empty index table")
)

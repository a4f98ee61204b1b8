// Package log defines standard attribute keys for dataset fabrication.
//
// Using the same keys everywhere keeps generation, loading and reporting logs
// filterable by the same fields. Keys follow a hierarchical naming
// convention ("dataset.letter", "sample.distance").

package log

// Operation context
const (
	// OperationKey names the pipeline operation being performed.
	// Standard values are the Operation* constants below.
	OperationKey = "ml.operation"

	// ComponentKey identifies the package emitting the record.
	// Examples: "generator", "assembler", "loader", "report"
	ComponentKey = "ml.component"

	// RunIDKey is a unique identifier for one assembler run.
	RunIDKey = "run.id"
)

// Dataset shape
const (
	// RootKey is the dataset root directory.
	RootKey = "dataset.root"

	// LetterKey is the label token of the sample being processed.
	LetterKey = "dataset.letter"

	// StyleKey is the render style resolved for a letter.
	StyleKey = "dataset.style"

	// IndexKey is the per-letter sequence index of a sample.
	IndexKey = "dataset.index"

	// LettersKey is the number of letters a run covers.
	LettersKey = "dataset.letters"

	// SamplesKey is a sample count (total, or completed so far).
	SamplesKey = "data.samples"

	// TotalKey is the number of samples a run will produce.
	TotalKey = "data.total"

	// ImageSizeKey is the square canvas edge in pixels.
	ImageSizeKey = "data.image_size"
)

// Sample attributes
const (
	// DistanceKey is the regression target drawn for a sample.
	DistanceKey = "sample.distance"

	// ScaleKey is the size multiplier derived from the distance.
	ScaleKey = "sample.scale"

	// PathKey is a sample path relative to the dataset root.
	PathKey = "sample.path"
)

// Performance and evaluation
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy, range [0.0, 1.0].
	AccuracyKey = "metrics.accuracy"

	// MAEKey records mean absolute error of distance predictions.
	MAEKey = "metrics.mae"

	// MSEKey records mean squared error of distance predictions.
	MSEKey = "metrics.mse"
)

// Error context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// SuggestionKey provides a hint for resolving an issue.
	SuggestionKey = "error.suggestion"
)

// Configuration and infrastructure
const (
	// RandomSeedKey records the run seed for reproducibility.
	RandomSeedKey = "config.random_seed"

	// WorkersKey records the configured worker count.
	WorkersKey = "config.workers"

	// WorkerIDKey identifies the worker goroutine handling a sample.
	WorkerIDKey = "infra.worker_id"
)

// Standard attribute values.
const (
	OperationGenerate = "generate"
	OperationAssemble = "assemble"
	OperationLoad     = "load"
	OperationReport   = "report"

	ErrorInvalidLetter = "INVALID_LETTER"
	ErrorPersistence   = "PERSISTENCE_FAILURE"
	ErrorMalformedRow  = "MALFORMED_INDEX_ROW"
	ErrorInvalidConfig = "INVALID_CONFIG"
)

// Package synthasl fabricates synthetic labeled image datasets from
// procedural geometric patterns, for training multi-task models that
// classify a letter A-Z and regress a continuous distance.
//
// Every letter maps to one of four pattern families (cluster lines, an arc,
// a rectangle outline, radial spokes). A sampled distance shrinks the
// pattern, and each canvas gets a jittered background, a random rotation,
// an occasional blur and Gaussian noise.
//
// # Features
//
// - Deterministic: a run seed fixes every image, independent of worker count
// - Parallel generation built on errgroup
// - Spreadsheet index (labels.xlsx) compatible with common data tooling
// - Loader returning channel-major float32 tensors and gonum batches
// - Structured errors with stack traces and zerolog/slog logging
//
// # Installation
//
//	go install github.com/YuminosukeSato/synthasl/cmd/synthasl@latest
//
// # Quick Start
//
// Generate the reference dataset (26 letters × 20 images, 256×256 PNG):
//
//	synthasl generate --root asl_abstract_dataset
//
// Or from Go:
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/YuminosukeSato/synthasl/dataset/generator"
//	)
//
//	func main() {
//	    gen, err := generator.New(generator.WithSeed(42))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    asm, err := generator.NewAssembler(gen,
//	        generator.WithOutputRoot("asl_abstract_dataset"),
//	        generator.WithWorkers(8),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if _, err := asm.Run(context.Background()); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Packages
//
//   - dataset: the A-Z label alphabet
//   - dataset/shapes: style selection and pattern rendering
//   - dataset/augment: background sampling and the augmentation chain
//   - dataset/generator: sample generation and dataset assembly
//   - dataset/index: labels.xlsx reading and writing
//   - loader: reading a dataset back as tensors
//   - metrics: accuracy and distance error metrics
//   - report: distribution summaries and charts
//   - config: YAML configuration
//   - core/parallel: worker fan-out
//   - pkg/errors, pkg/log: error handling and logging
//
// # Error Handling
//
// Errors carry stack traces and can be inspected with errors.As:
//
//	var le *errors.InvalidLetterError
//	if errors.As(err, &le) {
//	    // le.Value is the rejected token
//	}
package synthasl

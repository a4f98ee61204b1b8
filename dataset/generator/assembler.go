package generator

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/synthasl/core/parallel"
	"github.com/YuminosukeSato/synthasl/dataset"
	"github.com/YuminosukeSato/synthasl/dataset/index"
	"github.com/YuminosukeSato/synthasl/dataset/shapes"
	"github.com/YuminosukeSato/synthasl/pkg/errors"
	"github.com/YuminosukeSato/synthasl/pkg/log"
)

// Assembler defaults.
const (
	DefaultOutputRoot      = "asl_abstract_dataset"
	DefaultImagesPerLetter = 20
	DefaultProgressEvery   = 100
)

// maxFixedWidthIndex is the largest per-letter count whose indices all fit
// in FilenameDigits digits.
const maxFixedWidthIndex = 99999

// Assembler writes a complete dataset: one directory per letter, every
// image, and the index table at the root.
type Assembler struct {
	gen             *Generator
	root            string
	letters         []dataset.Letter
	imagesPerLetter int
	workers         int
	indexFile       string
	progressEvery   int
	jpegQuality     int
	runID           string
	logger          log.Logger
}

// AssemblerOption is a function that configures an Assembler
type AssemblerOption func(*Assembler)

// WithOutputRoot sets the dataset root directory
func WithOutputRoot(root string) AssemblerOption {
	return func(a *Assembler) {
		a.root = root
	}
}

// WithLetters restricts the run to the given letters, in the given order
func WithLetters(letters ...dataset.Letter) AssemblerOption {
	return func(a *Assembler) {
		a.letters = append([]dataset.Letter(nil), letters...)
	}
}

// WithImagesPerLetter sets how many samples are generated for each letter
func WithImagesPerLetter(n int) AssemblerOption {
	return func(a *Assembler) {
		a.imagesPerLetter = n
	}
}

// WithWorkers sets the number of concurrent sample jobs. Zero means one per CPU.
func WithWorkers(n int) AssemblerOption {
	return func(a *Assembler) {
		a.workers = n
	}
}

// WithIndexFile sets the index file name under the root
func WithIndexFile(name string) AssemblerOption {
	return func(a *Assembler) {
		a.indexFile = name
	}
}

// WithProgressEvery sets the progress logging interval in samples
func WithProgressEvery(n int) AssemblerOption {
	return func(a *Assembler) {
		a.progressEvery = n
	}
}

// WithJPEGQuality sets the quality used for jpg output
func WithJPEGQuality(q int) AssemblerOption {
	return func(a *Assembler) {
		a.jpegQuality = q
	}
}

// WithRunID overrides the generated run identifier
func WithRunID(id string) AssemblerOption {
	return func(a *Assembler) {
		a.runID = id
	}
}

// WithLogger sets the logger
func WithLogger(l log.Logger) AssemblerOption {
	return func(a *Assembler) {
		a.logger = l
	}
}

// NewAssembler returns an Assembler for gen, with the dataset defaults
// modified by opts.
func NewAssembler(gen *Generator, opts ...AssemblerOption) (*Assembler, error) {
	if gen == nil {
		return nil, errors.NewValidationError("generator", "must not be nil", nil)
	}
	a := &Assembler{
		gen:             gen,
		root:            DefaultOutputRoot,
		letters:         dataset.Alphabet(),
		imagesPerLetter: DefaultImagesPerLetter,
		workers:         1,
		indexFile:       index.DefaultFileName,
		progressEvery:   DefaultProgressEvery,
		jpegQuality:     DefaultJPEGQuality,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.runID == "" {
		a.runID = uuid.NewString()
	}
	if a.logger == nil {
		a.logger = log.GetLogger()
	}
	a.logger = a.logger.With(log.ComponentKey, "assembler", log.RunIDKey, a.runID)

	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Assembler) validate() error {
	if a.root == "" {
		return errors.NewValidationError("output_root", "must not be empty", a.root)
	}
	if len(a.letters) == 0 {
		return errors.NewValidationError("letters", "must not be empty", a.letters)
	}
	seen := make(map[dataset.Letter]bool, len(a.letters))
	for _, l := range a.letters {
		if !l.Valid() {
			return errors.NewInvalidLetterError(l.String())
		}
		if seen[l] {
			return errors.NewValidationError("letters", "must not repeat", l.String())
		}
		seen[l] = true
	}
	if a.imagesPerLetter < 0 {
		return errors.NewValidationError("images_per_letter", "must not be negative", a.imagesPerLetter)
	}
	if a.workers < 0 {
		return errors.NewValidationError("workers", "must not be negative", a.workers)
	}
	if a.indexFile == "" || filepath.Base(a.indexFile) != a.indexFile {
		return errors.NewValidationError("index_file", "must be a plain file name", a.indexFile)
	}
	if a.progressEvery <= 0 {
		return errors.NewValidationError("progress_every", "must be positive", a.progressEvery)
	}
	if a.jpegQuality < 1 || a.jpegQuality > 100 {
		return errors.NewValidationError("jpeg_quality", "must be in [1, 100]", a.jpegQuality)
	}
	return nil
}

// Result describes a completed run.
type Result struct {
	RunID     string
	Root      string
	IndexPath string
	// Records are in canonical order: letters as configured, then index.
	Records  []index.Record
	Duration time.Duration
}

// RunID returns the identifier attached to every log record of the run.
func (a *Assembler) RunID() string { return a.runID }

// Total is the number of samples a run produces.
func (a *Assembler) Total() int { return len(a.letters) * a.imagesPerLetter }

// Run creates the directory tree, generates and writes every sample, and
// writes the index table last. The first failure aborts the run; images
// already written stay on disk and no index is written.
func (a *Assembler) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	total := a.Total()
	indexPath := filepath.Join(a.root, a.indexFile)

	a.logger.Info("Generation started",
		log.OperationKey, log.OperationAssemble,
		log.RootKey, a.root,
		log.LettersKey, len(a.letters),
		log.SamplesKey, total,
		log.ImageSizeKey, a.gen.ImageSize(),
		log.WorkersKey, parallel.Workers(a.workers, total),
		log.RandomSeedKey, a.gen.Seed(),
	)

	if a.imagesPerLetter > maxFixedWidthIndex {
		errors.Warn(errors.NewFilenameWidthWarning(a.imagesPerLetter, FilenameDigits))
	}

	dirs := make([]string, len(a.letters))
	for i, l := range a.letters {
		dirs[i] = l.String()
	}
	if err := ensureDirs(a.root, dirs); err != nil {
		a.logFailure(err)
		return nil, err
	}

	records := make([]index.Record, total)
	var done atomic.Int64

	err := parallel.ForEach(ctx, total, a.workers, func(_ context.Context, job int) error {
		l := a.letters[job/a.imagesPerLetter]
		idx := job % a.imagesPerLetter
		return errors.SafeExecute("generate sample", func() error {
			if idx == 0 {
				a.logger.Debug("Generating letter",
					log.LetterKey, l.String(),
					log.StyleKey, shapes.SelectStyle(l).String(),
				)
			}
			rec, err := a.produce(l, idx)
			if err != nil {
				return err
			}
			records[job] = rec

			if n := done.Add(1); n%int64(a.progressEvery) == 0 {
				a.logger.Info("Progress",
					log.SamplesKey, n,
					log.TotalKey, total,
				)
			}
			return nil
		})
	})
	if err != nil {
		a.logFailure(err)
		return nil, err
	}

	if err := index.Write(indexPath, records); err != nil {
		a.logFailure(err)
		return nil, err
	}

	elapsed := time.Since(start)
	a.logger.Info("Generation finished",
		log.OperationKey, log.OperationAssemble,
		log.SamplesKey, total,
		log.PathKey, indexPath,
		log.DurationMsKey, elapsed.Milliseconds(),
	)

	return &Result{
		RunID:     a.runID,
		Root:      a.root,
		IndexPath: indexPath,
		Records:   records,
		Duration:  elapsed,
	}, nil
}

func (a *Assembler) produce(l dataset.Letter, idx int) (index.Record, error) {
	s, err := a.gen.Generate(l, idx)
	if err != nil {
		return index.Record{}, err
	}
	path := filepath.Join(a.root, filepath.FromSlash(s.RelPath))
	if err := writeImage(path, s.Image, a.gen.Format(), a.jpegQuality); err != nil {
		return index.Record{}, err
	}
	return index.Record{Path: s.RelPath, Letter: l, Distance: s.Distance}, nil
}

func (a *Assembler) logFailure(err error) {
	fields := []any{log.OperationKey, log.OperationAssemble, log.ErrAttrKey, err}
	var (
		pe *errors.PersistenceError
		le *errors.InvalidLetterError
	)
	switch {
	case errors.As(err, &pe):
		fields = append(fields, log.ErrorCodeKey, log.ErrorPersistence, log.PathKey, pe.Path)
	case errors.As(err, &le):
		fields = append(fields, log.ErrorCodeKey, log.ErrorInvalidLetter)
	}
	a.logger.Error("Generation failed", fields...)
}

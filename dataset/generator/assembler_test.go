package generator

import (
	"context"
	"image/jpeg"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"

	"github.com/YuminosukeSato/synthasl/dataset"
	"github.com/YuminosukeSato/synthasl/dataset/index"
	"github.com/YuminosukeSato/synthasl/pkg/errors"
	"github.com/YuminosukeSato/synthasl/pkg/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestAssembler(t *testing.T, root string, opts ...AssemblerOption) (*Assembler, *log.TestLogger) {
	t.Helper()
	logger, _ := log.NewTestLogger(log.LevelDebug)
	g, err := New(WithImageSize(32), WithSeed(7))
	require.NoError(t, err)
	a, err := NewAssembler(g, append([]AssemblerOption{WithOutputRoot(root), WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	return a, logger
}

func countImages(t *testing.T, root, ext string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, "."+ext) {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

func sheetRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	return rows
}

func TestRunSingleLetterSingleImage(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ds")
	a, _ := newTestAssembler(t, root, WithLetters('A'), WithImagesPerLetter(1))

	res, err := a.Run(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "A", "A_00000.png"))
	require.NoError(t, err)
	assert.Equal(t, 1, countImages(t, root, "png"))

	rows := sheetRows(t, filepath.Join(root, "labels.xlsx"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"filepath", "letter", "distance"}, rows[0])
	assert.Equal(t, "A/A_00000.png", rows[1][0])
	assert.Equal(t, "A", rows[1][1])

	want, err := a.gen.Generate('A', 0)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, index.Record{Path: "A/A_00000.png", Letter: 'A', Distance: want.Distance}, res.Records[0])
	assert.Equal(t, filepath.Join(root, "labels.xlsx"), res.IndexPath)
}

func TestRunAllLetters(t *testing.T) {
	const perLetter = 2
	root := t.TempDir()
	a, _ := newTestAssembler(t, root, WithImagesPerLetter(perLetter))

	res, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, dataset.NumLetters*perLetter, countImages(t, root, "png"))
	rows := sheetRows(t, res.IndexPath)
	assert.Len(t, rows, dataset.NumLetters*perLetter+1)

	for i, rec := range res.Records {
		l := dataset.Alphabet()[i/perLetter]
		assert.Equal(t, RelPath(l, i%perLetter, FormatPNG), rec.Path)
		assert.Equal(t, l, rec.Letter)
		assert.Equal(t, rec.Path, rows[i+1][0])
	}

	read, err := index.Read(res.IndexPath)
	require.NoError(t, err)
	require.Len(t, read, len(res.Records))
	for i := range read {
		assert.InDelta(t, res.Records[i].Distance, read[i].Distance, 1e-12)
	}
}

func TestRunIsIndependentOfWorkerCount(t *testing.T) {
	letters := []dataset.Letter{'A', 'B', 'C', 'D', 'E'}
	rootSeq := t.TempDir()
	rootPar := t.TempDir()

	seq, _ := newTestAssembler(t, rootSeq, WithLetters(letters...), WithImagesPerLetter(4), WithWorkers(1))
	par, _ := newTestAssembler(t, rootPar, WithLetters(letters...), WithImagesPerLetter(4), WithWorkers(4))

	resSeq, err := seq.Run(context.Background())
	require.NoError(t, err)
	resPar, err := par.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, resSeq.Records, resPar.Records)
	for _, rec := range resSeq.Records {
		a, err := os.ReadFile(filepath.Join(rootSeq, rec.Path))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(rootPar, rec.Path))
		require.NoError(t, err)
		assert.Equal(t, a, b, rec.Path)
	}
}

func TestRunJPEG(t *testing.T) {
	root := t.TempDir()
	logger, _ := log.NewTestLogger(log.LevelInfo)
	g, err := New(WithImageSize(32), WithFormat(FormatJPEG))
	require.NoError(t, err)
	a, err := NewAssembler(g, WithOutputRoot(root), WithLetters('Q'), WithImagesPerLetter(2), WithJPEGQuality(80), WithLogger(logger))
	require.NoError(t, err)

	res, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Q/Q_00001.jpg", res.Records[1].Path)

	f, err := os.Open(filepath.Join(root, "Q", "Q_00001.jpg"))
	require.NoError(t, err)
	defer f.Close()
	img, err := jpeg.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
}

func TestRunLogsProgress(t *testing.T) {
	a, logger := newTestAssembler(t, t.TempDir(),
		WithLetters('A', 'B', 'C'), WithImagesPerLetter(5), WithProgressEvery(5), WithRunID("run-1"))

	_, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, logger.CountMessages("Progress"))
	assert.Equal(t, 3, logger.CountMessages("Generating letter"))
	assert.Equal(t, 1, logger.CountMessages("Generation finished"))
	assert.True(t, logger.ContainsField(log.RunIDKey, "run-1"))
	assert.True(t, logger.ContainsField(log.SamplesKey, float64(15)))
}

func TestRunWriteFailureIsFatal(t *testing.T) {
	root := t.TempDir()
	a, logger := newTestAssembler(t, root, WithLetters('A'), WithImagesPerLetter(3))

	// a directory where the second image should go
	require.NoError(t, os.MkdirAll(filepath.Join(root, "A", "A_00001.png"), 0o755))

	_, err := a.Run(context.Background())
	require.Error(t, err)
	var pe *errors.PersistenceError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, filepath.Join(root, "A", "A_00001.png"), pe.Path)

	_, statErr := os.Stat(filepath.Join(root, "labels.xlsx"))
	assert.True(t, os.IsNotExist(statErr), "index must not be written")
	// the run stops at the failing sample
	_, statErr = os.Stat(filepath.Join(root, "A", "A_00002.png"))
	assert.True(t, os.IsNotExist(statErr))
	assert.True(t, logger.ContainsField(log.ErrorCodeKey, log.ErrorPersistence))
}

func TestRunRootIsAFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o644))
	a, _ := newTestAssembler(t, root, WithLetters('A'), WithImagesPerLetter(1))

	_, err := a.Run(context.Background())
	var pe *errors.PersistenceError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, "create directory", pe.Op)
}

func TestRunCancelled(t *testing.T) {
	root := t.TempDir()
	a, _ := newTestAssembler(t, root, WithImagesPerLetter(3), WithWorkers(4))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(filepath.Join(root, "labels.xlsx"))
	assert.True(t, os.IsNotExist(statErr))

	// directories are created before any sample is scheduled
	for _, l := range dataset.Alphabet() {
		info, err := os.Stat(filepath.Join(root, l.String()))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestRunWarnsAboutFilenameWidth(t *testing.T) {
	var warnings []error
	errors.SetZerologWarnFunc(nil)
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(nil)

	a, _ := newTestAssembler(t, t.TempDir(), WithLetters('A'), WithImagesPerLetter(maxFixedWidthIndex+1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Len(t, warnings, 1)
	var fw *errors.FilenameWidthWarning
	require.True(t, errors.As(warnings[0], &fw))
	assert.Equal(t, FilenameDigits, fw.Digits)
}

func TestNewAssemblerValidation(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	tests := []struct {
		name string
		opt  AssemblerOption
	}{
		{"empty root", WithOutputRoot("")},
		{"no letters", WithLetters()},
		{"repeated letter", WithLetters('A', 'A')},
		{"negative count", WithImagesPerLetter(-1)},
		{"negative workers", WithWorkers(-2)},
		{"nested index file", WithIndexFile("sub/labels.xlsx")},
		{"zero progress", WithProgressEvery(0)},
		{"jpeg quality", WithJPEGQuality(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAssembler(g, tt.opt)
			var ve *errors.ValidationError
			assert.True(t, errors.As(err, &ve), "got %v", err)
		})
	}

	_, err = NewAssembler(g, WithLetters('A', 'b'))
	var le *errors.InvalidLetterError
	assert.True(t, errors.As(err, &le))

	_, err = NewAssembler(nil)
	assert.Error(t, err)
}

func TestNewAssemblerDefaults(t *testing.T) {
	g, err := New()
	require.NoError(t, err)
	a, err := NewAssembler(g)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutputRoot, a.root)
	assert.Equal(t, dataset.NumLetters*DefaultImagesPerLetter, a.Total())
	assert.Equal(t, 1, a.workers)
	assert.NotEmpty(t, a.RunID())
}

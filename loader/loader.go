// Package loader reads a generated dataset back as (image, class, distance)
// triples for training and evaluation code.
//
// Images are decoded, converted to RGB, resized with Catmull-Rom (bicubic)
// resampling and returned as channel-major float32 tensors scaled to [0, 1].
// Letters map to dense class indices, A→0 through Z→25.
package loader

import (
	"context"
	"image"
	"image/draw"
	"path/filepath"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/synthasl/core/parallel"
	"github.com/YuminosukeSato/synthasl/dataset"
	"github.com/YuminosukeSato/synthasl/dataset/index"
	"github.com/YuminosukeSato/synthasl/pkg/errors"
	"github.com/YuminosukeSato/synthasl/pkg/log"
)

// DefaultLoadSize is the edge of the square tensors returned by Get.
const DefaultLoadSize = 128

// Channels is the number of color planes in a tensor.
const Channels = 3

// Dataset is an opened dataset root. The index is read once by Open; images
// are decoded lazily on every Get.
type Dataset struct {
	root      string
	indexFile string
	loadSize  int
	workers   int
	records   []index.Record
	logger    log.Logger
}

// Option is a function that configures a Dataset
type Option func(*Dataset)

// WithLoadSize sets the tensor edge in pixels
func WithLoadSize(n int) Option {
	return func(d *Dataset) {
		d.loadSize = n
	}
}

// WithIndexFile sets the index file name under the root
func WithIndexFile(name string) Option {
	return func(d *Dataset) {
		d.indexFile = name
	}
}

// WithWorkers sets the decode concurrency of Batch. Zero means one per CPU.
func WithWorkers(n int) Option {
	return func(d *Dataset) {
		d.workers = n
	}
}

// WithLogger sets the logger
func WithLogger(l log.Logger) Option {
	return func(d *Dataset) {
		d.logger = l
	}
}

// Open reads the index of the dataset at root. Every row must name a path
// inside root.
func Open(root string, opts ...Option) (*Dataset, error) {
	d := &Dataset{
		root:      root,
		indexFile: index.DefaultFileName,
		loadSize:  DefaultLoadSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = log.GetLogger()
	}
	d.logger = d.logger.With(log.ComponentKey, "loader", log.RootKey, root)

	if d.loadSize <= 0 {
		return nil, errors.NewValidationError("load_size", "must be positive", d.loadSize)
	}
	if d.workers < 0 {
		return nil, errors.NewValidationError("workers", "must not be negative", d.workers)
	}

	records, err := index.Read(filepath.Join(root, d.indexFile))
	if err != nil {
		d.logger.Error("Failed to read index", log.OperationKey, log.OperationLoad, log.ErrAttrKey, err)
		return nil, err
	}
	for i, rec := range records {
		if !filepath.IsLocal(filepath.FromSlash(rec.Path)) {
			return nil, errors.NewIndexRowError(i+2, index.ColumnPath, "must be relative to the dataset root")
		}
	}
	d.records = records

	d.logger.Info("Dataset opened",
		log.OperationKey, log.OperationLoad,
		log.SamplesKey, len(records),
		log.ImageSizeKey, d.loadSize,
	)
	return d, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.records) }

// Root returns the dataset root directory.
func (d *Dataset) Root() string { return d.root }

// LoadSize returns the tensor edge in pixels.
func (d *Dataset) LoadSize() int { return d.loadSize }

// Records returns a copy of the parsed index, in file order.
func (d *Dataset) Records() []index.Record {
	return append([]index.Record(nil), d.records...)
}

// ClassIndex maps a letter to its dense class index.
func ClassIndex(l dataset.Letter) (int, error) {
	if !l.Valid() {
		return 0, errors.NewInvalidLetterError(l.String())
	}
	return l.Ordinal(), nil
}

// Class returns the class index of sample i without decoding its image.
func (d *Dataset) Class(i int) (int, error) {
	if err := d.checkIndex("loader.Class", i); err != nil {
		return 0, err
	}
	return ClassIndex(d.records[i].Letter)
}

// Distance returns the distance target of sample i without decoding its image.
func (d *Dataset) Distance(i int) (float64, error) {
	if err := d.checkIndex("loader.Distance", i); err != nil {
		return 0, err
	}
	return d.records[i].Distance, nil
}

// Item is one loaded sample.
type Item struct {
	// Tensor holds Channels×Size×Size values in [0, 1], channel-major
	// (all R, then all G, then all B), rows top to bottom.
	Tensor   []float32
	Size     int
	Class    int
	Distance float64
	Path     string
}

// At returns the value of channel c at row y, column x.
func (it *Item) At(c, y, x int) float32 {
	return it.Tensor[(c*it.Size+y)*it.Size+x]
}

// Get decodes sample i.
func (d *Dataset) Get(i int) (*Item, error) {
	if err := d.checkIndex("loader.Get", i); err != nil {
		return nil, err
	}
	rec := d.records[i]
	class, err := ClassIndex(rec.Letter)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(d.root, filepath.FromSlash(rec.Path))
	src, err := imaging.Open(path)
	if err != nil {
		return nil, errors.NewPersistenceError("decode image", path, err)
	}

	return &Item{
		Tensor:   toTensor(resize(src, d.loadSize)),
		Size:     d.loadSize,
		Class:    class,
		Distance: rec.Distance,
		Path:     rec.Path,
	}, nil
}

func (d *Dataset) checkIndex(op string, i int) error {
	if i < 0 || i >= len(d.records) {
		return errors.NewValueError(op, "sample index out of range")
	}
	return nil
}

// resize returns src as a size×size RGBA image. Images that already have
// the target size are copied without resampling.
func resize(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	b := src.Bounds()
	if b.Dx() == size && b.Dy() == size {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// toTensor drops alpha and lays the color planes out channel-major.
func toTensor(img *image.RGBA) []float32 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	plane := w * h
	t := make([]float32, Channels*plane)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+4]
			for c := 0; c < Channels; c++ {
				t[c*plane+y*w+x] = float32(px[c]) / 255
			}
		}
	}
	return t
}

// Batch is a stack of decoded samples.
type Batch struct {
	// Images has one row per sample, each row a flattened tensor.
	Images    *mat.Dense
	Classes   []int
	Distances *mat.VecDense
}

// Batch decodes the given samples concurrently and stacks them in the
// order of indices.
func (d *Dataset) Batch(ctx context.Context, indices []int) (*Batch, error) {
	if len(indices) == 0 {
		return nil, errors.NewValueError("loader.Batch", "no sample indices")
	}
	for _, i := range indices {
		if err := d.checkIndex("loader.Batch", i); err != nil {
			return nil, err
		}
	}

	cols := Channels * d.loadSize * d.loadSize
	b := &Batch{
		Images:    mat.NewDense(len(indices), cols, nil),
		Classes:   make([]int, len(indices)),
		Distances: mat.NewVecDense(len(indices), nil),
	}

	err := parallel.Parallelize(ctx, len(indices), d.workers, func(ctx context.Context, start, end int) error {
		for r := start; r < end; r++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := d.Get(indices[r])
			if err != nil {
				return err
			}
			row := b.Images.RawRowView(r)
			for j, v := range item.Tensor {
				row[j] = float64(v)
			}
			b.Classes[r] = item.Class
			b.Distances.SetVec(r, item.Distance)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

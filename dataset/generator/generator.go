// Package generator fabricates labeled samples and assembles them into an
// on-disk dataset.
//
// A Generator turns a letter into one augmented image plus its distance
// target, without touching the filesystem. An Assembler drives a Generator
// over every (letter, index) pair of a run, writes the images and finally
// the index table.
package generator

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/YuminosukeSato/synthasl/dataset"
	"github.com/YuminosukeSato/synthasl/dataset/augment"
	"github.com/YuminosukeSato/synthasl/dataset/shapes"
	"github.com/YuminosukeSato/synthasl/pkg/errors"
)

// Defaults of a dataset run.
const (
	DefaultImageSize     = 256
	DefaultDistanceMin   = 1.0
	DefaultDistanceMax   = 5.0
	DefaultScaleConstant = 1.5

	// DefaultNoiseSigma is the noise level the dataset is generated with. It
	// is lower than augment.DefaultNoiseSigma, which applies to chains built
	// without an override.
	DefaultNoiseSigma = 6.0
)

// FilenameDigits is the zero-padded width of the per-letter index in file
// names.
const FilenameDigits = 5

// Format is the image encoding of written samples.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpg"
)

// ParseFormat accepts "png", "jpg" and "jpeg".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "png", "":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	default:
		return "", errors.NewValidationError("format", "must be png or jpg", s)
	}
}

// Ext is the file extension without the leading dot.
func (f Format) Ext() string {
	return string(f)
}

// Sample is one fabricated image with its labels.
type Sample struct {
	Letter     dataset.Letter
	Index      int
	Style      shapes.Style
	Pattern    shapes.Pattern
	Background color.RGBA
	Distance   float64
	Scale      float64
	Image      *image.RGBA
	// RelPath is "<L>/<L>_<index>.<ext>", relative to the dataset root.
	RelPath string
}

// Generator fabricates samples. It is immutable after New and safe for
// concurrent use.
type Generator struct {
	imageSize     int
	distanceMin   float64
	distanceMax   float64
	scaleConstant float64
	noiseSigma    float64
	format        Format
	seed          int64
	strokeColor   color.Color
}

// Option is a function that configures a Generator
type Option func(*Generator)

// WithImageSize sets the square canvas edge in pixels
func WithImageSize(size int) Option {
	return func(g *Generator) {
		g.imageSize = size
	}
}

// WithDistanceRange sets the interval the distance target is drawn from
func WithDistanceRange(min, max float64) Option {
	return func(g *Generator) {
		g.distanceMin = min
		g.distanceMax = max
	}
}

// WithScaleConstant sets k in scale = k / distance
func WithScaleConstant(k float64) Option {
	return func(g *Generator) {
		g.scaleConstant = k
	}
}

// WithNoiseSigma sets the standard deviation of the additive noise
func WithNoiseSigma(sigma float64) Option {
	return func(g *Generator) {
		g.noiseSigma = sigma
	}
}

// WithFormat sets the encoding used for file names
func WithFormat(f Format) Option {
	return func(g *Generator) {
		g.format = f
	}
}

// WithSeed sets the run seed every per-sample seed is derived from
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithStrokeColor sets the pattern color
func WithStrokeColor(c color.Color) Option {
	return func(g *Generator) {
		g.strokeColor = c
	}
}

// New returns a Generator with the dataset defaults, modified by opts.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		imageSize:     DefaultImageSize,
		distanceMin:   DefaultDistanceMin,
		distanceMax:   DefaultDistanceMax,
		scaleConstant: DefaultScaleConstant,
		noiseSigma:    DefaultNoiseSigma,
		format:        FormatPNG,
		strokeColor:   color.Black,
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Generator) validate() error {
	if g.imageSize <= 0 {
		return errors.NewValidationError("image_size", "must be positive", g.imageSize)
	}
	if err := errors.CheckRange("distance", g.distanceMin, g.distanceMax); err != nil {
		return err
	}
	if err := errors.CheckPositive("scale_constant", g.scaleConstant); err != nil {
		return err
	}
	if err := errors.CheckScalar("noise_sigma", g.noiseSigma); err != nil {
		return err
	}
	if g.noiseSigma < 0 {
		return errors.NewValidationError("noise_sigma", "must not be negative", g.noiseSigma)
	}
	if _, err := ParseFormat(string(g.format)); err != nil {
		return err
	}
	if g.strokeColor == nil {
		return errors.NewValidationError("stroke_color", "must not be nil", nil)
	}
	return nil
}

// ImageSize returns the canvas edge in pixels.
func (g *Generator) ImageSize() int { return g.imageSize }

// Format returns the configured image encoding.
func (g *Generator) Format() Format { return g.format }

// Seed returns the run seed.
func (g *Generator) Seed() int64 { return g.seed }

// Scale maps a distance to the size multiplier k / distance. Larger
// distances give smaller drawings.
func Scale(k, distance float64) float64 {
	return k / distance
}

// RelPath returns the dataset-relative path of sample idx of letter l.
func RelPath(l dataset.Letter, idx int, f Format) string {
	return fmt.Sprintf("%s/%s_%0*d.%s", l, l, FilenameDigits, idx, f.Ext())
}

// SampleSeed derives the seed of one sample from the run seed, the letter
// and the index. Every sample gets a distinct stream, so a run produces the
// same bytes regardless of how samples are scheduled.
func (g *Generator) SampleSeed(l dataset.Letter, idx int) int64 {
	key := uint64(l.Ordinal())<<32 | uint64(uint32(idx))
	return int64(splitmix64(uint64(g.seed) ^ splitmix64(key)))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Generate fabricates sample idx of letter l with its own seeded *rand.Rand.
func (g *Generator) Generate(l dataset.Letter, idx int) (*Sample, error) {
	if !l.Valid() {
		return nil, errors.NewInvalidLetterError(l.String())
	}
	return g.GenerateWithRand(l, idx, rand.New(rand.NewSource(g.SampleSeed(l, idx))))
}

// GenerateWithRand fabricates a sample drawing all randomness from rng:
// distance, background, pattern parameters, then the augmentation chain.
func (g *Generator) GenerateWithRand(l dataset.Letter, idx int, rng *rand.Rand) (*Sample, error) {
	if !l.Valid() {
		return nil, errors.NewInvalidLetterError(l.String())
	}
	if idx < 0 {
		return nil, errors.NewValidationError("index", "must not be negative", idx)
	}

	distance := g.distanceMin + (g.distanceMax-g.distanceMin)*rng.Float64()
	scale := Scale(g.scaleConstant, distance)

	bg := augment.SampleBackground(rng)
	canvas := augment.NewCanvas(g.imageSize, bg)

	style := shapes.SelectStyle(l)
	half := float64(g.imageSize) / 2
	p, err := shapes.Sample(style, rng, shapes.Point{X: half, Y: half}, scale)
	if err != nil {
		return nil, err
	}
	shapes.Render(canvas, p, g.strokeColor)

	img := augment.NewChain(bg, augment.WithNoiseSigma(g.noiseSigma)).Apply(canvas, rng)

	return &Sample{
		Letter:     l,
		Index:      idx,
		Style:      style,
		Pattern:    p,
		Background: bg,
		Distance:   distance,
		Scale:      scale,
		Image:      img,
		RelPath:    RelPath(l, idx, g.format),
	}, nil
}

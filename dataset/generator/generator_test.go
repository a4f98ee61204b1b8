package generator

import (
	"bytes"
	"image/png"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/synthasl/dataset"
	"github.com/YuminosukeSato/synthasl/dataset/augment"
	"github.com/YuminosukeSato/synthasl/dataset/shapes"
	"github.com/YuminosukeSato/synthasl/pkg/errors"
)

func newTestGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	g, err := New(append([]Option{WithImageSize(64), WithSeed(42)}, opts...)...)
	require.NoError(t, err)
	return g
}

func TestNewDefaults(t *testing.T) {
	g, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultImageSize, g.ImageSize())
	assert.Equal(t, FormatPNG, g.Format())
	assert.Equal(t, 256, DefaultImageSize)
	assert.Equal(t, 1.5, DefaultScaleConstant)
	assert.Equal(t, 6.0, DefaultNoiseSigma)
	assert.NotEqual(t, augment.DefaultNoiseSigma, DefaultNoiseSigma)
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		param string
	}{
		{"zero size", WithImageSize(0), "image_size"},
		{"min equals max", WithDistanceRange(2, 2), "distance"},
		{"min above max", WithDistanceRange(5, 1), "distance"},
		{"zero min", WithDistanceRange(0, 5), "distance.min"},
		{"NaN max", WithDistanceRange(1, math.NaN()), "distance.max"},
		{"zero k", WithScaleConstant(0), "scale_constant"},
		{"infinite sigma", WithNoiseSigma(math.Inf(1)), "noise_sigma"},
		{"negative sigma", WithNoiseSigma(-1), "noise_sigma"},
		{"unknown format", WithFormat("gif"), "format"},
		{"nil color", WithStrokeColor(nil), "stroke_color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			var ve *errors.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.param, ve.ParamName)
		})
	}
}

func TestScaleIsPositiveAndStrictlyDecreasing(t *testing.T) {
	prev := math.Inf(1)
	for d := DefaultDistanceMin; d <= DefaultDistanceMax; d += 0.25 {
		s := Scale(DefaultScaleConstant, d)
		assert.Greater(t, s, 0.0)
		assert.Less(t, s, prev, "distance %v", d)
		prev = s
	}
	assert.Equal(t, 1.5, Scale(1.5, 1))
	assert.Equal(t, 0.3, Scale(1.5, 5))
}

func TestRelPath(t *testing.T) {
	assert.Equal(t, "A/A_00000.png", RelPath('A', 0, FormatPNG))
	assert.Equal(t, "Q/Q_00042.jpg", RelPath('Q', 42, FormatJPEG))
	assert.Equal(t, "Z/Z_99999.png", RelPath('Z', 99999, FormatPNG))
	// wider than the pad still yields a unique name
	assert.Equal(t, "Z/Z_100000.png", RelPath('Z', 100000, FormatPNG))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatPNG, "png": FormatPNG, "jpg": FormatJPEG, "jpeg": FormatJPEG} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("bmp")
	assert.Error(t, err)
}

func TestGenerateSample(t *testing.T) {
	g := newTestGenerator(t)

	for _, l := range dataset.Alphabet() {
		s, err := g.Generate(l, 3)
		require.NoError(t, err)

		assert.Equal(t, l, s.Letter)
		assert.Equal(t, 3, s.Index)
		assert.Equal(t, shapes.SelectStyle(l), s.Style)
		assert.Equal(t, s.Style, s.Pattern.Style())
		assert.GreaterOrEqual(t, s.Distance, DefaultDistanceMin)
		assert.Less(t, s.Distance, DefaultDistanceMax)
		assert.InDelta(t, DefaultScaleConstant/s.Distance, s.Scale, 1e-12)
		assert.Equal(t, 64, s.Image.Bounds().Dx())
		assert.Equal(t, 64, s.Image.Bounds().Dy())
		assert.Equal(t, RelPath(l, 3, FormatPNG), s.RelPath)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := newTestGenerator(t)

	a, err := g.Generate('F', 7)
	require.NoError(t, err)
	b, err := g.Generate('F', 7)
	require.NoError(t, err)
	c, err := g.Generate('F', 8)
	require.NoError(t, err)

	assert.Equal(t, a.Distance, b.Distance)
	assert.Equal(t, a.Image.Pix, b.Image.Pix)
	assert.NotEqual(t, a.Image.Pix, c.Image.Pix)
	assert.NotEqual(t, a.Distance, c.Distance)
}

func TestGenerateDependsOnSeed(t *testing.T) {
	a, err := newTestGenerator(t).Generate('B', 0)
	require.NoError(t, err)
	b, err := newTestGenerator(t, WithSeed(43)).Generate('B', 0)
	require.NoError(t, err)
	assert.NotEqual(t, a.Image.Pix, b.Image.Pix)
}

func TestSampleSeedsAreDistinct(t *testing.T) {
	g := newTestGenerator(t)
	seen := map[int64]bool{}
	for _, l := range dataset.Alphabet() {
		for i := 0; i < 200; i++ {
			s := g.SampleSeed(l, i)
			require.False(t, seen[s], "duplicate seed for %s/%d", l, i)
			seen[s] = true
		}
	}
}

func TestGenerateWithRandMatchesGenerate(t *testing.T) {
	g := newTestGenerator(t)
	want, err := g.Generate('K', 5)
	require.NoError(t, err)

	got, err := g.GenerateWithRand('K', 5, rand.New(rand.NewSource(g.SampleSeed('K', 5))))
	require.NoError(t, err)
	assert.Equal(t, want.Image.Pix, got.Image.Pix)
	assert.Equal(t, want.Distance, got.Distance)
}

func TestGenerateInvalidLetter(t *testing.T) {
	g := newTestGenerator(t)
	for _, l := range []dataset.Letter{'a', '1', 0, 'Z' + 1} {
		_, err := g.Generate(l, 0)
		var le *errors.InvalidLetterError
		assert.True(t, errors.As(err, &le), "letter %q", byte(l))

		_, err = g.GenerateWithRand(l, 0, rand.New(rand.NewSource(1)))
		assert.True(t, errors.As(err, &le), "letter %q", byte(l))
	}
}

func TestGenerateNegativeIndex(t *testing.T) {
	_, err := newTestGenerator(t).Generate('A', -1)
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestGenerateFarSamplesAreSmaller(t *testing.T) {
	near := newTestGenerator(t, WithDistanceRange(1, 1.0001), WithNoiseSigma(0))
	far := newTestGenerator(t, WithDistanceRange(4.9999, 5), WithNoiseSigma(0))

	a, err := near.Generate('C', 0)
	require.NoError(t, err)
	b, err := far.Generate('C', 0)
	require.NoError(t, err)

	rn := a.Pattern.(shapes.RectangleOutline)
	rf := b.Pattern.(shapes.RectangleOutline)
	assert.Greater(t, rn.Width, rf.Width)
	assert.Greater(t, rn.Height, rf.Height)
	assert.GreaterOrEqual(t, rf.StrokeWidth, 1.0)
}

func TestEncodePNGIsLossless(t *testing.T) {
	s, err := newTestGenerator(t).Generate('C', 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s.Image, FormatPNG, DefaultJPEGQuality))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	b := s.Image.Bounds()
	require.Equal(t, b, decoded.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y += 7 {
		for x := b.Min.X; x < b.Max.X; x += 7 {
			r1, g1, b1, _ := s.Image.At(x, y).RGBA()
			r2, g2, b2, _ := decoded.At(x, y).RGBA()
			assert.Equal(t, [3]uint32{r1, g1, b1}, [3]uint32{r2, g2, b2}, "pixel %d,%d", x, y)
		}
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	s, err := newTestGenerator(t).Generate('C', 0)
	require.NoError(t, err)
	assert.Error(t, Encode(&bytes.Buffer{}, s.Image, Format("tiff"), 90))
}

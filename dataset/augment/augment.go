package augment

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Augmentation parameters.
const (
	// BlurProbability is the chance that MaybeBlur fires for one sample.
	BlurProbability = 0.2
	BlurRadiusMin   = 0.5
	BlurRadiusMax   = 1.5

	// DefaultNoiseSigma is the noise standard deviation used when a chain is
	// built without WithNoiseSigma. The dataset generator overrides it with
	// its own default (generator.DefaultNoiseSigma); the two are kept apart.
	DefaultNoiseSigma = 8.0
)

// Rotate turns img counter-clockwise by an angle drawn uniformly from
// [0, 360) degrees. See RotateBy.
func Rotate(img *image.RGBA, rng *rand.Rand, bg color.RGBA) *image.RGBA {
	return RotateBy(img, rng.Float64()*360, bg)
}

// RotateBy turns img counter-clockwise by angleDeg around its center using
// Catmull-Rom (bicubic) resampling. Corners uncovered by the rotation are
// filled with bg, which should be the color the canvas was created with.
func RotateBy(img *image.RGBA, angleDeg float64, bg color.RGBA) *image.RGBA {
	b := img.Bounds()
	dst := filled(b, bg)

	theta := angleDeg * math.Pi / 180
	cos, sin := math.Cos(theta), math.Sin(theta)
	cx := float64(b.Min.X) + float64(b.Dx())/2
	cy := float64(b.Min.Y) + float64(b.Dy())/2

	// Source to destination: translate to the center, rotate, translate back.
	// With y pointing down, this matrix turns the picture counter-clockwise.
	s2d := f64.Aff3{
		cos, sin, cx - cos*cx - sin*cy,
		-sin, cos, cy + sin*cx - cos*cy,
	}
	xdraw.CatmullRom.Transform(dst, s2d, img, b, xdraw.Src, nil)
	return dst
}

// MaybeBlur applies a Gaussian blur with probability BlurProbability, with
// sigma drawn from [0.5, 1.5]. Otherwise img is returned as is. The gate is
// drawn before the radius, and the radius only when the gate fires.
func MaybeBlur(img *image.RGBA, rng *rand.Rand) *image.RGBA {
	if rng.Float64() >= BlurProbability {
		return img
	}
	return Blur(img, BlurRadiusMin+(BlurRadiusMax-BlurRadiusMin)*rng.Float64())
}

// Blur returns a Gaussian-blurred copy of img.
func Blur(img *image.RGBA, sigma float64) *image.RGBA {
	blurred := imaging.Blur(img, sigma)
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), blurred, blurred.Bounds().Min, draw.Src)
	return out
}

// AddNoise adds independent N(0, sigma²) noise to every color channel of
// every pixel, clips to [0, 255] and truncates to 8 bits. Samples are drawn
// row by row, left to right, R then G then B. Alpha is copied.
func AddNoise(img *image.RGBA, rng *rand.Rand, sigma float64) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	w := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for i := 0; i < w; i += 4 {
			for c := 0; c < 3; c++ {
				dst[i+c] = clipTruncate(float64(src[i+c]) + rng.NormFloat64()*sigma)
			}
			dst[i+3] = src[i+3]
		}
	}
	return out
}

func clipTruncate(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 0xff {
		return 0xff
	}
	return uint8(v)
}

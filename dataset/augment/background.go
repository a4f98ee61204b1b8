// Package augment implements the background sampler and the augmentation
// chain applied to every rendered canvas: rotation, an occasional blur and
// additive Gaussian noise, always in that order.
//
// Every function takes its randomness from an injected *rand.Rand and
// returns a freshly allocated canvas, so nothing is shared between samples.
package augment

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"
)

// Background sampling ranges.
const (
	BackgroundBaseMin = 200
	BackgroundBaseMax = 255
	BackgroundJitter  = 20
)

// SampleBackground returns a bright, near-neutral fill color. One base
// luminance is drawn in [200, 255]; each channel then gets its own integer
// offset in [-20, 20] and is clamped to [0, 255]. Channels are therefore
// close to each other but usually not identical.
func SampleBackground(rng *rand.Rand) color.RGBA {
	base := BackgroundBaseMin + rng.Intn(BackgroundBaseMax-BackgroundBaseMin+1)
	return color.RGBA{
		R: JitterChannel(base, jitter(rng)),
		G: JitterChannel(base, jitter(rng)),
		B: JitterChannel(base, jitter(rng)),
		A: 0xff,
	}
}

// JitterChannel applies offset to base and clamps the result to a valid
// 8-bit channel value.
func JitterChannel(base, offset int) uint8 {
	v := base + offset
	switch {
	case v < 0:
		return 0
	case v > 0xff:
		return 0xff
	default:
		return uint8(v)
	}
}

func jitter(rng *rand.Rand) int {
	return rng.Intn(2*BackgroundJitter+1) - BackgroundJitter
}

// NewCanvas returns a size×size canvas filled with bg.
func NewCanvas(size int, bg color.RGBA) *image.RGBA {
	return filled(image.Rect(0, 0, size, size), bg)
}

func filled(r image.Rectangle, bg color.RGBA) *image.RGBA {
	canvas := image.NewRGBA(r)
	draw.Draw(canvas, r, image.NewUniform(bg), image.Point{}, draw.Src)
	return canvas
}

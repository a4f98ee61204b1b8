package augment

import (
	"image"
	"image/color"
	"math/rand"
)

// Step is one stage of an augmentation chain. It must not modify its input.
type Step struct {
	Name  string
	Apply func(img *image.RGBA, rng *rand.Rand) *image.RGBA
}

// RotateStep rotates by a random angle, filling exposed pixels with bg.
func RotateStep(bg color.RGBA) Step {
	return Step{Name: "rotate", Apply: func(img *image.RGBA, rng *rand.Rand) *image.RGBA {
		return Rotate(img, rng, bg)
	}}
}

// BlurStep is the Bernoulli-gated blur.
func BlurStep() Step {
	return Step{Name: "blur", Apply: MaybeBlur}
}

// NoiseStep adds Gaussian noise with the given standard deviation.
func NoiseStep(sigma float64) Step {
	return Step{Name: "noise", Apply: func(img *image.RGBA, rng *rand.Rand) *image.RGBA {
		return AddNoise(img, rng, sigma)
	}}
}

// Chain runs a fixed sequence of steps. It holds no image buffers and may
// be reused across samples and goroutines as long as each call gets its own
// *rand.Rand.
type Chain struct {
	steps []Step
}

// Option configures a Chain built by NewChain.
type Option func(*chainConfig)

type chainConfig struct {
	noiseSigma float64
}

// WithNoiseSigma overrides DefaultNoiseSigma.
func WithNoiseSigma(sigma float64) Option {
	return func(c *chainConfig) {
		c.noiseSigma = sigma
	}
}

// NewChain returns the standard chain: rotate with bg fill, maybe blur,
// add noise. The order is fixed. Blur and noise see the rotated corners,
// so reordering changes the output distribution.
func NewChain(bg color.RGBA, opts ...Option) *Chain {
	cfg := chainConfig{noiseSigma: DefaultNoiseSigma}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewChainOf(RotateStep(bg), BlurStep(), NoiseStep(cfg.noiseSigma))
}

// NewChainOf builds a chain from explicit steps, run in the given order.
func NewChainOf(steps ...Step) *Chain {
	return &Chain{steps: append([]Step(nil), steps...)}
}

// Steps returns the step names in execution order.
func (c *Chain) Steps() []string {
	names := make([]string, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.Name
	}
	return names
}

// Apply runs every step in order and returns the final canvas.
func (c *Chain) Apply(img *image.RGBA, rng *rand.Rand) *image.RGBA {
	for _, s := range c.steps {
		img = s.Apply(img, rng)
	}
	return img
}

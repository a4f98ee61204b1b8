package augment

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJitterChannelClamp(t *testing.T) {
	tests := []struct {
		name   string
		base   int
		offset int
		want   uint8
	}{
		{"lowest base, lowest jitter stays in range", 200, -20, 180},
		{"highest base, highest jitter clamps to ceiling", 255, 20, 255},
		{"ceiling exactly", 235, 20, 255},
		{"one over ceiling", 236, 20, 255},
		{"no jitter", 222, 0, 222},
		{"floor clamps", 5, -20, 0},
		{"floor exactly", 20, -20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JitterChannel(tt.base, tt.offset))
		})
	}
}

func TestSampleBackgroundRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	lo := BackgroundBaseMin - BackgroundJitter
	sawNonGray := false
	for i := 0; i < 2000; i++ {
		bg := SampleBackground(rng)
		assert.Equal(t, uint8(0xff), bg.A)
		for _, ch := range []uint8{bg.R, bg.G, bg.B} {
			assert.GreaterOrEqual(t, int(ch), lo)
			assert.LessOrEqual(t, int(ch), 0xff)
		}
		if bg.R != bg.G || bg.G != bg.B {
			sawNonGray = true
		}
		// channels share one base, so they never drift further apart than
		// twice the jitter
		assert.LessOrEqual(t, absDiff(bg.R, bg.G), 2*BackgroundJitter)
		assert.LessOrEqual(t, absDiff(bg.G, bg.B), 2*BackgroundJitter)
	}
	assert.True(t, sawNonGray, "channels should be jittered independently")
}

func TestNewCanvasFilled(t *testing.T) {
	bg := SampleBackground(rand.New(rand.NewSource(2)))
	c := NewCanvas(16, bg)
	assert.Equal(t, 16, c.Bounds().Dx())
	for i := 0; i < len(c.Pix); i += 4 {
		assert.Equal(t, []uint8{bg.R, bg.G, bg.B, 0xff}, c.Pix[i:i+4])
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

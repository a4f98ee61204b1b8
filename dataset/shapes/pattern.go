package shapes

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"git.sr.ht/~sbinet/gg"

	"github.com/YuminosukeSato/synthasl/pkg/errors"
)

// Parameter ranges of the four pattern families, in unscaled pixels unless
// noted. Every length is multiplied by the per-sample scale factor.
const (
	ClusterSegments       = 25
	ClusterLengthMin      = 20.0
	ClusterLengthMax      = 60.0
	ClusterJitter         = 20.0
	ClusterStrokeBase     = 4.0
	ArcRadiusMin          = 40.0
	ArcRadiusMax          = 80.0
	ArcStartMinDeg        = 10.0
	ArcStartMaxDeg        = 80.0
	ArcEndMinDeg          = 260.0
	ArcEndMaxDeg          = 350.0
	ArcStrokeBase         = 5.0
	RectWidthMin          = 40.0
	RectWidthMax          = 60.0
	RectHeightMin         = 80.0
	RectHeightMax         = 120.0
	RectStrokeBase        = 4.0
	SpokesMin             = 6
	SpokesMax             = 12
	SpokeMaxLengthMin     = 40.0
	SpokeMaxLengthMax     = 80.0
	SpokeLengthFractionLo = 0.5
	SpokeLengthFractionHi = 1.0
	SpokeAngleJitter      = 0.2 // radians
	SpokeStrokeBase       = 4.0
)

// Point is a canvas position in pixels, y growing downwards.
type Point struct {
	X, Y float64
}

// Segment is a straight stroke between two points.
type Segment struct {
	From, To Point
}

// Pattern is a sampled, ready-to-draw instance of one style. The set of
// implementations is closed: ClusterLines, Arc, RectangleOutline and
// RadialSpokes.
type Pattern interface {
	// Style reports which family the pattern belongs to.
	Style() Style
	// Draw strokes the pattern onto dc in color c.
	Draw(dc *gg.Context, c color.Color)

	sealed()
}

// ClusterLines is a scribble of randomly oriented segments around the center.
type ClusterLines struct {
	Segments    []Segment
	StrokeWidth float64
}

// Arc is an open circular arc. Angles are degrees, clockwise from the
// positive x axis as seen on screen.
type Arc struct {
	Center      Point
	Radius      float64
	StartDeg    float64
	EndDeg      float64
	StrokeWidth float64
}

// RectangleOutline is an unfilled, axis-aligned "pillar" rectangle.
type RectangleOutline struct {
	Center      Point
	Width       float64
	Height      float64
	StrokeWidth float64
}

// RadialSpokes is a wheel of segments starting at the center.
type RadialSpokes struct {
	Center      Point
	MaxLength   float64
	Spokes      []Segment
	StrokeWidth float64
}

func (ClusterLines) Style() Style     { return StyleClusterLines }
func (Arc) Style() Style              { return StyleArc }
func (RectangleOutline) Style() Style { return StyleRectangleOutline }
func (RadialSpokes) Style() Style     { return StyleRadialSpokes }

func (ClusterLines) sealed()     {}
func (Arc) sealed()              {}
func (RectangleOutline) sealed() {}
func (RadialSpokes) sealed()     {}

// StrokeWidth returns round(base*scale), never less than one pixel. Scale
// shrinks as the distance target grows, so without the floor far samples
// would lose their strokes entirely.
func StrokeWidth(base, scale float64) float64 {
	return math.Max(1, math.Round(base*scale))
}

// Sample draws a pattern of the given style centered at center, with every
// length multiplied by scale.
func Sample(style Style, rng *rand.Rand, center Point, scale float64) (Pattern, error) {
	switch style {
	case StyleClusterLines:
		return SampleClusterLines(rng, center, scale), nil
	case StyleArc:
		return SampleArc(rng, center, scale), nil
	case StyleRectangleOutline:
		return SampleRectangleOutline(rng, center, scale), nil
	case StyleRadialSpokes:
		return SampleRadialSpokes(rng, center, scale), nil
	default:
		return nil, errors.NewValidationError("style", "unknown style", int(style))
	}
}

// SampleClusterLines draws 25 segments. For each one: length, direction,
// then the x and y jitter of its start point.
func SampleClusterLines(rng *rand.Rand, center Point, scale float64) ClusterLines {
	segs := make([]Segment, ClusterSegments)
	for i := range segs {
		length := uniform(rng, ClusterLengthMin, ClusterLengthMax) * scale
		angle := uniform(rng, 0, 2*math.Pi)

		from := Point{
			X: center.X + uniform(rng, -ClusterJitter, ClusterJitter)*scale,
			Y: center.Y + uniform(rng, -ClusterJitter, ClusterJitter)*scale,
		}
		segs[i] = Segment{
			From: from,
			To:   Point{X: from.X + math.Cos(angle)*length, Y: from.Y + math.Sin(angle)*length},
		}
	}
	return ClusterLines{Segments: segs, StrokeWidth: StrokeWidth(ClusterStrokeBase, scale)}
}

// SampleArc draws radius, start angle and end angle, in that order.
func SampleArc(rng *rand.Rand, center Point, scale float64) Arc {
	return Arc{
		Center:      center,
		Radius:      uniform(rng, ArcRadiusMin, ArcRadiusMax) * scale,
		StartDeg:    uniform(rng, ArcStartMinDeg, ArcStartMaxDeg),
		EndDeg:      uniform(rng, ArcEndMinDeg, ArcEndMaxDeg),
		StrokeWidth: StrokeWidth(ArcStrokeBase, scale),
	}
}

// SampleRectangleOutline draws width then height. Height is always larger.
func SampleRectangleOutline(rng *rand.Rand, center Point, scale float64) RectangleOutline {
	w := uniform(rng, RectWidthMin, RectWidthMax) * scale
	h := uniform(rng, RectHeightMin, RectHeightMax) * scale
	return RectangleOutline{
		Center:      center,
		Width:       w,
		Height:      h,
		StrokeWidth: StrokeWidth(RectStrokeBase, scale),
	}
}

// SampleRadialSpokes draws the spoke count and the shared maximum length,
// then per spoke its angle jitter and length fraction.
func SampleRadialSpokes(rng *rand.Rand, center Point, scale float64) RadialSpokes {
	n := SpokesMin + rng.Intn(SpokesMax-SpokesMin+1)
	maxLen := uniform(rng, SpokeMaxLengthMin, SpokeMaxLengthMax) * scale

	spokes := make([]Segment, n)
	for i := range spokes {
		angle := 2*math.Pi*float64(i)/float64(n) + uniform(rng, -SpokeAngleJitter, SpokeAngleJitter)
		length := maxLen * uniform(rng, SpokeLengthFractionLo, SpokeLengthFractionHi)
		spokes[i] = Segment{
			From: center,
			To:   Point{X: center.X + math.Cos(angle)*length, Y: center.Y + math.Sin(angle)*length},
		}
	}
	return RadialSpokes{Center: center, MaxLength: maxLen, Spokes: spokes, StrokeWidth: StrokeWidth(SpokeStrokeBase, scale)}
}

// Draw implements Pattern.
func (p ClusterLines) Draw(dc *gg.Context, c color.Color) {
	strokeSegments(dc, c, p.StrokeWidth, p.Segments)
}

// Draw implements Pattern. The stroke lies inside the circle of the
// sampled radius, so the arc never grows past its bounding box.
func (p Arc) Draw(dc *gg.Context, c color.Color) {
	dc.SetColor(c)
	dc.SetLineWidth(p.StrokeWidth)
	dc.SetLineCapButt()
	r := math.Max(p.Radius-p.StrokeWidth/2, p.StrokeWidth/2)
	dc.DrawArc(p.Center.X, p.Center.Y, r, gg.Radians(p.StartDeg), gg.Radians(p.EndDeg))
	dc.Stroke()
}

// Draw implements Pattern. Like Arc, the outline is drawn inwards.
func (p RectangleOutline) Draw(dc *gg.Context, c color.Color) {
	dc.SetColor(c)
	dc.SetLineWidth(p.StrokeWidth)
	dc.SetLineJoin(gg.LineJoinBevel)
	inset := p.StrokeWidth / 2
	w := math.Max(p.Width-p.StrokeWidth, 0)
	h := math.Max(p.Height-p.StrokeWidth, 0)
	dc.DrawRectangle(p.Center.X-p.Width/2+inset, p.Center.Y-p.Height/2+inset, w, h)
	dc.Stroke()
}

// Draw implements Pattern.
func (p RadialSpokes) Draw(dc *gg.Context, c color.Color) {
	strokeSegments(dc, c, p.StrokeWidth, p.Spokes)
}

func strokeSegments(dc *gg.Context, c color.Color, width float64, segs []Segment) {
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.SetLineCapButt()
	for _, s := range segs {
		dc.DrawLine(s.From.X, s.From.Y, s.To.X, s.To.Y)
		dc.Stroke()
	}
}

// Render strokes p onto canvas in place.
func Render(canvas *image.RGBA, p Pattern, c color.Color) {
	dc := gg.NewContextForRGBA(canvas)
	p.Draw(dc, c)
}

// uniform returns a value uniformly distributed in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

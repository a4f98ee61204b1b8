// Package shapes maps letters to render styles and draws the four
// procedural pattern families onto a canvas.
//
// Rendering is split in two steps. Sample draws every random parameter of
// a pattern from an injected *rand.Rand and returns a Pattern value that
// carries only those parameters. Pattern.Draw then rasterizes it. Keeping
// the draws separate from the rasterization lets tests check parameter
// ranges without looking at pixels.
package shapes

import (
	"fmt"

	"github.com/YuminosukeSato/synthasl/dataset"
)

// Style is one of the four mutually exclusive pattern kinds.
type Style int

const (
	StyleClusterLines Style = iota
	StyleArc
	StyleRectangleOutline
	StyleRadialSpokes
)

// NumStyles is the number of pattern kinds.
const NumStyles = 4

// Styles returns every style in ordinal order.
func Styles() []Style {
	return []Style{StyleClusterLines, StyleArc, StyleRectangleOutline, StyleRadialSpokes}
}

// String returns the style name used in logs and reports.
func (s Style) String() string {
	switch s {
	case StyleClusterLines:
		return "cluster-lines"
	case StyleArc:
		return "arc"
	case StyleRectangleOutline:
		return "rectangle-outline"
	case StyleRadialSpokes:
		return "radial-spokes"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// SelectStyle returns the style for a letter: ordinal mod 4.
//
// The partition is intentionally uneven. Over 26 letters style 0 and
// style 1 get 7 letters each, styles 2 and 3 get 6. l must be valid.
func SelectStyle(l dataset.Letter) Style {
	return Style(l.Ordinal() % NumStyles)
}

// Package report summarizes the label distribution of a generated dataset
// and renders it as charts.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/synthasl/dataset"
	"github.com/YuminosukeSato/synthasl/dataset/index"
	"github.com/YuminosukeSato/synthasl/dataset/shapes"
	"github.com/YuminosukeSato/synthasl/pkg/errors"
)

// Summary describes the records of one dataset.
type Summary struct {
	Total     int
	PerLetter map[dataset.Letter]int
	PerStyle  map[shapes.Style]int

	DistanceMean   float64
	DistanceStdDev float64 // sample standard deviation, 0 for one record
	DistanceMin    float64
	DistanceMax    float64
	DistanceMedian float64
}

// Summarize counts records per letter and per style and computes the
// distance statistics.
func Summarize(records []index.Record) (*Summary, error) {
	if len(records) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "report: no records")
	}

	s := &Summary{
		Total:     len(records),
		PerLetter: make(map[dataset.Letter]int),
		PerStyle:  make(map[shapes.Style]int),
	}
	dist := make([]float64, len(records))
	for i, rec := range records {
		if !rec.Letter.Valid() {
			return nil, errors.NewInvalidLetterError(rec.Letter.String())
		}
		s.PerLetter[rec.Letter]++
		s.PerStyle[shapes.SelectStyle(rec.Letter)]++
		dist[i] = rec.Distance
	}

	if len(dist) > 1 {
		s.DistanceMean, s.DistanceStdDev = stat.MeanStdDev(dist, nil)
	} else {
		s.DistanceMean = dist[0]
	}
	s.DistanceMin = floats.Min(dist)
	s.DistanceMax = floats.Max(dist)

	sort.Float64s(dist)
	s.DistanceMedian = stat.Quantile(0.5, stat.Empirical, dist, nil)
	return s, nil
}

// Letters returns the letters present, in alphabet order.
func (s *Summary) Letters() []dataset.Letter {
	out := make([]dataset.Letter, 0, len(s.PerLetter))
	for _, l := range dataset.Alphabet() {
		if s.PerLetter[l] > 0 {
			out = append(out, l)
		}
	}
	return out
}

// Fprint writes a human-readable table of the summary.
func (s *Summary) Fprint(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "samples\t%d\n", s.Total)
	fmt.Fprintf(tw, "distance mean\t%.4f\n", s.DistanceMean)
	fmt.Fprintf(tw, "distance stddev\t%.4f\n", s.DistanceStdDev)
	fmt.Fprintf(tw, "distance min/median/max\t%.4f / %.4f / %.4f\n", s.DistanceMin, s.DistanceMedian, s.DistanceMax)
	for _, st := range shapes.Styles() {
		fmt.Fprintf(tw, "style %s\t%d\n", st, s.PerStyle[st])
	}
	for _, l := range s.Letters() {
		fmt.Fprintf(tw, "letter %s\t%d\n", l, s.PerLetter[l])
	}
	return tw.Flush()
}

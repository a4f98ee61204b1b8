package report

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/synthasl/dataset/index"
	"github.com/YuminosukeSato/synthasl/dataset/shapes"
	"github.com/YuminosukeSato/synthasl/pkg/errors"
)

// DefaultBins is the number of histogram bins used by PlotDistanceHistogram.
const DefaultBins = 20

const (
	chartWidth  = 6 * vg.Inch
	chartHeight = 4 * vg.Inch
)

// PlotDistanceHistogram writes a histogram of the distance targets to path.
// The image format follows the file extension (png, svg, pdf...).
func PlotDistanceHistogram(records []index.Record, path string) error {
	if len(records) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "report: no records")
	}
	values := make(plotter.Values, len(records))
	for i, rec := range records {
		values[i] = rec.Distance
	}

	p := plot.New()
	p.Title.Text = "Distance targets"
	p.X.Label.Text = "distance"
	p.Y.Label.Text = "samples"

	h, err := plotter.NewHist(values, DefaultBins)
	if err != nil {
		return errors.Wrap(err, "report: histogram")
	}
	p.Add(h)

	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return errors.NewPersistenceError("write chart", path, err)
	}
	return nil
}

// PlotStyleCounts writes a bar chart of the number of samples per style.
func PlotStyleCounts(records []index.Record, path string) error {
	s, err := Summarize(records)
	if err != nil {
		return err
	}

	styles := shapes.Styles()
	values := make(plotter.Values, len(styles))
	names := make([]string, len(styles))
	for i, st := range styles {
		values[i] = float64(s.PerStyle[st])
		names[i] = st.String()
	}

	p := plot.New()
	p.Title.Text = "Samples per style"
	p.Y.Label.Text = "samples"

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return errors.Wrap(err, "report: bar chart")
	}
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return errors.NewPersistenceError("write chart", path, err)
	}
	return nil
}

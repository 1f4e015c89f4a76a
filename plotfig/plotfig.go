// Package plotfig renders the sweep and comparison figures as PNG files
// using gonum/plot.
package plotfig

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/Bhavana1025/ml-Project/pkg/errors"
)

// LineSeries is one named curve for a line plot.
type LineSeries struct {
	Name string
	X    []float64
	Y    []float64
}

// ScoreGroup is one named score distribution for a box plot.
type ScoreGroup struct {
	Name   string
	Scores []float64
}

// SaveLinePlot writes a line plot with one curve per series to path.
func SaveLinePlot(title, xLabel, yLabel string, series []LineSeries, path string) error {
	if len(series) == 0 {
		return errors.NewValueError("SaveLinePlot", "no series to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	args := make([]interface{}, 0, len(series)*2)
	for _, s := range series {
		if len(s.X) != len(s.Y) {
			return errors.NewDimensionError("SaveLinePlot", len(s.X), len(s.Y), 0)
		}
		xys := make(plotter.XYs, len(s.X))
		for i := range s.X {
			xys[i].X = s.X[i]
			xys[i].Y = s.Y[i]
		}
		args = append(args, s.Name, xys)
	}

	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return errors.Wrap(err, "adding line series")
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving line plot to %s", path)
	}
	return nil
}

// scoreGrid adapts a score surface to plotter.GridXYZ. Rows index ys and
// columns index xs.
type scoreGrid struct {
	xs []float64
	ys []float64
	z  [][]float64
}

func (g scoreGrid) Dims() (c, r int)   { return len(g.xs), len(g.ys) }
func (g scoreGrid) Z(c, r int) float64 { return g.z[r][c] }
func (g scoreGrid) X(c int) float64    { return g.xs[c] }
func (g scoreGrid) Y(r int) float64    { return g.ys[r] }

// SaveHeatMap writes a score surface over two hyperparameters to path.
// z must have len(ys) rows of len(xs) values.
func SaveHeatMap(title, xLabel, yLabel string, xs, ys []float64, z [][]float64, path string) error {
	if len(xs) == 0 || len(ys) == 0 {
		return errors.NewValueError("SaveHeatMap", "empty axes")
	}
	if len(z) != len(ys) {
		return errors.NewDimensionError("SaveHeatMap", len(ys), len(z), 0)
	}
	for _, row := range z {
		if len(row) != len(xs) {
			return errors.NewDimensionError("SaveHeatMap", len(xs), len(row), 1)
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	pal := moreland.SmoothBlueRed().Palette(255)
	hm := plotter.NewHeatMap(scoreGrid{xs: xs, ys: ys, z: z}, pal)
	p.Add(hm)

	if err := p.Save(7*vg.Inch, 6*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving heat map to %s", path)
	}
	return nil
}

// SaveBoxPlot writes one box per score group to path, for comparing
// cross-validated accuracy distributions across models.
func SaveBoxPlot(title, yLabel string, groups []ScoreGroup, path string) error {
	if len(groups) == 0 {
		return errors.NewValueError("SaveBoxPlot", "no score groups to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	names := make([]string, len(groups))
	for i, group := range groups {
		names[i] = group.Name
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(group.Scores))
		if err != nil {
			return errors.Wrapf(err, "box plot for %q", group.Name)
		}
		p.Add(box)
	}
	p.NominalX(names...)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "saving box plot to %s", path)
	}
	return nil
}

// Package plotting renders evaluation results to PNG files with gonum/plot.
package plotting

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/evalgo/model_selection"
	"github.com/YuminosukeSato/evalgo/pkg/errors"
)

var (
	trainColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	testColor     = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	observedColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	histColor     = color.RGBA{R: 140, G: 140, B: 140, A: 255}
)

// LearningCurvePlot renders mean train and test scores against training-set
// size and saves the figure as a PNG.
func LearningCurvePlot(result *model_selection.CurveResult, scoreName, path string) error {
	if result == nil || len(result.Steps) == 0 {
		return errors.NewValueError("LearningCurvePlot", "result must hold at least one step")
	}

	p := plot.New()
	p.Title.Text = "Learning curve"
	p.X.Label.Text = "training samples"
	p.Y.Label.Text = scoreName
	p.Legend.Top = true

	if err := addScoreLine(p, "train", result.Steps, result.MeanTrainScores(), trainColor); err != nil {
		return err
	}
	if err := addScoreLine(p, "test", result.Steps, result.MeanTestScores(), testColor); err != nil {
		return err
	}

	return save(p, path)
}

// ValidationCurvePlot renders mean train and test scores against the swept
// hyperparameter values and saves the figure as a PNG. paramValues must
// align with the result's steps.
func ValidationCurvePlot(result *model_selection.CurveResult, paramName string, paramValues []float64, scoreName, path string) error {
	if result == nil || len(result.Steps) == 0 {
		return errors.NewValueError("ValidationCurvePlot", "result must hold at least one step")
	}
	if len(paramValues) != len(result.Steps) {
		return errors.NewDimensionError("ValidationCurvePlot", len(result.Steps), len(paramValues), 0)
	}

	p := plot.New()
	p.Title.Text = "Validation curve"
	p.X.Label.Text = paramName
	p.Y.Label.Text = scoreName
	p.Legend.Top = true

	if err := addScoreLine(p, "train", paramValues, result.MeanTrainScores(), trainColor); err != nil {
		return err
	}
	if err := addScoreLine(p, "test", paramValues, result.MeanTestScores(), testColor); err != nil {
		return err
	}

	return save(p, path)
}

// PermutationScorePlot renders the null distribution of permutation scores
// as a histogram with the observed score marked, and saves the figure as a
// PNG.
func PermutationScorePlot(result *model_selection.PermutationTestResult, scoreName, path string) error {
	if result == nil || len(result.PermutationScores) == 0 {
		return errors.NewValueError("PermutationScorePlot", "result must hold permutation scores")
	}

	p := plot.New()
	p.Title.Text = "Permutation test"
	p.X.Label.Text = scoreName
	p.Y.Label.Text = "count"
	p.Legend.Top = true

	values := make(plotter.Values, len(result.PermutationScores))
	copy(values, result.PermutationScores)

	const bins = 10
	hist, err := plotter.NewHist(values, bins)
	if err != nil {
		return errors.Wrap(err, "PermutationScorePlot: histogram")
	}
	hist.FillColor = histColor
	p.Add(hist)
	p.Legend.Add("permutations", hist)

	// Vertical marker at the observed score, tall enough to clear the
	// largest bin.
	height := maxBinCount(result.PermutationScores, bins)
	marker, err := plotter.NewLine(plotter.XYs{
		{X: result.Score, Y: 0},
		{X: result.Score, Y: height},
	})
	if err != nil {
		return errors.Wrap(err, "PermutationScorePlot: marker")
	}
	marker.Color = observedColor
	marker.Width = vg.Points(2)
	p.Add(marker)
	p.Legend.Add("observed", marker)

	return save(p, path)
}

func addScoreLine(p *plot.Plot, name string, xs, ys []float64, c color.RGBA) error {
	if len(xs) != len(ys) {
		return errors.NewDimensionError("plotting", len(xs), len(ys), 0)
	}

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return errors.Wrapf(err, "plotting: %s line", name)
	}
	line.Color = c
	points.Color = c
	p.Add(line, points)
	p.Legend.Add(name, line, points)
	return nil
}

func maxBinCount(scores []float64, bins int) float64 {
	lo, hi := scores[0], scores[0]
	for _, s := range scores {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	if hi == lo {
		return float64(len(scores))
	}

	counts := make([]int, bins)
	width := (hi - lo) / float64(bins)
	for _, s := range scores {
		b := int((s - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}

	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	return float64(max)
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "plotting: saving %s", path)
	}
	return nil
}

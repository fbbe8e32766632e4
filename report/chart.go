package report

import (
	"fmt"
	"image/color"
	"io"

	"github.com/VAIBHAVSING/bucketwise/recommend"
	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// ChartTitle is the heading of the region cost chart.
const ChartTitle = "S3 Estimated Cost by Region with Single Optimal Recommendation"

const (
	chartWidth  = 12 * vg.Inch
	chartHeight = 7 * vg.Inch
)

var recommendationColors = map[recommend.Recommendation]color.RGBA{
	recommend.Delete:  {R: 0xff, A: 0xff},
	recommend.Cleanup: {R: 0xff, G: 0xa5, A: 0xff},
	recommend.Archive: {B: 0xff, A: 0xff},
	recommend.None:    {G: 0x80, A: 0xff},
}

// RecommendationColor returns the bar colour for a recommendation. Unknown
// values are drawn grey.
func RecommendationColor(rec recommend.Recommendation) color.Color {
	if c, ok := recommendationColors[rec]; ok {
		return c
	}
	return color.Gray{Y: 0x80}
}

// RenderChart draws one bar per region, coloured by the region's
// recommendation and labelled with its cost, and writes it as PNG.
func RenderChart(w io.Writer, summaries []RegionSummary) error {
	p := plot.New()
	p.Title.Text = ChartTitle
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Region"
	p.Y.Label.Text = "Estimated Cost (USD)"
	p.Y.Min = 0

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = color.Gray{Y: 0xa0}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(grid)

	if len(summaries) == 0 {
		p.Y.Max = 1
		return writePNG(w, p)
	}

	barWidth := vg.Points(40)
	if n := len(summaries); n > 12 {
		barWidth = vg.Points(480 / float64(n))
	}

	names := make([]string, len(summaries))
	points := make(plotter.XYs, len(summaries))
	labels := make([]string, len(summaries))
	maxCost := 0.0

	for i, s := range summaries {
		bar, err := plotter.NewBarChart(plotter.Values{s.CostUSD}, barWidth)
		if err != nil {
			return fmt.Errorf("bar for region %q: %w", s.Region, err)
		}
		bar.XMin = float64(i)
		bar.Color = RecommendationColor(s.Recommendation)
		bar.LineStyle.Width = 0
		p.Add(bar)

		names[i] = s.Region
		points[i] = plotter.XY{X: float64(i), Y: s.CostUSD}
		labels[i] = fmt.Sprintf("$%s\n%s", humanize.FormatFloat("#,###.##", s.CostUSD), s.Recommendation)
		if s.CostUSD > maxCost {
			maxCost = s.CostUSD
		}
	}

	p.NominalX(names...)
	if maxCost > 0 {
		p.Y.Max = maxCost * 1.2
	} else {
		p.Y.Max = 1
	}

	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: labels})
	if err != nil {
		return fmt.Errorf("bar labels: %w", err)
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].XAlign = text.XCenter
		annotations.TextStyle[i].YAlign = text.YBottom
		annotations.TextStyle[i].Font.Size = vg.Points(9)
	}
	p.Add(annotations)

	return writePNG(w, p)
}

func writePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

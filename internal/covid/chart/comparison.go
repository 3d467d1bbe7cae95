package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shandysiswandi/gocovid/internal/covid/entity"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

// ErrEmptyInput is returned by RenderComparison when no country is given.
var ErrEmptyInput = errors.New("comparison needs at least one country")

// yHeadroom leaves room above the tallest bar for its value label.
const yHeadroom = 1.15

const (
	comparisonWidth  = 12 * vg.Inch
	comparisonHeight = 8 * vg.Inch
)

// Comparison is a rendered grouped bar chart.
type Comparison struct {
	Title      string
	Countries  []string
	Categories []entity.Category
	// YMax is the declared upper bound of the y-axis.
	YMax float64
	PNG  []byte
}

// RenderComparison draws one bar cluster per country with one bar per
// category, a value label above every bar and a shared legend. The y-axis
// runs from zero to 115% of the largest confirmed count.
//
// An empty cats slice means entity.DefaultCategories.
func RenderComparison(stats []entity.CountryStat, cats []entity.Category) (Comparison, error) {
	p, out, err := newComparisonPlot(stats, cats)
	if err != nil {
		return Comparison{}, err
	}

	png, err := encodePlot(p, comparisonWidth, comparisonHeight)
	if err != nil {
		return Comparison{}, err
	}
	out.PNG = png

	return out, nil
}

// newComparisonPlot builds the chart without drawing it. The returned
// Comparison has no PNG yet.
func newComparisonPlot(stats []entity.CountryStat, cats []entity.Category) (*plot.Plot, Comparison, error) {
	if len(stats) == 0 {
		return nil, Comparison{}, ErrEmptyInput
	}
	if len(cats) == 0 {
		cats = entity.DefaultCategories
	}

	out := Comparison{
		Title:      comparisonTitle(stats),
		Countries:  make([]string, len(stats)),
		Categories: cats,
		YMax:       upperBound(stats),
	}
	for i, s := range stats {
		out.Countries[i] = s.Country
	}

	p := plot.New()
	p.Title.Text = out.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Countries"
	p.Y.Label.Text = "Number of Cases"
	p.Y.Tick.Marker = commaTicks{}
	p.Legend.Top = true
	p.NominalX(out.Countries...)

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = color.Gray{Y: 210}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(grid)

	width := barWidth(len(stats), len(cats))
	for i, cat := range cats {
		values := make(plotter.Values, len(stats))
		for j, s := range stats {
			values[j] = float64(cat.Value(s))
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, Comparison{}, fmt.Errorf("%s bars: %w", cat, err)
		}
		bars.Color = categoryColor(cat)
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(float64(i)-float64(len(cats)-1)/2) * width

		labels, err := valueLabels(values, bars.Offset)
		if err != nil {
			return nil, Comparison{}, fmt.Errorf("%s labels: %w", cat, err)
		}

		p.Add(bars, labels)
		p.Legend.Add(cat.Label(), bars)
	}

	// Set after Add, which widens the axes to fit the data.
	p.Y.Min = 0
	p.Y.Max = out.YMax

	return p, out, nil
}

// upperBound is 1.15 * max(confirmed), or 1 when every country reports zero
// so the axis still has a range.
func upperBound(stats []entity.CountryStat) float64 {
	var peak int64
	for _, s := range stats {
		peak = max(peak, s.Confirmed)
	}
	if peak == 0 {
		return 1
	}
	return float64(peak) * yHeadroom
}

func comparisonTitle(stats []entity.CountryStat) string {
	names := make([]string, len(stats))
	for i, s := range stats {
		names[i] = s.Country
	}
	if len(names) == 1 {
		return "COVID-19 Cases: " + names[0]
	}
	return "COVID-19 Cases: " + strings.Join(names, " vs ") + " Comparison"
}

// barWidth shrinks bars as clusters are added so neighbours do not overlap.
func barWidth(countries, categories int) vg.Length {
	return vg.Points(math.Min(60, 540/float64(countries*categories)))
}

func valueLabels(values plotter.Values, offset vg.Length) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(values))
	texts := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i), Y: v}
		texts[i] = humanize.Comma(int64(v))
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	labels.Offset = vg.Point{X: offset, Y: vg.Points(3)}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YBottom
		labels.TextStyle[i].Font.Size = vg.Points(9)
	}

	return labels, nil
}

func categoryColor(cat entity.Category) color.Color {
	switch cat {
	case entity.CategoryConfirmed:
		return color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xcc}
	case entity.CategoryDeaths:
		return color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xcc}
	case entity.CategoryRecovered:
		return color.NRGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xcc}
	default:
		return color.NRGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xcc}
	}
}

// commaTicks labels the y-axis with thousands separators.
type commaTicks struct{}

func (commaTicks) Ticks(lo, hi float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(lo, hi)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = humanize.Comma(int64(ticks[i].Value))
		}
	}
	return ticks
}

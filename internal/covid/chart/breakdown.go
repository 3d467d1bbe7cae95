package chart

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shandysiswandi/gocovid/internal/covid/entity"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

const (
	breakdownWidth  = 1100
	breakdownHeight = 720
)

// Wedge is one slice of the ring chart.
type Wedge struct {
	Label string
	Value int64
}

// Breakdown is a rendered ring chart of one country.
type Breakdown struct {
	Country   string
	Confirmed int64
	// Wedges is empty when Placeholder is set.
	Wedges []Wedge
	// Center is the text in the ring hole, one line per row.
	Center      string
	Placeholder bool
	PNG         []byte
}

// RenderBreakdown draws a ring chart over active, critical, deaths and
// recovered. Confirmed is only listed in the legend. When all four counters
// are zero a "no data" placeholder image is rendered instead of the ring.
func RenderBreakdown(stat entity.CountryStat) (Breakdown, error) {
	out := Breakdown{Country: stat.Country, Confirmed: stat.Confirmed}

	if !stat.HasBreakdown() {
		png, err := renderNoData(stat.Country)
		if err != nil {
			return Breakdown{}, err
		}
		out.Placeholder = true
		out.PNG = png
		return out, nil
	}

	out.Wedges = []Wedge{
		{Label: "Active", Value: stat.Active},
		{Label: "Critical", Value: stat.Critical},
		{Label: "Deaths", Value: stat.Deaths},
		{Label: "Recovered", Value: stat.Recovered},
	}
	out.Center = stat.Country + "\nTotal: " + humanize.Comma(stat.Confirmed)

	font, err := chart.GetDefaultFont()
	if err != nil {
		return Breakdown{}, fmt.Errorf("load font: %w", err)
	}

	values := make([]chart.Value, 0, len(out.Wedges))
	for _, w := range out.Wedges {
		values = append(values, chart.Value{
			Label: w.Label,
			Value: float64(w.Value),
			Style: chart.Style{
				FillColor:   wedgeColor(w.Label),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
				FontColor:   drawing.ColorWhite,
			},
		})
	}

	donut := chart.DonutChart{
		Title:  "COVID-19 Breakdown: " + stat.Country,
		Width:  breakdownWidth,
		Height: breakdownHeight,
		Font:   font,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		Values: values,
		Elements: []chart.Renderable{
			centerLabel(strings.Split(out.Center, "\n")),
			legend(stat, out.Wedges),
		},
	}

	var buf bytes.Buffer
	if err := donut.Render(chart.PNG, &buf); err != nil {
		return Breakdown{}, fmt.Errorf("render donut: %w", err)
	}
	out.PNG = buf.Bytes()

	return out, nil
}

func wedgeColor(label string) drawing.Color {
	switch label {
	case "Active":
		return drawing.ColorFromHex("ff7f0e")
	case "Critical":
		return drawing.ColorFromHex("9467bd")
	case "Deaths":
		return drawing.ColorFromHex("d62728")
	case "Recovered":
		return drawing.ColorFromHex("2ca02c")
	default:
		return drawing.ColorFromHex("1f77b4")
	}
}

// centerLabel writes lines centered in the ring hole, the first one larger.
func centerLabel(lines []string) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		r.SetFont(defaults.GetFont())
		r.SetFontColor(drawing.ColorBlack)

		cx := box.Left + box.Width()/2
		cy := box.Top + box.Height()/2

		y := cy - 12*(len(lines)-1)
		for i, line := range lines {
			size := 14.0
			if i == 0 {
				size = 18
			}
			r.SetFontSize(size)
			tb := r.MeasureText(line)
			r.Text(line, cx-tb.Width()/2, y+tb.Height()/2)
			y += 26
		}
	}
}

// legend lists confirmed plus every wedge with its count in the top-left corner.
func legend(stat entity.CountryStat, wedges []Wedge) chart.Renderable {
	type row struct {
		label string
		value int64
		color drawing.Color
	}
	rows := []row{{label: "Confirmed", value: stat.Confirmed, color: drawing.ColorFromHex("1f77b4")}}
	for _, w := range wedges {
		rows = append(rows, row{label: w.Label, value: w.Value, color: wedgeColor(w.Label)})
	}

	return func(r chart.Renderer, _ chart.Box, defaults chart.Style) {
		const (
			left   = 24
			top    = 80
			swatch = 14
			step   = 24
		)

		r.SetFont(defaults.GetFont())
		r.SetFontSize(12)
		r.SetFontColor(drawing.ColorBlack)

		for i, it := range rows {
			y := top + i*step
			r.SetFillColor(it.color)
			r.SetStrokeColor(it.color)
			r.MoveTo(left, y)
			r.LineTo(left+swatch, y)
			r.LineTo(left+swatch, y+swatch)
			r.LineTo(left, y+swatch)
			r.LineTo(left, y)
			r.Close()
			r.FillStroke()

			r.Text(it.label+": "+humanize.Comma(it.value), left+swatch+8, y+swatch-2)
		}
	}
}

// renderNoData draws a blank image with a "no data" notice.
func renderNoData(country string) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "COVID-19 Breakdown: " + country
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	notice, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0.5, Y: 0.5}},
		Labels: []string{"No data available"},
	})
	if err != nil {
		return nil, fmt.Errorf("no data label: %w", err)
	}
	notice.TextStyle[0].XAlign = text.XCenter
	notice.TextStyle[0].YAlign = text.YCenter
	notice.TextStyle[0].Font.Size = vg.Points(28)
	p.Add(notice)

	return encodePlot(p, vg.Length(breakdownWidth)*vg.Inch/dpi, vg.Length(breakdownHeight)*vg.Inch/dpi)
}

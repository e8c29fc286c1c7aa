package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/stepsim/internal/app"
	"github.com/san-kum/stepsim/internal/config"
	"github.com/san-kum/stepsim/internal/response"
)

// ChartRenderer draws the enabled signals of the last run as an ASCII chart.
// It implements app.Renderer.
type ChartRenderer struct {
	Width  int
	Height int
	YMin   float64
	YMax   float64
	Color  bool
	Theme  Theme
}

func NewChartRenderer(r config.RenderConfig, color bool) *ChartRenderer {
	return &ChartRenderer{
		Width:  r.Width,
		Height: r.Height,
		YMin:   r.YMin,
		YMax:   r.YMax,
		Color:  color,
		Theme:  GetTheme(r.Theme),
	}
}

func (c *ChartRenderer) Render(s *app.State) string {
	var b strings.Builder
	b.WriteString(c.Chart(s.Trace, s.Toggles))
	if len(s.Metrics) > 0 {
		b.WriteString("\n\n")
		b.WriteString(MetricsPanel(s.Metrics))
	}
	return b.String()
}

// Chart plots the enabled signals of tr.
func (c *ChartRenderer) Chart(tr *response.Trace, toggles app.Toggles) string {
	return c.Plot(tr, toggles.Signals())
}

// Plot draws sigs in order. The y range always covers [YMin, YMax] and
// grows when the data leaves it.
func (c *ChartRenderer) Plot(tr *response.Trace, sigs []response.Signal) string {
	if tr == nil || tr.Len() == 0 {
		return "no data"
	}
	if len(sigs) == 0 {
		return "no signals enabled"
	}

	data := make([][]float64, 0, len(sigs))
	names := make([]string, 0, len(sigs))
	colors := make([]asciigraph.AnsiColor, 0, len(sigs))
	for _, sig := range sigs {
		data = append(data, plottable(tr.Series(sig)))
		names = append(names, SignalLabel(sig))
		colors = append(colors, c.Theme.Series[sig])
	}

	opts := []asciigraph.Option{
		asciigraph.Height(c.Height),
		asciigraph.LowerBound(c.YMin),
		asciigraph.UpperBound(c.YMax),
		asciigraph.Caption(Caption(tr.Params)),
	}
	// interpolation needs at least 2 columns and 2 samples
	if c.Width >= 2 && tr.Len() >= 2 {
		opts = append(opts, asciigraph.Width(c.Width))
	}
	if c.Color {
		opts = append(opts,
			asciigraph.SeriesColors(colors...),
			asciigraph.SeriesLegends(names...),
		)
	}

	out := asciigraph.PlotMany(data, opts...)
	if !c.Color {
		out += "\n\n" + Legend(sigs)
	}
	return out
}

// plottable copies s with non-finite samples replaced by NaN, which the
// chart leaves as gaps.
func plottable(s []float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		if math.IsInf(v, 0) || math.Abs(v) > maxPlotMagnitude {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	return out
}

const maxPlotMagnitude = 1e12

func SignalLabel(sig response.Signal) string {
	switch sig {
	case response.SignalReference:
		return "reference x"
	case response.SignalOutput:
		return "output y"
	case response.SignalRate:
		return "rate dy"
	case response.SignalError:
		return "error e"
	case response.SignalFeedback:
		return "feedback f"
	}
	return sig.String()
}

// Legend is the plain-text legend used when colors are off.
func Legend(sigs []response.Signal) string {
	parts := make([]string, len(sigs))
	for i, sig := range sigs {
		parts[i] = fmt.Sprintf("%s %s", legendMark(sig), SignalLabel(sig))
	}
	return strings.Join(parts, "   ")
}

func legendMark(sig response.Signal) string {
	switch sig {
	case response.SignalError:
		return "--"
	case response.SignalFeedback:
		return ".."
	}
	return "──"
}

func Caption(p response.Params) string {
	return fmt.Sprintf("Kp=%.4g  ξ=%.4g  h=%g  t_end=%g", p.Kp, p.Xi, p.H, p.TEnd)
}

// MetricsPanel lists metric values sorted by name.
func MetricsPanel(m map[string]float64) string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%-14s %s", name, formatMetric(m[name]))
	}
	return b.String()
}

func formatMetric(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", v)
}

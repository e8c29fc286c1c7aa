package export

import (
	"bufio"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/stepsim/internal/response"
)

// FigureOptions controls the static figure. The y axis always spans
// [YMin, YMax] and is widened when the data leaves it.
type FigureOptions struct {
	Signals []response.Signal
	YMin    float64
	YMax    float64
	Width   vg.Length
	Height  vg.Length
	DPI     int
	Title   string
}

type lineStyle struct {
	label  string
	color  color.Color
	dashes []vg.Length
}

var lineStyles = map[response.Signal]lineStyle{
	response.SignalReference: {"Reference x(t)=1", color.Black, nil},
	response.SignalOutput:    {"Output y(t)", color.RGBA{B: 255, A: 255}, nil},
	response.SignalRate:      {"Rate dy(t)", color.RGBA{R: 200, G: 140, A: 255}, nil},
	response.SignalError:     {"Error e(t)", color.RGBA{R: 255, A: 255}, []vg.Length{vg.Points(6), vg.Points(3)}},
	response.SignalFeedback:  {"Feedback f(t)", color.RGBA{G: 160, A: 255}, []vg.Length{vg.Points(1.5), vg.Points(3)}},
}

// NewFigure builds the step response plot of tr. Non-finite samples are
// left out of the lines.
func NewFigure(tr *response.Trace, opts FigureOptions) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("Step response, Kp=%.4g, ξ=%.4g, h=%g", tr.Params.Kp, tr.Params.Xi, tr.Params.H)
	}
	p.X.Label.Text = "t, s"
	p.Y.Label.Text = "value"
	p.Add(plotter.NewGrid())

	for _, sig := range opts.Signals {
		pts := finitePoints(tr.T, tr.Series(sig))
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", sig, err)
		}
		style := lineStyles[sig]
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = style.color
		line.LineStyle.Dashes = style.dashes
		p.Add(line)
		p.Legend.Add(style.label, line)
	}

	p.Y.Min = math.Min(p.Y.Min, opts.YMin)
	p.Y.Max = math.Max(p.Y.Max, opts.YMax)
	if tr.Len() > 0 {
		p.X.Min = math.Min(p.X.Min, tr.T[0])
		p.X.Max = math.Max(p.X.Max, tr.T[tr.Len()-1])
	}
	p.Legend.Top = true
	return p, nil
}

func finitePoints(t, v []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(t))
	for i := range t {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: t[i], Y: v[i]})
	}
	return pts
}

// WriteFigure renders tr to path. The format follows the extension: .png
// is rasterized at opts.DPI, anything else gonum/plot supports (.svg, .pdf,
// .eps, .jpg, .tif) goes through plot.Save.
func WriteFigure(path string, tr *response.Trace, opts FigureOptions) error {
	if opts.Width == 0 {
		opts.Width = 8 * vg.Inch
	}
	if opts.Height == 0 {
		opts.Height = 5 * vg.Inch
	}
	p, err := NewFigure(tr, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) != ".png" {
		return p.Save(opts.Width, opts.Height, path)
	}

	dpi := opts.DPI
	if dpi <= 0 {
		dpi = vgimg.DefaultDPI
	}
	c := vgimg.NewWith(
		vgimg.UseWH(opts.Width, opts.Height),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

package analysis

import (
	"strings"

	"github.com/san-kum/stepsim/internal/response"
)

type Point struct{ X, Y float64 }

// PhasePortrait holds the (y, ẏ) trajectory of one run.
type PhasePortrait struct {
	Points []Point
}

func NewPhasePortrait(tr *response.Trace) *PhasePortrait {
	portrait := &PhasePortrait{Points: make([]Point, tr.Len())}
	for i := range portrait.Points {
		portrait.Points[i] = Point{X: tr.Y[i], Y: tr.DY[i]}
	}
	return portrait
}

// ToASCII draws the portrait on a width×height grid. Early samples use '.',
// middle 'o' and late '●' so the direction of travel stays visible.
func (p *PhasePortrait) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			canvas[row][col] = '─'
		}
	}

	n := len(p.Points)
	for i, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		switch {
		case i < n/3:
			canvas[row][col] = '.'
		case i < 2*n/3:
			canvas[row][col] = 'o'
		default:
			canvas[row][col] = '●'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

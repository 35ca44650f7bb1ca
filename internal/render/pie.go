package render

import (
	"fmt"
	"math"

	"pftracker/internal/core"
)

const (
	PieWidth  = 300
	PieHeight = 300

	// NoExpenseText is shown in place of the chart when nothing was spent.
	NoExpenseText = "No expense data"
)

// Slice is one wedge of the expense chart. Angles are radians, clockwise
// from 12 o'clock at -π/2.
type Slice struct {
	Category string
	Amount   core.Money
	Color    string
	Start    float64
	End      float64
	// Full marks a slice covering the whole disc; it is drawn as a circle.
	Full bool
	Path string
}

func (s Slice) Angle() float64 {
	return s.End - s.Start
}

// Pie is the geometry of the expense chart on a fixed canvas.
type Pie struct {
	Width, Height int
	CX, CY        float64
	R             float64
	Slices        []Slice
	Total         core.Money
	// Placeholder is the text drawn when there are no slices.
	Placeholder string
}

// Empty reports whether the placeholder should be drawn instead of slices.
func (p Pie) Empty() bool {
	return len(p.Slices) == 0
}

// BuildPie lays out one slice per category row, in row order.
func BuildPie(rows []core.CategoryAmount) Pie {
	p := Pie{
		Width:  PieWidth,
		Height: PieHeight,
		CX:     PieWidth / 2,
		CY:     PieHeight / 2,
		R:      math.Min(PieWidth, PieHeight)/2 - 10,
		Total:  core.TotalOf(rows),
	}
	if p.Total.Cents <= 0 {
		p.Placeholder = NoExpenseText
		return p
	}

	start := -math.Pi / 2
	for _, row := range rows {
		angle := float64(row.Amount.Cents) / float64(p.Total.Cents) * 2 * math.Pi
		s := Slice{
			Category: row.Name,
			Amount:   row.Amount,
			Color:    core.CategoryColor(row.Name),
			Start:    start,
			End:      start + angle,
			Full:     row.Amount == p.Total,
		}
		if !s.Full {
			s.Path = p.arcPath(s.Start, s.End)
		}
		p.Slices = append(p.Slices, s)
		start = s.End
	}
	return p
}

func (p Pie) point(angle float64) (float64, float64) {
	return p.CX + p.R*math.Cos(angle), p.CY + p.R*math.Sin(angle)
}

// arcPath draws a wedge from the center. SVG's y axis points down, so a
// positive sweep is clockwise on screen, like the canvas arc it replaces.
func (p Pie) arcPath(start, end float64) string {
	x1, y1 := p.point(start)
	x2, y2 := p.point(end)
	large := 0
	if end-start > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f Z",
		p.CX, p.CY, x1, y1, p.R, p.R, large, x2, y2)
}

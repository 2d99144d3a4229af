package analysis

import (
	"strings"

	"github.com/san-kum/popsim/internal/sim"
)

type Point struct {
	X, Y float64
}

// PhasePortrait2D holds the trajectory of one population against another.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []Point
}

// PhasePortrait extracts the (x, y) trajectory of populations xIdx and yIdx
// from a run. It returns nil when either index is out of range.
func PhasePortrait(snapshots []sim.Snapshot, xIdx, yIdx int) *PhasePortrait2D {
	if len(snapshots) == 0 {
		return nil
	}
	n := len(snapshots[0].Amounts)
	if xIdx < 0 || yIdx < 0 || xIdx >= n || yIdx >= n {
		return nil
	}

	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, len(snapshots)),
	}
	for _, s := range snapshots {
		portrait.Points = append(portrait.Points, Point{X: s.Amounts[xIdx], Y: s.Amounts[yIdx]})
	}
	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	b := boundsOf(portrait.Points).padded(0.1)
	canvas := newCanvas(width, height)

	for _, p := range portrait.Points {
		col, row := b.cell(p, width, height)
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if b.minX <= 0 && b.maxX >= 0 {
		col, _ := b.cell(Point{}, width, height)
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if b.minY <= 0 && b.maxY >= 0 {
		_, row := b.cell(Point{}, width, height)
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	return canvasString(canvas)
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func boundsOf(points []Point) bounds {
	b := bounds{points[0].X, points[0].X, points[0].Y, points[0].Y}
	for _, p := range points {
		if p.X < b.minX {
			b.minX = p.X
		}
		if p.X > b.maxX {
			b.maxX = p.X
		}
		if p.Y < b.minY {
			b.minY = p.Y
		}
		if p.Y > b.maxY {
			b.maxY = p.Y
		}
	}
	return b
}

func (b bounds) padded(frac float64) bounds {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return bounds{
		minX: b.minX - rangeX*frac,
		maxX: b.maxX + rangeX*frac,
		minY: b.minY - rangeY*frac,
		maxY: b.maxY + rangeY*frac,
	}
}

func (b bounds) cell(p Point, width, height int) (col, row int) {
	col = int((p.X - b.minX) / (b.maxX - b.minX) * float64(width-1))
	row = height - 1 - int((p.Y-b.minY)/(b.maxY-b.minY)*float64(height-1))
	return col, row
}

func newCanvas(width, height int) [][]rune {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}
	return canvas
}

func canvasString(canvas [][]rune) string {
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/oreal-solutions/npxlplay/internal/media"
)

// cursorSpan classifies what the progress bar's position indicator is
// currently sitting on, so the cursor itself can carry that information
// instead of leaving buffering and void frames invisible between ticks.
type cursorSpan int

const (
	spanReady cursorSpan = iota
	spanBuffering
	spanVoid
)

// cursorGlyph returns the indicator rune and style for s. Buffering gets a
// diamond (a full buffer fill is in flight); a void frame gets a hollow
// diamond (no page is buffered at this position); anything else, including
// a concealed page that reuses its predecessor's frame, gets the plain
// filled circle.
func (s cursorSpan) cursorGlyph() (string, lipgloss.Style) {
	switch s {
	case spanBuffering:
		return "◆", bufferingStyle
	case spanVoid:
		return "◇", voidStyle
	default:
		return "●", lipgloss.NewStyle()
	}
}

// renderProgressBar draws a track with a position indicator whose glyph and
// color reflect the span under the cursor: buffering, void, or ordinary
// playback.
func renderProgressBar(elapsed, total float64, width int, cursor cursorSpan) string {
	if width < 10 {
		width = 10
	}
	barWidth := width

	var ratio float64
	if total > 0 {
		ratio = elapsed / total
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	filled := int(ratio * float64(barWidth))
	glyph, style := cursor.cursorGlyph()
	indicator := style.Render(glyph)

	switch {
	case filled == 0:
		return indicator + strings.Repeat("─", barWidth-1)
	case filled >= barWidth:
		return strings.Repeat("━", barWidth-1) + indicator
	default:
		return strings.Repeat("━", filled) + indicator + strings.Repeat("─", barWidth-filled-1)
	}
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100))
}

// renderFrameSummary describes a vector frame's header fields: the core
// treats vector frames as opaque beyond Viewport's presence, so this is a
// metadata line (viewport size, background color, path/pointer presence)
// shown above the canvas rendered by renderCanvas.
func renderFrameSummary(vf media.RenderingInstructions) string {
	if vf.IsVoid() {
		return "(concealed/void frame)"
	}
	pointer := "no pointer"
	if vf.Pointer != nil && vf.Pointer.Visible {
		pointer = fmt.Sprintf("pointer @ (%.0f,%.0f)", vf.Pointer.X, vf.Pointer.Y)
	}
	return fmt.Sprintf(
		"viewport %dx%d  bg #%06X  %d path(s)  %s",
		vf.Viewport.WidthPx, vf.Viewport.HeightPx,
		vf.BackgroundColor&0xFFFFFF, len(vf.Paths), pointer,
	)
}

const (
	canvasCols = 48
	canvasRows = 14
)

// renderCanvas paints a vector frame onto a fixed block-character grid:
// viewport coordinates are scaled into the grid, each path is stroked with
// a line-drawing walk between consecutive points, and a visible pointer is
// marked separately. The host has no real rasterizer (the core leaves
// paths opaque beyond their points), so this is a coarse approximation
// good enough for a terminal demo, not a faithful vector renderer.
func renderCanvas(vf media.RenderingInstructions) string {
	grid := make([][]rune, canvasRows)
	for i := range grid {
		grid[i] = make([]rune, canvasCols)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}
	if vf.IsVoid() {
		msg := []rune("– concealed –")
		row := canvasRows / 2
		col := (canvasCols - len(msg)) / 2
		for i, r := range msg {
			if col+i >= 0 && col+i < canvasCols {
				grid[row][col+i] = r
			}
		}
		return canvasString(grid)
	}

	w := float64(vf.Viewport.WidthPx)
	h := float64(vf.Viewport.HeightPx)
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	toCell := func(x, y float64) (int, int) {
		col := int((x / w) * float64(canvasCols))
		row := int((y / h) * float64(canvasRows))
		if col < 0 {
			col = 0
		} else if col >= canvasCols {
			col = canvasCols - 1
		}
		if row < 0 {
			row = 0
		} else if row >= canvasRows {
			row = canvasRows - 1
		}
		return col, row
	}

	for _, p := range vf.Paths {
		for i := 1; i < len(p.Points); i++ {
			strokeLine(grid, toCell, p.Points[i-1], p.Points[i])
		}
		if len(p.Points) == 1 {
			c, r := toCell(p.Points[0].X, p.Points[0].Y)
			grid[r][c] = '█'
		}
	}

	if vf.Pointer != nil && vf.Pointer.Visible {
		c, r := toCell(vf.Pointer.X, vf.Pointer.Y)
		grid[r][c] = '◉'
	}

	return canvasString(grid)
}

// strokeLine marks every grid cell on a Bresenham walk between two
// viewport-space points.
func strokeLine(grid [][]rune, toCell func(x, y float64) (int, int), a, b media.Point) {
	x0, y0 := toCell(a.X, a.Y)
	x1, y1 := toCell(b.X, b.Y)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	for {
		grid[y0][x0] = '█'
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func canvasString(grid [][]rune) string {
	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

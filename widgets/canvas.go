package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cell struct {
	r     rune
	color lipgloss.Color
}

// canvas is a fixed-size character grid rendered row by row, styling runs
// of equal colour together
type canvas struct {
	cells [][]cell
}

func newCanvas(width, height int) *canvas {
	c := &canvas{cells: make([][]cell, height)}
	for y := range c.cells {
		c.cells[y] = make([]cell, width)
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, color lipgloss.Color) {
	if y < 0 || y >= len(c.cells) || x < 0 || x >= len(c.cells[y]) {
		return
	}
	c.cells[y][x] = cell{r: r, color: color}
}

func (c *canvas) text(x, y int, s string, color lipgloss.Color) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, color)
	}
}

func (c *canvas) String() string {
	lines := make([]string, len(c.cells))
	for y, row := range c.cells {
		var line, run strings.Builder
		var runColor lipgloss.Color
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				line.WriteString(run.String())
			} else {
				line.WriteString(lipgloss.NewStyle().Foreground(runColor).Render(run.String()))
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.color != runColor {
				flush()
				runColor = cl.color
			}
			run.WriteRune(cl.r)
		}
		flush()
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}

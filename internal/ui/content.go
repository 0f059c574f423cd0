package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/fogbank/internal/pages"
	"github.com/olivier-w/fogbank/internal/stage"
)

// maxTextWidth caps the measure of page text in columns.
const maxTextWidth = 64

var (
	pageTitleColor = hexColor("#f5e6c8")
	pageBodyColor  = hexColor("#c9d1d9")
)

func hexColor(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}

type textLine struct {
	text  string
	color colorful.Color
}

// layoutPage lays p out on a cols×rows grid, centered and shifted right by
// offset columns.
func layoutPage(p pages.Page, cols, rows, offset int) *stage.Grid {
	g := stage.NewGrid(cols, rows)
	width := min(cols-4, maxTextWidth)
	if width <= 0 || rows <= 0 {
		return g
	}

	var lines []textLine
	for _, l := range strings.Split(ansi.Wrap(p.Title, width, ""), "\n") {
		lines = append(lines, textLine{l, pageTitleColor})
	}
	if p.Body != "" {
		lines = append(lines, textLine{})
		for _, l := range strings.Split(ansi.Wrap(p.Body, width, ""), "\n") {
			lines = append(lines, textLine{l, pageBodyColor})
		}
	}

	left := (cols-width)/2 + offset
	top := max((rows-len(lines))/2, 0)
	for i, l := range lines {
		if top+i >= rows {
			break
		}
		g.WriteString(left, top+i, l.text, l.color)
	}
	return g
}

package stage

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// ASCII brightness ramp from darkest to brightest, used when the terminal
// has no color support.
const asciiRamp = " .:-=+*#%@"

var ansiReset = termenv.CSI + termenv.ResetSeq + "m"

// renderer turns a composed stage into a terminal string.
//   - Color (half-block): "▀" with fg = top pixel, bg = bottom pixel, so
//     each terminal row shows two pixel rows. Content cells keep their glyph
//     and take the averaged fog as background.
//   - ASCII (no color): fog brightness picks a ramp character, content
//     glyphs are printed as is.
type renderer struct {
	sb strings.Builder // reused across frames
}

func (r *renderer) render(s *Stage) string {
	if s.cols <= 0 || s.rows <= 0 {
		return ""
	}
	r.sb.Reset()
	// Worst case ~40 bytes per cell (two truecolor escapes) plus newlines.
	r.sb.Grow(s.cols * s.rows * 40)

	if s.profile == termenv.Ascii {
		r.renderASCII(s)
	} else {
		r.renderHalfBlock(s)
	}
	return r.sb.String()
}

func (r *renderer) renderHalfBlock(s *Stage) {
	var lastFg, lastBg string

	for row := 0; row < s.rows; row++ {
		top := row * PixelsPerRow
		bot := top + 1

		for col := 0; col < s.cols; col++ {
			cell, _ := s.content.At(col, row)
			if cell.Wide {
				continue
			}

			backTop := s.behind(col, top)
			backBot := s.behind(col, bot)

			var fg, bg colorful.Color
			glyph := "▀"
			if cell.Rune != 0 {
				glyph = string(cell.Rune)
				fg = s.front(cell.Color, col, top).BlendRgb(s.front(cell.Color, col, bot), 0.5)
				bg = s.front(backTop, col, top).BlendRgb(s.front(backBot, col, bot), 0.5)
			} else {
				fg = s.front(backTop, col, top)
				bg = s.front(backBot, col, bot)
			}

			fgSeq := colorSeq(s.profile, fg, false)
			bgSeq := colorSeq(s.profile, bg, true)
			if fgSeq != lastFg {
				r.sb.WriteString(fgSeq)
				lastFg = fgSeq
			}
			if bgSeq != lastBg {
				r.sb.WriteString(bgSeq)
				lastBg = bgSeq
			}
			r.sb.WriteString(glyph)
		}

		r.sb.WriteString(ansiReset)
		lastFg = ""
		lastBg = ""
		if row < s.rows-1 {
			r.sb.WriteByte('\n')
		}
	}
}

func (r *renderer) renderASCII(s *Stage) {
	for row := 0; row < s.rows; row++ {
		top := row * PixelsPerRow
		for col := 0; col < s.cols; col++ {
			cell, _ := s.content.At(col, row)
			if cell.Wide {
				continue
			}
			if cell.Rune != 0 {
				r.sb.WriteRune(cell.Rune)
				continue
			}
			c := s.front(s.behind(col, top), col, top).
				BlendRgb(s.front(s.behind(col, top+1), col, top+1), 0.5)
			r.sb.WriteByte(brightnessChar(luminance(c) - luminance(s.background)))
		}
		if row < s.rows-1 {
			r.sb.WriteByte('\n')
		}
	}
}

// colorSeq returns the SGR sequence selecting c as foreground or background
// in profile p.
func colorSeq(p termenv.Profile, c colorful.Color, bg bool) string {
	seq := p.Color(c.Clamped().Hex()).Sequence(bg)
	if seq == "" {
		return ""
	}
	return termenv.CSI + seq + "m"
}

// luminance computes perceived brightness (ITU-R BT.601).
func luminance(c colorful.Color) float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// brightnessChar maps a brightness above the page color to a ramp character.
func brightnessChar(lum float64) byte {
	if lum <= 0 {
		return asciiRamp[0]
	}
	idx := int(lum * float64(len(asciiRamp)-1) * 2)
	if idx >= len(asciiRamp) {
		idx = len(asciiRamp) - 1
	}
	return asciiRamp[idx]
}

package ui

import (
	"fmt"
	"strings"

	"github.com/olivier-w/fogbank/internal/ambient"
	"github.com/olivier-w/fogbank/internal/fog"
	"github.com/olivier-w/fogbank/internal/util"
)

func renderProgressBar(elapsed, total float64, width int) string {
	if width < 4 {
		width = 4
	}

	var ratio float64
	if total > 0 {
		ratio = elapsed / total
	}
	ratio = min(max(ratio, 0), 1)

	filled := int(ratio * float64(width))
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

func renderFogState(h *fog.Handle) string {
	if h == nil {
		return "fog rising"
	}
	switch h.State() {
	case fog.Active:
		return "fog on"
	case fog.Detached:
		return "fog off"
	}
	return "fog gone"
}

// renderTrack describes the ambient loop, or returns "" without one.
func renderTrack(p *ambient.Player) string {
	if p == nil {
		return ""
	}
	s := fmt.Sprintf("♪ %s  %s %s %s",
		p.Title(),
		util.FormatDuration(p.Position()),
		renderProgressBar(p.Position().Seconds(), p.Duration().Seconds(), 12),
		util.FormatDuration(p.Duration()),
	)
	if p.Muted() {
		return s + "  muted"
	}
	return s + "  " + renderVolumePercent(p.Volume())
}
